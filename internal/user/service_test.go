package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeStore struct {
	users map[string]*User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]*User)}
}

func (f *fakeStore) Create(ctx context.Context, u *User) (*User, error) {
	if _, ok := f.users[u.Username]; ok {
		return nil, ErrUsernameTaken
	}
	c := *u
	f.users[u.Username] = &c
	return &c, nil
}

func (f *fakeStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (f *fakeStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var out []*User
	for _, u := range f.users {
		c := *u
		out = append(out, &c)
	}
	return out, len(out), nil
}

func (f *fakeStore) UpdateName(ctx context.Context, username, name string) (*User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, nil
	}
	u.Name = name
	c := *u
	return &c, nil
}

func (f *fakeStore) Delete(ctx context.Context, username string) error {
	if _, ok := f.users[username]; !ok {
		return ErrUserNotFound
	}
	delete(f.users, username)
	return nil
}

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		Username: "johndoe",
		Password: "s3cret!pass",
		Email:    "john@example.com",
		Name:     "John Doe",
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, bcrypt.MinCost)

	u, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	require.Equal(t, "johndoe", u.Username)
	require.NotEmpty(t, u.PasswordHash)
	require.NotEqual(t, "s3cret!pass", u.PasswordHash, "password must never be stored in cleartext")
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret!pass")))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := NewService(newFakeStore(), bcrypt.MinCost)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	req := registerRequest()
	req.Email = "other@example.com"
	_, err = svc.Register(ctx, req)
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeStore(), bcrypt.MinCost)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	req := registerRequest()
	req.Username = "janedoe"
	_, err = svc.Register(ctx, req)
	require.ErrorIs(t, err, ErrEmailAlreadyInUse)
}

func TestRegisterWeakPassword(t *testing.T) {
	svc := NewService(newFakeStore(), bcrypt.MinCost)

	req := registerRequest()
	req.Password = "short"
	_, err := svc.Register(context.Background(), req)
	require.ErrorIs(t, err, ErrWeakPassword)
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(newFakeStore(), bcrypt.MinCost)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "johndoe", "s3cret!pass")
	require.NoError(t, err)
	require.Equal(t, "johndoe", u.Username)

	_, err = svc.Authenticate(ctx, "johndoe", "wrong-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// unknown users get the same error as wrong passwords
	_, err = svc.Authenticate(ctx, "nobody", "s3cret!pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateName(t *testing.T) {
	svc := NewService(newFakeStore(), bcrypt.MinCost)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	name := "John D."
	u, err := svc.Update(ctx, "johndoe", &UpdateUserRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "John D.", u.Name)

	_, err = svc.Update(ctx, "nobody", &UpdateUserRequest{Name: &name})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetByUsernameNotFound(t *testing.T) {
	svc := NewService(newFakeStore(), bcrypt.MinCost)

	_, err := svc.GetByUsername(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrUserNotFound)
}
