package user

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailAlreadyInUse  = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	// ErrUserHasLedgerEntries blocks deleting an account that still appears
	// as payer or receiver on recorded expenses or payments.
	ErrUserHasLedgerEntries = errors.New("user has recorded expenses or payments")
)

// Store defines the persistence operations the service needs. The concrete
// implementation lives in repository.go; tests substitute an in-memory fake.
type Store interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
	UpdateName(ctx context.Context, username, name string) (*User, error)
	Delete(ctx context.Context, username string) error
}

// Service handles registration, authentication and user lookups
type Service struct {
	store      Store
	bcryptCost int
}

// NewService creates a new user service with its store dependency injected.
// bcryptCost of 0 selects bcrypt.DefaultCost.
func NewService(store Store, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{store: store, bcryptCost: bcryptCost}
}

// Register creates a new account with a hashed password. Username and email
// conflicts are reported as distinct errors so callers can render specific
// messages.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}

	existing, err := s.store.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	existing, err = s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.store.Create(ctx, &User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
		Name:         req.Name,
	})
}

// Authenticate verifies the username and password, returning the user if the
// credentials are valid. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// GetByUsername retrieves a user by their username
func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	u, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// List retrieves all users with pagination
func (s *Service) List(ctx context.Context, page, perPage int) ([]*User, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.store.List(ctx, perPage, offset)
}

// Update modifies a user's display name
func (s *Service) Update(ctx context.Context, username string, req *UpdateUserRequest) (*User, error) {
	existing, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrUserNotFound
	}

	if req.Name == nil {
		return existing, nil
	}

	u, err := s.store.UpdateName(ctx, username, *req.Name)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Delete removes a user
func (s *Service) Delete(ctx context.Context, username string) error {
	return s.store.Delete(ctx, username)
}
