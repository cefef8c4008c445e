package group

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goodtricount/tricount/internal/user"
)

type fakeStore struct {
	groups map[string]*Group
}

func newFakeStore() *fakeStore {
	return &fakeStore{groups: make(map[string]*Group)}
}

func (f *fakeStore) clone(g *Group) *Group {
	c := *g
	c.Participants = slices.Clone(g.Participants)
	c.Admins = slices.Clone(g.Admins)
	return &c
}

func (f *fakeStore) Create(ctx context.Context, g *Group) (*Group, error) {
	if _, ok := f.groups[g.ID]; ok {
		return nil, ErrGroupIDTaken
	}
	f.groups[g.ID] = f.clone(g)
	return f.clone(g), nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, nil
	}
	return f.clone(g), nil
}

func (f *fakeStore) ListByUsername(ctx context.Context, username string, limit, offset int) ([]*Group, int, error) {
	var out []*Group
	for _, g := range f.groups {
		if g.IsParticipant(username) {
			out = append(out, f.clone(g))
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) Update(ctx context.Context, g *Group) (*Group, error) {
	if _, ok := f.groups[g.ID]; !ok {
		return nil, nil
	}
	f.groups[g.ID] = f.clone(g)
	return f.clone(g), nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.groups[id]; !ok {
		return ErrGroupNotFound
	}
	delete(f.groups, id)
	return nil
}

type fakeUserStore struct {
	usernames map[string]bool
}

func newFakeUserStore(usernames ...string) *fakeUserStore {
	f := &fakeUserStore{usernames: make(map[string]bool)}
	for _, u := range usernames {
		f.usernames[u] = true
	}
	return f
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	if !f.usernames[username] {
		return nil, nil
	}
	return &user.User{Username: username}, nil
}

func newTestService(usernames ...string) (*Service, *fakeStore) {
	store := newFakeStore()
	return NewService(store, newFakeUserStore(usernames...)), store
}

func TestCreateMakesCreatorAdmin(t *testing.T) {
	svc, _ := newTestService("alice")

	g, err := svc.Create(context.Background(), "alice", &CreateGroupRequest{ID: "trip", Name: "Summer Trip"})
	require.NoError(t, err)
	require.Equal(t, "trip", g.ID)
	require.True(t, g.IsParticipant("alice"))
	require.True(t, g.IsAdmin("alice"))
}

func TestCreateGeneratesIDWhenOmitted(t *testing.T) {
	svc, _ := newTestService("alice")

	g, err := svc.Create(context.Background(), "alice", &CreateGroupRequest{Name: "Summer Trip"})
	require.NoError(t, err)
	require.NotEmpty(t, g.ID)
}

func TestCreateDuplicateID(t *testing.T) {
	svc, _ := newTestService("alice")
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", &CreateGroupRequest{ID: "trip", Name: "First"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "alice", &CreateGroupRequest{ID: "trip", Name: "Second"})
	require.ErrorIs(t, err, ErrGroupIDTaken)
}

func TestAddParticipant(t *testing.T) {
	svc, _ := newTestService("alice", "bob")
	ctx := context.Background()
	_, err := svc.Create(ctx, "alice", &CreateGroupRequest{ID: "trip", Name: "Trip"})
	require.NoError(t, err)

	added, err := svc.AddParticipant(ctx, "alice", "trip", "bob")
	require.NoError(t, err)
	require.True(t, added)

	// repeated add reports not-added without erroring
	added, err = svc.AddParticipant(ctx, "alice", "trip", "bob")
	require.NoError(t, err)
	require.False(t, added)
}

func TestAddParticipantUnknownUser(t *testing.T) {
	svc, _ := newTestService("alice")
	ctx := context.Background()
	_, err := svc.Create(ctx, "alice", &CreateGroupRequest{ID: "trip", Name: "Trip"})
	require.NoError(t, err)

	_, err = svc.AddParticipant(ctx, "alice", "trip", "ghost")
	require.ErrorIs(t, err, ErrUnknownUser)
}

func TestAddParticipantRequiresMembership(t *testing.T) {
	svc, _ := newTestService("alice", "bob", "carol")
	ctx := context.Background()
	_, err := svc.Create(ctx, "alice", &CreateGroupRequest{ID: "trip", Name: "Trip"})
	require.NoError(t, err)

	_, err = svc.AddParticipant(ctx, "carol", "trip", "bob")
	require.ErrorIs(t, err, ErrMemberNotFound)
}

func TestAddAdminRequiresAdmin(t *testing.T) {
	svc, _ := newTestService("alice", "bob", "carol")
	ctx := context.Background()
	_, err := svc.Create(ctx, "alice", &CreateGroupRequest{ID: "trip", Name: "Trip"})
	require.NoError(t, err)

	_, err = svc.AddParticipant(ctx, "alice", "trip", "bob")
	require.NoError(t, err)

	_, err = svc.AddAdmin(ctx, "bob", "trip", "carol")
	require.ErrorIs(t, err, ErrNotAdmin)

	added, err := svc.AddAdmin(ctx, "alice", "trip", "bob")
	require.NoError(t, err)
	require.True(t, added)
}

func TestAddAdminPromotesNonParticipant(t *testing.T) {
	svc, store := newTestService("alice", "bob")
	ctx := context.Background()
	_, err := svc.Create(ctx, "alice", &CreateGroupRequest{ID: "trip", Name: "Trip"})
	require.NoError(t, err)

	added, err := svc.AddAdmin(ctx, "alice", "trip", "bob")
	require.NoError(t, err)
	require.True(t, added)

	g := store.groups["trip"]
	require.True(t, g.IsParticipant("bob"), "granting admin promotes to participant in the same write")
	require.True(t, g.IsAdmin("bob"))
}

func TestRemoveAdminKeepsParticipant(t *testing.T) {
	svc, store := newTestService("alice", "bob")
	ctx := context.Background()
	_, err := svc.Create(ctx, "alice", &CreateGroupRequest{ID: "trip", Name: "Trip"})
	require.NoError(t, err)
	_, err = svc.AddAdmin(ctx, "alice", "trip", "bob")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveAdmin(ctx, "alice", "trip", "bob"))

	g := store.groups["trip"]
	require.True(t, g.IsParticipant("bob"), "revoking admin must not remove participation")
	require.False(t, g.IsAdmin("bob"))

	err = svc.RemoveAdmin(ctx, "alice", "trip", "bob")
	require.ErrorIs(t, err, ErrMemberNotFound)
}

func TestRemoveAdminRequiresAdmin(t *testing.T) {
	svc, _ := newTestService("alice", "bob")
	ctx := context.Background()
	_, err := svc.Create(ctx, "alice", &CreateGroupRequest{ID: "trip", Name: "Trip"})
	require.NoError(t, err)
	_, err = svc.AddParticipant(ctx, "alice", "trip", "bob")
	require.NoError(t, err)

	err = svc.RemoveAdmin(ctx, "bob", "trip", "alice")
	require.ErrorIs(t, err, ErrNotAdmin)
}

func TestRemoveParticipantSelfOrAdmin(t *testing.T) {
	svc, _ := newTestService("alice", "bob", "carol")
	ctx := context.Background()
	_, err := svc.Create(ctx, "alice", &CreateGroupRequest{ID: "trip", Name: "Trip"})
	require.NoError(t, err)
	_, err = svc.AddParticipant(ctx, "alice", "trip", "bob")
	require.NoError(t, err)
	_, err = svc.AddParticipant(ctx, "alice", "trip", "carol")
	require.NoError(t, err)

	// non-admin removing someone else
	err = svc.RemoveParticipant(ctx, "bob", "trip", "carol")
	require.ErrorIs(t, err, ErrNotAdmin)

	// self removal is always allowed
	require.NoError(t, svc.RemoveParticipant(ctx, "carol", "trip", "carol"))

	// admin removing someone else
	require.NoError(t, svc.RemoveParticipant(ctx, "alice", "trip", "bob"))

	err = svc.RemoveParticipant(ctx, "alice", "trip", "bob")
	require.ErrorIs(t, err, ErrMemberNotFound)
}

func TestRenameAdminOnly(t *testing.T) {
	svc, _ := newTestService("alice", "bob")
	ctx := context.Background()
	_, err := svc.Create(ctx, "alice", &CreateGroupRequest{ID: "trip", Name: "Trip"})
	require.NoError(t, err)
	_, err = svc.AddParticipant(ctx, "alice", "trip", "bob")
	require.NoError(t, err)

	name := "Winter Trip"
	_, err = svc.Rename(ctx, "bob", "trip", &UpdateGroupRequest{Name: &name})
	require.ErrorIs(t, err, ErrNotAdmin)

	g, err := svc.Rename(ctx, "alice", "trip", &UpdateGroupRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Winter Trip", g.Name)
}

func TestMembership(t *testing.T) {
	svc, _ := newTestService("alice", "bob")
	ctx := context.Background()
	_, err := svc.Create(ctx, "alice", &CreateGroupRequest{ID: "trip", Name: "Trip"})
	require.NoError(t, err)
	_, err = svc.AddParticipant(ctx, "alice", "trip", "bob")
	require.NoError(t, err)

	m, err := svc.Membership(ctx, "trip", "bob")
	require.NoError(t, err)
	require.True(t, m.Participant)
	require.False(t, m.Admin)

	m, err = svc.Membership(ctx, "trip", "stranger")
	require.NoError(t, err)
	require.False(t, m.Participant)
	require.False(t, m.Admin)

	_, err = svc.Membership(ctx, "nope", "bob")
	require.ErrorIs(t, err, ErrGroupNotFound)
}

func TestGetMissingGroup(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrGroupNotFound)
}
