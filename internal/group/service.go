package group

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/goodtricount/tricount/internal/user"
)

// Common errors
var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrGroupIDTaken   = errors.New("group id already taken")
	ErrUnknownUser    = errors.New("user does not exist")
	ErrMemberNotFound = errors.New("user is not a participant of this group")
	ErrNotAdmin       = errors.New("only group admins may do this")
)

// Store defines the persistence operations the service needs
type Store interface {
	Create(ctx context.Context, g *Group) (*Group, error)
	GetByID(ctx context.Context, id string) (*Group, error)
	ListByUsername(ctx context.Context, username string, limit, offset int) ([]*Group, int, error)
	Update(ctx context.Context, g *Group) (*Group, error)
	Delete(ctx context.Context, id string) error
}

// UserStore is the slice of the user repository the membership manager needs
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

// Service enforces the membership rules on top of the repository
type Service struct {
	store Store
	users UserStore
}

// NewService creates a new group service with its dependencies injected
func NewService(store Store, users UserStore) *Service {
	return &Service{store: store, users: users}
}

// Create creates a group. The creator becomes a participant and an admin. A
// client-supplied id collides with Conflict; when omitted one is generated.
func (s *Service) Create(ctx context.Context, creator string, req *CreateGroupRequest) (*Group, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	g := New(id, req.Name)
	g.AddAdmin(creator)

	return s.store.Create(ctx, g)
}

// Get retrieves a group by its id
func (s *Service) Get(ctx context.Context, id string) (*Group, error) {
	g, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}
	return g, nil
}

// ListByUser retrieves all groups the user participates in
func (s *Service) ListByUser(ctx context.Context, username string, page, perPage int) ([]*Group, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.store.ListByUsername(ctx, username, perPage, offset)
}

// Rename changes the group name. Only admins may rename.
func (s *Service) Rename(ctx context.Context, caller, groupID string, req *UpdateGroupRequest) (*Group, error) {
	g, err := s.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !g.IsAdmin(caller) {
		return nil, ErrNotAdmin
	}

	if req.Name != nil {
		g.Name = *req.Name
	}

	return s.update(ctx, g)
}

// Delete removes a group and, via cascade, all of its expenses, payments and
// membership records. Only admins may delete.
func (s *Service) Delete(ctx context.Context, caller, groupID string) error {
	g, err := s.Get(ctx, groupID)
	if err != nil {
		return err
	}
	if !g.IsAdmin(caller) {
		return ErrNotAdmin
	}

	return s.store.Delete(ctx, groupID)
}

// AddParticipant adds username to the group. Repeating the call reports
// added=false without erroring.
func (s *Service) AddParticipant(ctx context.Context, caller, groupID, username string) (bool, error) {
	g, err := s.Get(ctx, groupID)
	if err != nil {
		return false, err
	}
	if !g.IsParticipant(caller) {
		return false, ErrMemberNotFound
	}
	if err := s.checkUserExists(ctx, username); err != nil {
		return false, err
	}

	if !g.AddParticipant(username) {
		return false, nil
	}

	if _, err := s.update(ctx, g); err != nil {
		return false, err
	}
	return true, nil
}

// AddAdmin grants username admin rights, promoting them to participant first
// when needed. Both mutations land in the same membership write. Only admins
// may grant admin rights.
func (s *Service) AddAdmin(ctx context.Context, caller, groupID, username string) (bool, error) {
	g, err := s.Get(ctx, groupID)
	if err != nil {
		return false, err
	}
	if !g.IsAdmin(caller) {
		return false, ErrNotAdmin
	}
	if err := s.checkUserExists(ctx, username); err != nil {
		return false, err
	}

	if !g.AddAdmin(username) {
		return false, nil
	}

	if _, err := s.update(ctx, g); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveAdmin revokes username's admin role; they remain a participant. Only
// admins may revoke, including their own role.
func (s *Service) RemoveAdmin(ctx context.Context, caller, groupID, username string) error {
	g, err := s.Get(ctx, groupID)
	if err != nil {
		return err
	}
	if !g.IsAdmin(caller) {
		return ErrNotAdmin
	}

	if !g.RemoveAdmin(username) {
		return ErrMemberNotFound
	}

	_, err = s.update(ctx, g)
	return err
}

// RemoveParticipant removes username from the group along with any admin
// role. Participants may remove themselves; removing others requires admin
// rights.
func (s *Service) RemoveParticipant(ctx context.Context, caller, groupID, username string) error {
	g, err := s.Get(ctx, groupID)
	if err != nil {
		return err
	}
	if caller != username && !g.IsAdmin(caller) {
		return ErrNotAdmin
	}

	if !g.RemoveParticipant(username) {
		return ErrMemberNotFound
	}

	_, err = s.update(ctx, g)
	return err
}

// Membership reports whether username is a participant and/or admin of the
// group without mutating anything
func (s *Service) Membership(ctx context.Context, groupID, username string) (*MembershipResponse, error) {
	g, err := s.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return &MembershipResponse{
		Username:    username,
		Participant: g.IsParticipant(username),
		Admin:       g.IsAdmin(username),
	}, nil
}

func (s *Service) update(ctx context.Context, g *Group) (*Group, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, g)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrGroupNotFound
	}
	return updated, nil
}

func (s *Service) checkUserExists(ctx context.Context, username string) error {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUnknownUser
	}
	return nil
}
