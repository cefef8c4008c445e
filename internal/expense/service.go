package expense

import (
	"context"
	"errors"

	"github.com/goodtricount/tricount/internal/group"
)

// Common errors
var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrNegativeAmount  = errors.New("expense amount cannot be negative")
	ErrNotParticipant  = errors.New("payer is not a participant of this group")
	ErrNotPayer        = errors.New("only the payer can modify this expense")
)

// Store defines the persistence operations the service needs
type Store interface {
	Create(ctx context.Context, e *Expense) (*Expense, error)
	GetByID(ctx context.Context, id int64) (*Expense, error)
	ListByGroupID(ctx context.Context, groupID string, limit, offset int) ([]*Expense, int, error)
	Update(ctx context.Context, e *Expense) (*Expense, error)
	Delete(ctx context.Context, id int64) error
}

// GroupStore is the slice of the group repository the service needs to
// validate participation
type GroupStore interface {
	GetByID(ctx context.Context, id string) (*group.Group, error)
}

// Service handles expense business logic
type Service struct {
	store  Store
	groups GroupStore
}

// NewService creates a new expense service with its dependencies injected
func NewService(store Store, groups GroupStore) *Service {
	return &Service{store: store, groups: groups}
}

// Create records an expense paid by payer. The payer must be a participant
// of the group and the amount must not be negative; both checks run before
// anything is written.
func (s *Service) Create(ctx context.Context, payer string, req *CreateExpenseRequest) (*Expense, error) {
	if req.Amount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	g, err := s.groups.GetByID(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, group.ErrGroupNotFound
	}
	if !g.IsParticipant(payer) {
		return nil, ErrNotParticipant
	}

	return s.store.Create(ctx, &Expense{
		GroupID:     req.GroupID,
		Payer:       payer,
		Amount:      req.Amount,
		Description: req.Description,
	})
}

// GetByID retrieves an expense by its id
func (s *Service) GetByID(ctx context.Context, id int64) (*Expense, error) {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}
	return e, nil
}

// ListByGroup retrieves expenses for a group
func (s *Service) ListByGroup(ctx context.Context, groupID string, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, 0, err
	}
	if g == nil {
		return nil, 0, group.ErrGroupNotFound
	}

	offset := (page - 1) * perPage
	return s.store.ListByGroupID(ctx, groupID, perPage, offset)
}

// Update modifies an expense's amount or description. Only the payer may
// update their expense.
func (s *Service) Update(ctx context.Context, caller string, id int64, req *UpdateExpenseRequest) (*Expense, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Payer != caller {
		return nil, ErrNotPayer
	}

	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, ErrNegativeAmount
		}
		e.Amount = *req.Amount
	}
	if req.Description != nil {
		e.Description = *req.Description
	}

	updated, err := s.store.Update(ctx, e)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrExpenseNotFound
	}
	return updated, nil
}

// Delete removes an expense. Only the payer may delete their expense.
func (s *Service) Delete(ctx context.Context, caller string, id int64) error {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e.Payer != caller {
		return ErrNotPayer
	}

	return s.store.Delete(ctx, id)
}
