package payment

import (
	"context"
	"errors"

	"github.com/goodtricount/tricount/internal/group"
)

// Common errors
var (
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrNonPositiveAmount = errors.New("payment amount must be positive")
	ErrSelfPayment       = errors.New("payer and receiver must differ")
	ErrNotParticipant    = errors.New("payer and receiver must both be participants of this group")
	ErrAlreadyConfirmed  = errors.New("payment is already confirmed")
	ErrNotReceiver       = errors.New("only the receiver can confirm a payment")
	ErrNotPayer          = errors.New("only the payer can delete a payment")
)

// Store defines the persistence operations the service needs
type Store interface {
	Create(ctx context.Context, p *Payment) (*Payment, error)
	GetByID(ctx context.Context, id int64) (*Payment, error)
	ListByGroupID(ctx context.Context, groupID string, limit, offset int) ([]*Payment, int, error)
	Confirm(ctx context.Context, id int64) (*Payment, error)
	Delete(ctx context.Context, id int64) error
}

// GroupStore is the slice of the group repository the service needs to
// validate participation
type GroupStore interface {
	GetByID(ctx context.Context, id string) (*group.Group, error)
}

// Service governs the payment lifecycle
type Service struct {
	store  Store
	groups GroupStore
}

// NewService creates a new payment service with its dependencies injected
func NewService(store Store, groups GroupStore) *Service {
	return &Service{store: store, groups: groups}
}

// Create records a pending payment from payer to receiver. All validation
// runs before anything is written: the amount must be positive, payer and
// receiver must differ, and both must be participants of the group. Amounts
// are not checked against outstanding balances; the ledger records raw
// transfers.
func (s *Service) Create(ctx context.Context, payer string, req *CreatePaymentRequest) (*Payment, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	if payer == req.Receiver {
		return nil, ErrSelfPayment
	}

	g, err := s.groups.GetByID(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, group.ErrGroupNotFound
	}
	if !g.IsParticipant(payer) || !g.IsParticipant(req.Receiver) {
		return nil, ErrNotParticipant
	}

	return s.store.Create(ctx, &Payment{
		GroupID:  req.GroupID,
		Payer:    payer,
		Receiver: req.Receiver,
		Amount:   req.Amount,
	})
}

// GetByID retrieves a payment by its id
func (s *Service) GetByID(ctx context.Context, id int64) (*Payment, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

// ListByGroup retrieves payments for a group
func (s *Service) ListByGroup(ctx context.Context, groupID string, page, perPage int) ([]*Payment, int, error) {
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

// Confirm transitions a payment from pending to confirmed. Only the receiver
// may confirm. Confirming an already-confirmed payment is an error, not a
// no-op: the confirmation timestamp is set exactly once. Racing confirms are
// serialized by the store's conditional update; the loser sees the same
// already-confirmed error.
func (s *Service) Confirm(ctx context.Context, caller string, id int64) (*Payment, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Receiver != caller {
		return nil, ErrNotReceiver
	}

	confirmed, err := s.store.Confirm(ctx, id)
	if err != nil {
		return nil, err
	}
	if confirmed != nil {
		return confirmed, nil
	}

	// The conditional update matched nothing: either the payment vanished or
	// another caller confirmed it first.
	p, err = s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	return nil, ErrAlreadyConfirmed
}

// Delete removes a payment. Only the payer may delete, and only while the
// payment is still pending; confirmed payments are part of the settled ledger
// and immutable.
func (s *Service) Delete(ctx context.Context, caller string, id int64) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.Payer != caller {
		return ErrNotPayer
	}
	if p.Confirmed() {
		return ErrAlreadyConfirmed
	}

	return s.store.Delete(ctx, id)
}
