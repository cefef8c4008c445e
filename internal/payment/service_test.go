package payment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/goodtricount/tricount/internal/group"
)

type fakeStore struct {
	payments map[int64]*Payment
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{payments: make(map[int64]*Payment), nextID: 1}
}

func (f *fakeStore) clone(p *Payment) *Payment {
	c := *p
	if p.ConfirmedAt != nil {
		ts := *p.ConfirmedAt
		c.ConfirmedAt = &ts
	}
	return &c
}

func (f *fakeStore) Create(ctx context.Context, p *Payment) (*Payment, error) {
	c := f.clone(p)
	c.ID = f.nextID
	f.nextID++
	c.Status = StatusPending
	c.CreatedAt = time.Now()
	f.payments[c.ID] = c
	return f.clone(c), nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, nil
	}
	return f.clone(p), nil
}

func (f *fakeStore) ListByGroupID(ctx context.Context, groupID string, limit, offset int) ([]*Payment, int, error) {
	var out []*Payment
	for _, p := range f.payments {
		if p.GroupID == groupID {
			out = append(out, f.clone(p))
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) Confirm(ctx context.Context, id int64) (*Payment, error) {
	p, ok := f.payments[id]
	if !ok || p.Status != StatusPending {
		return nil, nil
	}
	now := time.Now()
	if now.Before(p.CreatedAt) {
		now = p.CreatedAt
	}
	p.Status = StatusConfirmed
	p.ConfirmedAt = &now
	return f.clone(p), nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.payments[id]; !ok {
		return ErrPaymentNotFound
	}
	delete(f.payments, id)
	return nil
}

type fakeGroupStore struct {
	groups map[string]*group.Group
}

func (f *fakeGroupStore) GetByID(ctx context.Context, id string) (*group.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, nil
	}
	return g, nil
}

func newTestService(participants ...string) *Service {
	g := group.New("trip", "Summer Trip")
	for _, p := range participants {
		g.AddParticipant(p)
	}
	return NewService(newFakeStore(), &fakeGroupStore{groups: map[string]*group.Group{"trip": g}})
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateStartsPending(t *testing.T) {
	svc := newTestService("alice", "bob")

	p, err := svc.Create(context.Background(), "bob", &CreatePaymentRequest{
		GroupID:  "trip",
		Receiver: "alice",
		Amount:   d("50.00"),
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, p.Status)
	require.Nil(t, p.ConfirmedAt)
	require.False(t, p.Confirmed())
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		payer   string
		req     *CreatePaymentRequest
		wantErr error
	}{
		{
			name:    "zero amount",
			payer:   "bob",
			req:     &CreatePaymentRequest{GroupID: "trip", Receiver: "alice", Amount: d("0.00")},
			wantErr: ErrNonPositiveAmount,
		},
		{
			name:    "negative amount",
			payer:   "bob",
			req:     &CreatePaymentRequest{GroupID: "trip", Receiver: "alice", Amount: d("-5.00")},
			wantErr: ErrNonPositiveAmount,
		},
		{
			name:    "self payment",
			payer:   "bob",
			req:     &CreatePaymentRequest{GroupID: "trip", Receiver: "bob", Amount: d("5.00")},
			wantErr: ErrSelfPayment,
		},
		{
			name:    "payer outside group",
			payer:   "stranger",
			req:     &CreatePaymentRequest{GroupID: "trip", Receiver: "alice", Amount: d("5.00")},
			wantErr: ErrNotParticipant,
		},
		{
			name:    "receiver outside group",
			payer:   "bob",
			req:     &CreatePaymentRequest{GroupID: "trip", Receiver: "stranger", Amount: d("5.00")},
			wantErr: ErrNotParticipant,
		},
		{
			name:    "unknown group",
			payer:   "bob",
			req:     &CreatePaymentRequest{GroupID: "nope", Receiver: "alice", Amount: d("5.00")},
			wantErr: group.ErrGroupNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService("alice", "bob")
			_, err := svc.Create(context.Background(), tt.payer, tt.req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateOverpaymentAllowed(t *testing.T) {
	// Payments record raw transfers; the amount is not capped by what is owed.
	svc := newTestService("alice", "bob")

	_, err := svc.Create(context.Background(), "bob", &CreatePaymentRequest{
		GroupID:  "trip",
		Receiver: "alice",
		Amount:   d("999999.99"),
	})
	require.NoError(t, err)
}

func TestConfirmReceiverOnly(t *testing.T) {
	svc := newTestService("alice", "bob")
	ctx := context.Background()

	p, err := svc.Create(ctx, "bob", &CreatePaymentRequest{GroupID: "trip", Receiver: "alice", Amount: d("50.00")})
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, "bob", p.ID)
	require.ErrorIs(t, err, ErrNotReceiver, "the payer cannot confirm their own payment")

	confirmed, err := svc.Confirm(ctx, "alice", p.ID)
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)
	require.False(t, confirmed.ConfirmedAt.Before(confirmed.CreatedAt),
		"confirmation can never precede creation")
}

func TestConfirmTwice(t *testing.T) {
	svc := newTestService("alice", "bob")
	ctx := context.Background()

	p, err := svc.Create(ctx, "bob", &CreatePaymentRequest{GroupID: "trip", Receiver: "alice", Amount: d("50.00")})
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, "alice", p.ID)
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, "alice", p.ID)
	require.ErrorIs(t, err, ErrAlreadyConfirmed)
}

func TestConfirmMissingPayment(t *testing.T) {
	svc := newTestService("alice", "bob")

	_, err := svc.Confirm(context.Background(), "alice", 404)
	require.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestDeletePendingPaymentPayerOnly(t *testing.T) {
	svc := newTestService("alice", "bob")
	ctx := context.Background()

	p, err := svc.Create(ctx, "bob", &CreatePaymentRequest{GroupID: "trip", Receiver: "alice", Amount: d("50.00")})
	require.NoError(t, err)

	err = svc.Delete(ctx, "alice", p.ID)
	require.ErrorIs(t, err, ErrNotPayer)

	require.NoError(t, svc.Delete(ctx, "bob", p.ID))

	_, err = svc.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestDeleteConfirmedPaymentRejected(t *testing.T) {
	svc := newTestService("alice", "bob")
	ctx := context.Background()

	p, err := svc.Create(ctx, "bob", &CreatePaymentRequest{GroupID: "trip", Receiver: "alice", Amount: d("50.00")})
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, "alice", p.ID)
	require.NoError(t, err)

	err = svc.Delete(ctx, "bob", p.ID)
	require.ErrorIs(t, err, ErrAlreadyConfirmed, "confirmed payments are immutable")
}

func TestGetByIDMissing(t *testing.T) {
	svc := newTestService("alice")

	_, err := svc.GetByID(context.Background(), 404)
	require.ErrorIs(t, err, ErrPaymentNotFound)
}
