package expense

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/goodtricount/tricount/internal/group"
)

type fakeStore struct {
	expenses map[int64]*Expense
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{expenses: make(map[int64]*Expense), nextID: 1}
}

func (f *fakeStore) Create(ctx context.Context, e *Expense) (*Expense, error) {
	c := *e
	c.ID = f.nextID
	f.nextID++
	f.expenses[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*Expense, error) {
	e, ok := f.expenses[id]
	if !ok {
		return nil, nil
	}
	c := *e
	return &c, nil
}

func (f *fakeStore) ListByGroupID(ctx context.Context, groupID string, limit, offset int) ([]*Expense, int, error) {
	var out []*Expense
	for _, e := range f.expenses {
		if e.GroupID == groupID {
			c := *e
			out = append(out, &c)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) Update(ctx context.Context, e *Expense) (*Expense, error) {
	if _, ok := f.expenses[e.ID]; !ok {
		return nil, nil
	}
	c := *e
	f.expenses[e.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.expenses[id]; !ok {
		return ErrExpenseNotFound
	}
	delete(f.expenses, id)
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

func TestCreate(t *testing.T) {
	svc := newTestService("alice", "bob")

	e, err := svc.Create(context.Background(), "alice", &CreateExpenseRequest{
		GroupID:     "trip",
		Amount:      d("25.50"),
		Description: "Dinner at the pier",
	})
	require.NoError(t, err)
	require.NotZero(t, e.ID)
	require.Equal(t, "alice", e.Payer)
	require.True(t, e.Amount.Equal(d("25.50")))
}

func TestCreateZeroAmountAllowed(t *testing.T) {
	svc := newTestService("alice")

	_, err := svc.Create(context.Background(), "alice", &CreateExpenseRequest{
		GroupID: "trip",
		Amount:  d("0.00"),
	})
	require.NoError(t, err)
}

func TestCreateNegativeAmount(t *testing.T) {
	svc := newTestService("alice")

	_, err := svc.Create(context.Background(), "alice", &CreateExpenseRequest{
		GroupID: "trip",
		Amount:  d("-1.00"),
	})
	require.ErrorIs(t, err, ErrNegativeAmount)
}

func TestCreateNonParticipant(t *testing.T) {
	svc := newTestService("alice")

	_, err := svc.Create(context.Background(), "stranger", &CreateExpenseRequest{
		GroupID: "trip",
		Amount:  d("10.00"),
	})
	require.ErrorIs(t, err, ErrNotParticipant)
}

func TestCreateUnknownGroup(t *testing.T) {
	svc := newTestService("alice")

	_, err := svc.Create(context.Background(), "alice", &CreateExpenseRequest{
		GroupID: "nope",
		Amount:  d("10.00"),
	})
	require.ErrorIs(t, err, group.ErrGroupNotFound)
}

func TestUpdatePayerOnly(t *testing.T) {
	svc := newTestService("alice", "bob")
	ctx := context.Background()

	e, err := svc.Create(ctx, "alice", &CreateExpenseRequest{GroupID: "trip", Amount: d("10.00")})
	require.NoError(t, err)

	amount := d("15.00")
	_, err = svc.Update(ctx, "bob", e.ID, &UpdateExpenseRequest{Amount: &amount})
	require.ErrorIs(t, err, ErrNotPayer)

	updated, err := svc.Update(ctx, "alice", e.ID, &UpdateExpenseRequest{Amount: &amount})
	require.NoError(t, err)
	require.True(t, updated.Amount.Equal(d("15.00")))
}

func TestUpdateNegativeAmount(t *testing.T) {
	svc := newTestService("alice")
	ctx := context.Background()

	e, err := svc.Create(ctx, "alice", &CreateExpenseRequest{GroupID: "trip", Amount: d("10.00")})
	require.NoError(t, err)

	amount := d("-5.00")
	_, err = svc.Update(ctx, "alice", e.ID, &UpdateExpenseRequest{Amount: &amount})
	require.ErrorIs(t, err, ErrNegativeAmount)
}

func TestDeletePayerOnly(t *testing.T) {
	svc := newTestService("alice", "bob")
	ctx := context.Background()

	e, err := svc.Create(ctx, "alice", &CreateExpenseRequest{GroupID: "trip", Amount: d("10.00")})
	require.NoError(t, err)

	err = svc.Delete(ctx, "bob", e.ID)
	require.ErrorIs(t, err, ErrNotPayer)

	require.NoError(t, svc.Delete(ctx, "alice", e.ID))

	_, err = svc.GetByID(ctx, e.ID)
	require.ErrorIs(t, err, ErrExpenseNotFound)
}
