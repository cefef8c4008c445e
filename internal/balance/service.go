package balance

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrNotParticipant = errors.New("user is not a participant of the group")
)

// SnapshotStore loads a consistent read of a group's ledger.
type SnapshotStore interface {
	Snapshot(ctx context.Context, groupID string) (*Snapshot, error)
}

type Service struct {
	store SnapshotStore
}

func NewService(store SnapshotStore) *Service {
	return &Service{store: store}
}

// GroupBalances returns the per-participant balance table for a group. Only
// participants may see it.
func (s *Service) GroupBalances(ctx context.Context, caller, groupID string) ([]Summary, error) {
	snap, err := s.store.Snapshot(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load group ledger: %w", err)
	}
	if snap == nil {
		return nil, ErrGroupNotFound
	}
	if !slices.Contains(snap.Participants, caller) {
		return nil, ErrNotParticipant
	}

	summaries, err := GroupBalances(snap.Participants, snap.Expenses, snap.Payments)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balances: %w", err)
	}
	return summaries, nil
}
