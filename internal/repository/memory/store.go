package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/iamasit07/connect4/internal/domain"
)

// SnapshotStore keeps snapshots in process memory. It is used when Redis is
// disabled or unreachable.
type SnapshotStore struct {
	snapshots map[string]domain.Snapshot
	mu        sync.RWMutex
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snapshots: make(map[string]domain.Snapshot)}
}

func (s *SnapshotStore) Save(_ context.Context, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[snap.GameID] = snap
	return nil
}

func (s *SnapshotStore) Load(_ context.Context, gameID string) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[gameID]
	if !ok {
		return domain.Snapshot{}, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, gameID)
	}
	return snap, nil
}

func (s *SnapshotStore) Delete(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.snapshots, gameID)
	return nil
}

// Len returns the number of stored snapshots.
func (s *SnapshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}
