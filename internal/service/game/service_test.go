package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingStore struct {
	*memory.SnapshotStore
	saves   int
	deletes int
	failing bool
}

func (s *countingStore) Save(ctx context.Context, snap domain.Snapshot) error {
	s.saves++
	if s.failing {
		return errors.New("cache down")
	}
	return s.SnapshotStore.Save(ctx, snap)
}

func (s *countingStore) Delete(ctx context.Context, gameID string) error {
	s.deletes++
	return s.SnapshotStore.Delete(ctx, gameID)
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []domain.Snapshot
	closed    []string
}

func (p *recordingPublisher) Publish(snap domain.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, snap)
}

func (p *recordingPublisher) CloseGame(gameID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = append(p.closed, gameID)
}

func newTestManager(t *testing.T) (*Manager, *countingStore, *recordingPublisher) {
	t.Helper()
	store := &countingStore{SnapshotStore: memory.NewSnapshotStore()}
	pub := &recordingPublisher{}
	return NewManager(store, pub, zap.NewNop()), store, pub
}

func side(s domain.Side) *domain.Side {
	return &s
}

func TestCreate(t *testing.T) {
	m, store, pub := newTestManager(t)
	ctx := context.Background()

	snap, err := m.Create(ctx, 6, 7)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.GameID)
	assert.Equal(t, domain.StateFirstTurn, snap.State)
	assert.Equal(t, "first", snap.SideToMove)
	assert.Equal(t, 1, store.saves)
	assert.Empty(t, pub.published)

	cached, err := store.Load(ctx, snap.GameID)
	require.NoError(t, err)
	assert.Equal(t, snap, cached)

	session, ok := m.Get(snap.GameID)
	require.True(t, ok)
	assert.Equal(t, 6, session.Game.Height())
}

func TestCreateInvalidDimensions(t *testing.T) {
	m, store, _ := newTestManager(t)

	_, err := m.Create(context.Background(), 3, 7)
	require.ErrorIs(t, err, domain.ErrInvalidDimensions)
	assert.Zero(t, m.Count())
	assert.Zero(t, store.saves)
}

func TestMoveFansOutOncePerNotification(t *testing.T) {
	m, store, pub := newTestManager(t)
	snap, err := m.Create(context.Background(), 6, 7)
	require.NoError(t, err)
	id := snap.GameID

	for _, col := range []int{0, 1, 0, 1, 0, 1} {
		_, err := m.Move(id, nil, col)
		require.NoError(t, err)
	}
	got, err := m.Move(id, side(domain.First), 0)
	require.NoError(t, err)

	assert.Equal(t, domain.StateFirstWins, got.State)
	assert.Equal(t, "first", got.Winner)
	assert.Equal(t, &domain.Position{Column: 0, Row: 3}, got.LastMove)
	assert.Equal(t, 8, store.saves, "create plus one per move")
	require.Len(t, pub.published, 7)
	assert.Equal(t, got, pub.published[6])
	assert.Equal(t, domain.StateSecondTurn, pub.published[0].State)
}

func TestMoveErrors(t *testing.T) {
	m, store, pub := newTestManager(t)
	snap, err := m.Create(context.Background(), 4, 4)
	require.NoError(t, err)
	id := snap.GameID

	_, err = m.Move("nope", nil, 0)
	require.ErrorIs(t, err, domain.ErrGameNotFound)

	_, err = m.Move(id, side(domain.Second), 0)
	require.ErrorIs(t, err, domain.ErrWrongTurn)

	_, err = m.Move(id, nil, 4)
	require.ErrorIs(t, err, domain.ErrOutOfBounds)

	for i := 0; i < 4; i++ {
		_, err = m.Move(id, nil, 0)
		require.NoError(t, err)
	}
	_, err = m.Move(id, nil, 0)
	require.ErrorIs(t, err, domain.ErrColumnFull)

	assert.Equal(t, 5, store.saves)
	assert.Len(t, pub.published, 4)
}

func TestMoveAfterGameOver(t *testing.T) {
	m, _, _ := newTestManager(t)
	snap, err := m.Create(context.Background(), 6, 7)
	require.NoError(t, err)

	for _, col := range []int{0, 1, 0, 1, 0, 1, 0} {
		_, err := m.Move(snap.GameID, nil, col)
		require.NoError(t, err)
	}
	_, err = m.Move(snap.GameID, nil, 3)
	require.ErrorIs(t, err, domain.ErrGameOver)
}

func TestStoreFailureDoesNotFailMove(t *testing.T) {
	m, store, pub := newTestManager(t)
	snap, err := m.Create(context.Background(), 6, 7)
	require.NoError(t, err)

	store.failing = true
	got, err := m.Move(snap.GameID, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Moves)
	assert.Len(t, pub.published, 1)
}

func TestReset(t *testing.T) {
	m, _, pub := newTestManager(t)
	snap, err := m.Create(context.Background(), 6, 7)
	require.NoError(t, err)

	_, err = m.Move(snap.GameID, nil, 3)
	require.NoError(t, err)

	got, err := m.Reset(snap.GameID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateFirstTurn, got.State)
	assert.Zero(t, got.Moves)
	assert.Nil(t, got.LastMove)
	assert.Len(t, pub.published, 2)

	_, err = m.Reset("nope")
	require.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestSnapshotFallsBackToStore(t *testing.T) {
	m, store, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, store.SnapshotStore.Save(ctx, domain.Snapshot{GameID: "cached", Moves: 9}))

	got, err := m.Snapshot(ctx, "cached")
	require.NoError(t, err)
	assert.Equal(t, 9, got.Moves)

	_, err = m.Snapshot(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestRemove(t *testing.T) {
	m, store, pub := newTestManager(t)
	ctx := context.Background()
	snap, err := m.Create(ctx, 6, 7)
	require.NoError(t, err)

	require.NoError(t, m.Remove(ctx, snap.GameID))
	assert.Zero(t, m.Count())
	assert.Equal(t, 1, store.deletes)
	assert.Equal(t, []string{snap.GameID}, pub.closed)

	_, err = m.Snapshot(ctx, snap.GameID)
	require.ErrorIs(t, err, domain.ErrGameNotFound)

	require.ErrorIs(t, m.Remove(ctx, snap.GameID), domain.ErrGameNotFound)
}

func TestListOrdersByCreation(t *testing.T) {
	m, _, _ := newTestManager(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	m.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	var ids []string
	for i := 0; i < 3; i++ {
		snap, err := m.Create(context.Background(), 6, 7)
		require.NoError(t, err)
		ids = append(ids, snap.GameID)
	}

	list := m.List()
	require.Len(t, list, 3)
	for i, snap := range list {
		assert.Equal(t, ids[i], snap.GameID)
	}
}

func TestCleanupIdle(t *testing.T) {
	m, store, pub := newTestManager(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	old, err := m.Create(ctx, 6, 7)
	require.NoError(t, err)

	now = now.Add(30 * time.Minute)
	fresh, err := m.Create(ctx, 6, 7)
	require.NoError(t, err)

	now = now.Add(45 * time.Minute)
	removed := m.CleanupIdle(ctx, time.Hour)

	assert.Equal(t, 1, removed)
	_, ok := m.Get(old.GameID)
	assert.False(t, ok)
	_, ok = m.Get(fresh.GameID)
	assert.True(t, ok)
	assert.Equal(t, 1, store.deletes)
	assert.Equal(t, []string{old.GameID}, pub.closed)

	// A move counts as activity.
	now = now.Add(50 * time.Minute)
	_, err = m.Move(fresh.GameID, nil, 0)
	require.NoError(t, err)
	now = now.Add(20 * time.Minute)
	assert.Zero(t, m.CleanupIdle(ctx, time.Hour))
}

func TestConcurrentMovesAreSerialized(t *testing.T) {
	m, _, pub := newTestManager(t)
	snap, err := m.Create(context.Background(), 9, 9)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 9; i++ {
		wg.Add(1)
		go func(col int) {
			defer wg.Done()
			_, _ = m.Move(snap.GameID, nil, col)
		}(i)
	}
	wg.Wait()

	got, err := m.Snapshot(context.Background(), snap.GameID)
	require.NoError(t, err)
	assert.Equal(t, len(pub.published), got.Moves)
	assert.Positive(t, got.Moves)
}

func TestNilPublisher(t *testing.T) {
	m := NewManager(memory.NewSnapshotStore(), nil, zap.NewNop())
	snap, err := m.Create(context.Background(), 6, 7)
	require.NoError(t, err)
	_, err = m.Move(snap.GameID, nil, 0)
	require.NoError(t, err)
	require.NoError(t, m.Remove(context.Background(), snap.GameID))
}
