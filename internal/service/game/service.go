package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/pkg/uid"
	"go.uber.org/zap"
)

// storeTimeout bounds cache writes made from inside a state listener.
const storeTimeout = 2 * time.Second

// SnapshotStore caches the latest snapshot of each game.
type SnapshotStore interface {
	Save(ctx context.Context, snap domain.Snapshot) error
	Load(ctx context.Context, gameID string) (domain.Snapshot, error)
	Delete(ctx context.Context, gameID string) error
}

// Publisher fans snapshots out to whoever is watching a game.
type Publisher interface {
	Publish(snap domain.Snapshot)
	CloseGame(gameID string)
}

type nopPublisher struct{}

func (nopPublisher) Publish(domain.Snapshot) {}
func (nopPublisher) CloseGame(string) {}

// Session wraps one Game. The mutex serializes every call into the Game,
// including the listeners it runs.
type Session struct {
	ID           string
	Game         *domain.Game
	CreatedAt    time.Time
	LastActivity time.Time
	latest       domain.Snapshot
	mu           sync.Mutex
}

// Manager manages active game sessions
type Manager struct {
	sessions  map[string]*Session // gameID → Session
	mu        sync.RWMutex
	store     SnapshotStore
	publisher Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewManager(store SnapshotStore, publisher Publisher, log *zap.Logger) *Manager {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &Manager{
		sessions:  make(map[string]*Session),
		store:     store,
		publisher: publisher,
		log:       log.With(zap.String("component", "session")),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (m *Manager) Create(ctx context.Context, height, width int) (domain.Snapshot, error) {
	g, err := domain.NewGame(height, width)
	if err != nil {
		return domain.Snapshot{}, err
	}

	now := m.now()
	session := &Session{
		ID:           uid.GenerateGameID(),
		Game:         g,
		CreatedAt:    now,
		LastActivity: now,
	}
	session.latest = domain.NewSnapshot(session.ID, g, now)
	g.OnStateChanged(func(domain.GameState) {
		m.stateChanged(session)
	})

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	if err := m.store.Save(ctx, session.latest); err != nil {
		m.log.Warn("snapshot save failed", zap.String("game_id", session.ID), zap.Error(err))
	}

	m.log.Info("created game",
		zap.String("game_id", session.ID), zap.Int("height", height), zap.Int("width", width))
	return session.latest, nil
}

func (m *Manager) Get(gameID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[gameID]
	return session, exists
}

// Snapshot returns the live state of a game, falling back to the cache for
// games this process no longer holds.
func (m *Manager) Snapshot(ctx context.Context, gameID string) (domain.Snapshot, error) {
	if session, ok := m.Get(gameID); ok {
		session.mu.Lock()
		defer session.mu.Unlock()
		return session.latest, nil
	}

	snap, err := m.store.Load(ctx, gameID)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		return domain.Snapshot{}, fmt.Errorf("%w: %s", domain.ErrGameNotFound, gameID)
	}
	return snap, err
}

// Move drops a disc into column. A nil side plays for whoever is to move;
// otherwise the disc belongs to side and the Game checks the turn.
func (m *Manager) Move(gameID string, side *domain.Side, column int) (domain.Snapshot, error) {
	session, ok := m.Get(gameID)
	if !ok {
		return domain.Snapshot{}, fmt.Errorf("%w: %s", domain.ErrGameNotFound, gameID)
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	session.LastActivity = m.now()

	var err error
	if side == nil {
		_, err = session.Game.Play(column)
	} else {
		_, err = session.Game.SubmitMove(domain.NewDisc(*side), column)
	}
	if err != nil {
		m.log.Debug("move rejected",
			zap.String("game_id", gameID), zap.Int("column", column), zap.Error(err))
		return domain.Snapshot{}, err
	}
	return session.latest, nil
}

func (m *Manager) Reset(gameID string) (domain.Snapshot, error) {
	session, ok := m.Get(gameID)
	if !ok {
		return domain.Snapshot{}, fmt.Errorf("%w: %s", domain.ErrGameNotFound, gameID)
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	session.LastActivity = m.now()
	session.Game.Reset()
	m.log.Info("reset game", zap.String("game_id", gameID))
	return session.latest, nil
}

func (m *Manager) Remove(ctx context.Context, gameID string) error {
	m.mu.Lock()
	_, exists := m.sessions[gameID]
	delete(m.sessions, gameID)
	m.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrGameNotFound, gameID)
	}

	m.forget(ctx, gameID)
	m.log.Info("removed game", zap.String("game_id", gameID))
	return nil
}

// List returns every live game, oldest first.
func (m *Manager) List() []domain.Snapshot {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	snaps := make([]domain.Snapshot, 0, len(sessions))
	for _, session := range sessions {
		session.mu.Lock()
		snaps = append(snaps, session.latest)
		session.mu.Unlock()
	}
	return snaps
}

// CleanupIdle drops every game untouched for longer than ttl and returns
// how many were removed.
func (m *Manager) CleanupIdle(ctx context.Context, ttl time.Duration) int {
	now := m.now()
	var stale []string

	m.mu.Lock()
	for gameID, session := range m.sessions {
		session.mu.Lock()
		idle := now.Sub(session.LastActivity)
		session.mu.Unlock()

		if idle > ttl {
			delete(m.sessions, gameID)
			stale = append(stale, gameID)
		}
	}
	m.mu.Unlock()

	for _, gameID := range stale {
		m.forget(ctx, gameID)
	}

	if len(stale) > 0 {
		m.log.Info("evicted idle games", zap.Int("count", len(stale)), zap.Duration("ttl", ttl))
	}
	return len(stale)
}

// Count returns the number of live games.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) forget(ctx context.Context, gameID string) {
	if err := m.store.Delete(ctx, gameID); err != nil {
		m.log.Warn("snapshot delete failed", zap.String("game_id", gameID), zap.Error(err))
	}
	m.publisher.CloseGame(gameID)
}

// stateChanged runs inside the Game's notification, with session.mu held.
func (m *Manager) stateChanged(session *Session) {
	snap := domain.NewSnapshot(session.ID, session.Game, m.now())
	session.latest = snap

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := m.store.Save(ctx, snap); err != nil {
		m.log.Warn("snapshot save failed", zap.String("game_id", session.ID), zap.Error(err))
	}

	m.publisher.Publish(snap)

	if snap.State.IsTerminal() {
		m.log.Info("game finished",
			zap.String("game_id", session.ID), zap.String("result", snap.Label), zap.Int("moves", snap.Moves))
	}
}
