package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/iamasit07/connect4/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStore(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore()

	_, err := store.Load(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	require.NoError(t, store.Save(ctx, domain.Snapshot{GameID: "a", Moves: 1}))
	require.NoError(t, store.Save(ctx, domain.Snapshot{GameID: "a", Moves: 2}))

	got, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Moves)
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(ctx, "a"))
	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Load(ctx, "a")
	require.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestSnapshotStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			_ = store.Save(ctx, domain.Snapshot{GameID: id})
			_, _ = store.Load(ctx, id)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, store.Len())
}
