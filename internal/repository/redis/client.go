package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iamasit07/connect4/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "connect4:game:"

var RedisClient *redis.Client
var redisEnabled bool

// InitRedis initializes the Redis connection. An unreachable server is
// logged and leaves Redis disabled; it never fails startup.
func InitRedis(addr, password string, log *zap.Logger) error {
	log = log.With(zap.String("component", "redis"))

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := RedisClient.Ping(ctx).Err(); err != nil {
		log.Warn("could not connect to redis, falling back to in-memory snapshots",
			zap.String("addr", addr), zap.Error(err))
		redisEnabled = false
		return nil
	}

	redisEnabled = true
	log.Info("connected", zap.String("addr", addr))
	return nil
}

// IsRedisEnabled returns whether Redis is available
func IsRedisEnabled() bool {
	return redisEnabled
}

// CloseRedis closes the Redis connection
func CloseRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}

// SnapshotCache stores the latest snapshot of every live game as JSON,
// expiring entries that have not been written for ttl.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

func (r *SnapshotCache) Save(ctx context.Context, snap domain.Snapshot) error {
	value, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, snapshotKey(snap.GameID), value, r.ttl).Err()
}

func (r *SnapshotCache) Load(ctx context.Context, gameID string) (domain.Snapshot, error) {
	value, err := r.client.Get(ctx, snapshotKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Snapshot{}, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, gameID)
	}
	if err != nil {
		return domain.Snapshot{}, err
	}
	return decodeSnapshot(value)
}

func (r *SnapshotCache) Delete(ctx context.Context, gameID string) error {
	return r.client.Del(ctx, snapshotKey(gameID)).Err()
}

func snapshotKey(gameID string) string {
	return keyPrefix + gameID
}

func encodeSnapshot(snap domain.Snapshot) ([]byte, error) {
	value, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot %s: %w", snap.GameID, err)
	}
	return value, nil
}

func decodeSnapshot(value []byte) (domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := json.Unmarshal(value, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
