package redisdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/sprachhaus/sprachhaus-backend/internal/platform/logger"
)

var ErrLockHeld = fmt.Errorf("run lock already held")

// RunLock serializes ingestion runs with a SET NX lease. The existence check
// and the staged write inside a run are not transactional, so overlapping
// runs could double-write in that window; holding the lease for the duration
// of a run closes it for the common case.
type RunLock struct {
	rdb *goredis.Client
	log *logger.Logger
	key string
	ttl time.Duration
}

func NewRunLock(rdb *goredis.Client, log *logger.Logger, key string, ttl time.Duration) *RunLock {
	if key == "" {
		key = "ingest:runlock"
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RunLock{rdb: rdb, log: log.With("service", "RunLock"), key: key, ttl: ttl}
}

// Acquire takes the lease and returns a release func. ErrLockHeld means a
// run is already in flight; the caller should back off, not queue.
func (l *RunLock) Acquire(ctx context.Context) (func(), error) {
	if l == nil || l.rdb == nil {
		// No redis configured: degrade to unguarded single-process runs.
		return func() {}, nil
	}
	holder := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.key, holder, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrLockHeld
	}
	release := func() {
		// Release only our own lease; an expired lease may have been re-taken.
		const script = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`
		if err := l.rdb.Eval(context.Background(), script, []string{l.key}, holder).Err(); err != nil {
			l.log.Warn("Failed to release run lock", "error", err)
		}
	}
	return release, nil
}
