// Package lock provides Redis-backed mutual exclusion for per-user
// membership operations.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	sharedErrors "nexus/internal/shared/errors"
	"nexus/internal/shared/logger"
)

const (
	lockKeyPrefix = "membership:lock:"
	lockTTL       = 30 * time.Second
	retryInterval = 100 * time.Millisecond
	acquireWait   = 5 * time.Second
)

// releaseScript deletes the lock only when the caller still owns it.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisUserLocker serializes membership operations per user with a
// SetNX lock. The TTL bounds how long a crashed holder can block others.
type RedisUserLocker struct {
	client *redis.Client
	logger logger.Interface
}

// NewRedisUserLocker creates a Redis-backed user locker.
func NewRedisUserLocker(client *redis.Client, log logger.Interface) *RedisUserLocker {
	return &RedisUserLocker{
		client: client,
		logger: log.Named("userlock"),
	}
}

// Acquire takes the per-user lock, retrying until the wait deadline,
// and returns a release function bound to this acquisition.
func (l *RedisUserLocker) Acquire(ctx context.Context, userID string) (func(), error) {
	key := lockKeyPrefix + userID
	token := uuid.NewString()

	deadline := time.Now().Add(acquireWait)
	for {
		acquired, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire user lock: %w", err)
		}
		if acquired {
			break
		}
		if time.Now().After(deadline) {
			return nil, sharedErrors.NewConflictError("another operation for this user is in progress")
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}

	release := func() {
		// Releasing with a detached context so a cancelled request
		// still frees the lock.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warnw("failed to release user lock", "user_id", userID, "error", err)
		}
	}
	return release, nil
}
