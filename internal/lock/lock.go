package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrBusy is returned when a per-user lock cannot be acquired within the
// configured wait window. Callers should surface it as a conflict rather
// than retry internally.
var ErrBusy = errors.New("user is busy with another trip operation")

const (
	retryStep = 50 * time.Millisecond
	leaseTTL  = 10 * time.Second
)

// Locker serializes trip lifecycle operations per user. Acquire blocks for
// at most the configured wait; the returned release function must be called
// when the operation finishes.
type Locker interface {
	Acquire(ctx context.Context, userID string) (func(), error)
}

// RedisLocker implements Locker with a SETNX lease so mutual exclusion holds
// across multiple instances sharing one redis.
type RedisLocker struct {
	client *redis.Client
	wait   time.Duration
}

func NewRedis(client *redis.Client, wait time.Duration) *RedisLocker {
	return &RedisLocker{client: client, wait: wait}
}

func (l *RedisLocker) Acquire(ctx context.Context, userID string) (func(), error) {
	key := "trip_lock:" + userID
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, leaseTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrBusy
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryStep):
		}
	}
}

func (l *RedisLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// Only delete our own lease; an expired lock may belong to someone else.
	current, err := l.client.Get(ctx, key).Result()
	if err != nil || current != token {
		return
	}
	_ = l.client.Del(ctx, key).Err()
}

// LocalLocker is the single-instance fallback used when redis is not
// configured. Same bounded-wait contract as RedisLocker.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
	wait time.Duration
}

func NewLocal(wait time.Duration) *LocalLocker {
	return &LocalLocker{held: map[string]struct{}{}, wait: wait}
}

func (l *LocalLocker) Acquire(ctx context.Context, userID string) (func(), error) {
	deadline := time.Now().Add(l.wait)

	for {
		l.mu.Lock()
		if _, taken := l.held[userID]; !taken {
			l.held[userID] = struct{}{}
			l.mu.Unlock()
			return func() {
				l.mu.Lock()
				delete(l.held, userID)
				l.mu.Unlock()
			}, nil
		}
		l.mu.Unlock()

		if time.Now().After(deadline) {
			return nil, ErrBusy
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryStep):
		}
	}
}

// New picks the redis-backed locker when a client is available and falls
// back to the in-process one otherwise.
func New(client *redis.Client, wait time.Duration) Locker {
	if client != nil {
		return NewRedis(client, wait)
	}
	return NewLocal(wait)
}
