package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eChanneling-Revamp/payment-service/internal/config"
)

func newTestRedisLocker(t *testing.T, ttl time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLocker(client, RedisOptions{
		KeyPrefix:     "test:lock:",
		TTL:           ttl,
		RetryInterval: 5 * time.Millisecond,
	}, zap.NewNop()), mr
}

func TestRedisLocker_AcquireRelease(t *testing.T) {
	l, mr := newTestRedisLocker(t, time.Minute)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "psp-1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:psp-1"))
	assert.Equal(t, time.Minute, mr.TTL("test:lock:psp-1"))

	unlock()
	assert.False(t, mr.Exists("test:lock:psp-1"))
}

func TestRedisLocker_Contention(t *testing.T) {
	l, _ := newTestRedisLocker(t, time.Minute)

	unlock, err := l.Lock(context.Background(), "psp-1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "psp-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	acquired := make(chan struct{})
	go func() {
		unlock2, err := l.Lock(context.Background(), "psp-1")
		if err == nil {
			unlock2()
		}
		close(acquired)
	}()

	time.Sleep(20 * time.Millisecond)
	unlock()

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter did not acquire the lock after release")
	}
}

func TestRedisLocker_ReleaseOnlyOwnToken(t *testing.T) {
	l, mr := newTestRedisLocker(t, time.Minute)

	unlock, err := l.Lock(context.Background(), "psp-1")
	require.NoError(t, err)

	// the lock expired and another holder took it over
	require.NoError(t, mr.Set("test:lock:psp-1", "someone-else"))

	unlock()
	got, err := mr.Get("test:lock:psp-1")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisLocker_ExpiredLockCanBeTaken(t *testing.T) {
	l, mr := newTestRedisLocker(t, time.Second)

	_, err := l.Lock(context.Background(), "psp-1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlock, err := l.Lock(ctx, "psp-1")
	require.NoError(t, err)
	unlock()
}

func TestRedisLocker_ConnectionError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := NewRedisLocker(client, RedisOptions{}, zap.NewNop())
	mr.Close()

	_, err := l.Lock(context.Background(), "psp-1")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	locker, closeFn, err := New(config.LockConfig{Driver: config.LockDriverMemory}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryLocker{}, locker)
	assert.NoError(t, closeFn())

	mr := miniredis.RunT(t)
	locker, closeFn, err = New(config.LockConfig{
		Driver: config.LockDriverRedis,
		TTL:    time.Second,
		Redis:  config.RedisConfig{Addr: mr.Addr()},
	}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &RedisLocker{}, locker)
	assert.NoError(t, closeFn())

	_, _, err = New(config.LockConfig{Driver: "etcd"}, zap.NewNop())
	assert.Error(t, err)
}
