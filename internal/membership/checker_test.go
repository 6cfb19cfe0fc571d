package membership

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bpd/pkg/platform/circuit"
	"bpd/pkg/platform/sentinel"
)

type fakeDirectory struct {
	groups map[string][]string
	err    error
	calls  atomic.Int32
	gate   chan struct{}
}

func (d *fakeDirectory) GroupNames(ctx context.Context, subject string) ([]string, error) {
	d.calls.Add(1)
	if d.gate != nil {
		select {
		case <-d.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	names, ok := d.groups[subject]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return names, nil
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (bool, bool, error) {
	return false, false, errors.New("redis down")
}
func (brokenCache) Set(context.Context, string, bool, time.Duration) error {
	return errors.New("redis down")
}

func TestNewChecker(t *testing.T) {
	_, err := NewChecker(nil, "admins")
	assert.ErrorContains(t, err, "directory is required")
	_, err = NewChecker(&fakeDirectory{}, "")
	assert.ErrorContains(t, err, "admin group name is required")
}

func TestChecker_IsAdmin(t *testing.T) {
	dir := &fakeDirectory{groups: map[string][]string{
		"admin": {"Everyone", "BPD-Admins"},
		"user":  {"Everyone"},
	}}
	checker, err := NewChecker(dir, "BPD-Admins", WithCache(NewInMemoryCache(), time.Minute))
	require.NoError(t, err)
	ctx := context.Background()

	isAdmin, err := checker.IsAdmin(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = checker.IsAdmin(ctx, "user")
	require.NoError(t, err)
	assert.False(t, isAdmin)

	isAdmin, err = checker.IsAdmin(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, isAdmin)

	t.Run("cached decisions skip the directory", func(t *testing.T) {
		before := dir.calls.Load()
		isAdmin, err := checker.IsAdmin(ctx, "admin")
		require.NoError(t, err)
		assert.True(t, isAdmin)
		assert.Equal(t, before, dir.calls.Load())
	})

	t.Run("empty subject is never admin", func(t *testing.T) {
		isAdmin, err := checker.IsAdmin(ctx, "")
		require.NoError(t, err)
		assert.False(t, isAdmin)
	})
}

func TestChecker_DirectoryFailure(t *testing.T) {
	checker, err := NewChecker(&fakeDirectory{err: sentinel.ErrUnavailable}, "BPD-Admins")
	require.NoError(t, err)

	_, err = checker.IsAdmin(context.Background(), "admin")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestChecker_OpenCircuitSkipsDirectory(t *testing.T) {
	dir := &fakeDirectory{err: sentinel.ErrUnavailable}
	breaker := circuit.New("directory", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))
	checker, err := NewChecker(dir, "BPD-Admins", WithBreaker(breaker))
	require.NoError(t, err)
	ctx := context.Background()

	for range 2 {
		_, err = checker.IsAdmin(ctx, "admin")
		require.Error(t, err)
	}
	require.True(t, breaker.IsOpen())

	_, err = checker.IsAdmin(ctx, "admin")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.Equal(t, int32(2), dir.calls.Load(), "open circuit must not reach the directory")
}

func TestChecker_GroupNameIsCaseInsensitive(t *testing.T) {
	dir := &fakeDirectory{groups: map[string][]string{"admin": {"bpd-admins"}}}
	checker, err := NewChecker(dir, "BPD-Admins")
	require.NoError(t, err)

	isAdmin, err := checker.IsAdmin(context.Background(), "admin")
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestChecker_CacheFailureFallsBackToDirectory(t *testing.T) {
	dir := &fakeDirectory{groups: map[string][]string{"admin": {"BPD-Admins"}}}
	checker, err := NewChecker(dir, "BPD-Admins", WithCache(brokenCache{}, time.Minute))
	require.NoError(t, err)

	isAdmin, err := checker.IsAdmin(context.Background(), "admin")
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestChecker_CoalescesConcurrentLookups(t *testing.T) {
	dir := &fakeDirectory{
		groups: map[string][]string{"admin": {"BPD-Admins"}},
		gate:   make(chan struct{}),
	}
	checker, err := NewChecker(dir, "BPD-Admins")
	require.NoError(t, err)

	const callers = 10
	var wg sync.WaitGroup
	results := make(chan bool, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			isAdmin, err := checker.IsAdmin(context.Background(), "admin")
			assert.NoError(t, err)
			results <- isAdmin
		}()
	}

	require.Eventually(t, func() bool { return dir.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(dir.gate)
	wg.Wait()
	close(results)

	for isAdmin := range results {
		assert.True(t, isAdmin)
	}
	assert.Equal(t, int32(1), dir.calls.Load())
}

func TestChecker_CancelledCallerDoesNotFailSharedLookup(t *testing.T) {
	dir := &fakeDirectory{
		groups: map[string][]string{"admin": {"BPD-Admins"}},
		gate:   make(chan struct{}),
	}
	checker, err := NewChecker(dir, "BPD-Admins")
	require.NoError(t, err)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := checker.IsAdmin(firstCtx, "admin")
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return dir.calls.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		isAdmin bool
		err     error
	}
	second := make(chan result, 1)
	go func() {
		isAdmin, err := checker.IsAdmin(context.Background(), "admin")
		second <- result{isAdmin, err}
	}()

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	time.Sleep(50 * time.Millisecond)
	close(dir.gate)
	got := <-second
	require.NoError(t, got.err)
	assert.True(t, got.isAdmin)
	assert.Equal(t, int32(1), dir.calls.Load())
}

func TestChecker_LookupTimeoutBoundsDirectoryCall(t *testing.T) {
	dir := &fakeDirectory{gate: make(chan struct{})}
	defer close(dir.gate)
	checker, err := NewChecker(dir, "BPD-Admins", WithLookupTimeout(10*time.Millisecond))
	require.NoError(t, err)

	_, err = checker.IsAdmin(context.Background(), "admin")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInMemoryCache_Expiry(t *testing.T) {
	cache := NewInMemoryCache()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "s", true, time.Minute))
	isAdmin, found, err := cache.Get(ctx, "s")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, isAdmin)

	now = now.Add(time.Minute)
	_, found, err = cache.Get(ctx, "s")
	require.NoError(t, err)
	assert.False(t, found)
}
