package readiness

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingChecker records every probe URL and replies from a scripted queue.
type countingChecker struct {
	mu      sync.Mutex
	urls    []string
	replies []func() (Dimensions, error)
}

func (c *countingChecker) Check(ctx context.Context, imageURL string) (Dimensions, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.urls = append(c.urls, imageURL)

	idx := len(c.urls) - 1
	if idx < len(c.replies) {
		return c.replies[idx]()
	}
	return c.replies[len(c.replies)-1]()
}

func (c *countingChecker) attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.urls)
}

func ready() func() (Dimensions, error) {
	return func() (Dimensions, error) { return Dimensions{Width: 1920, Height: 1920}, nil }
}

func small() func() (Dimensions, error) {
	return func() (Dimensions, error) { return Dimensions{Width: 400, Height: 400}, nil }
}

func failing() func() (Dimensions, error) {
	return func() (Dimensions, error) { return Dimensions{}, errors.New("connection refused") }
}

func TestPoller_Wait_ReadyFirstAttempt(t *testing.T) {
	checker := &countingChecker{replies: []func() (Dimensions, error){ready()}}
	poller := NewPoller(checker, 40, time.Millisecond, 1000)

	var states []string
	outcome, err := poller.Wait(context.Background(), "http://img.example.com/prompt/x", func(s string) {
		states = append(states, s)
	})

	require.NoError(t, err)
	assert.Equal(t, Ready, outcome)
	assert.Equal(t, 1, checker.attempts())
	assert.Equal(t, []string{"polling", "ready"}, states)
}

func TestPoller_Wait_ReadyAfterRetries(t *testing.T) {
	checker := &countingChecker{replies: []func() (Dimensions, error){
		failing(), failing(), ready(),
	}}
	poller := NewPoller(checker, 40, time.Millisecond, 1000)

	outcome, err := poller.Wait(context.Background(), "http://img.example.com/prompt/x", nil)

	require.NoError(t, err)
	assert.Equal(t, Ready, outcome)
	assert.Equal(t, 3, checker.attempts())
}

func TestPoller_Wait_FailedExhaustsAttempts(t *testing.T) {
	checker := &countingChecker{replies: []func() (Dimensions, error){failing()}}
	poller := NewPoller(checker, 40, time.Millisecond, 1000)

	outcome, err := poller.Wait(context.Background(), "http://img.example.com/prompt/x", nil)

	require.NoError(t, err)
	assert.Equal(t, Failed, outcome)
	assert.Equal(t, 40, checker.attempts())
}

func TestPoller_Wait_PartialWhenBelowThreshold(t *testing.T) {
	checker := &countingChecker{replies: []func() (Dimensions, error){small()}}
	poller := NewPoller(checker, 40, time.Millisecond, 1000)

	var states []string
	outcome, err := poller.Wait(context.Background(), "http://img.example.com/prompt/x", func(s string) {
		states = append(states, s)
	})

	require.NoError(t, err)
	assert.Equal(t, Partial, outcome)
	assert.Equal(t, 40, checker.attempts())
	assert.Equal(t, []string{"polling", "partial"}, states)
}

func TestPoller_Wait_PartialWhenAnyProbeLoaded(t *testing.T) {
	// one small load among failures still counts as partial
	checker := &countingChecker{replies: []func() (Dimensions, error){
		failing(), small(), failing(),
	}}
	poller := NewPoller(checker, 3, time.Millisecond, 1000)

	outcome, err := poller.Wait(context.Background(), "http://img.example.com/prompt/x", nil)

	require.NoError(t, err)
	assert.Equal(t, Partial, outcome)
}

func TestPoller_Wait_ContextCancellation(t *testing.T) {
	checker := &countingChecker{replies: []func() (Dimensions, error){failing()}}
	poller := NewPoller(checker, 40, time.Hour, 1000)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	outcome, err := poller.Wait(ctx, "http://img.example.com/prompt/x", nil)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Outcome(""), outcome)
}

func TestPoller_Wait_CacheBustUniquePerAttempt(t *testing.T) {
	checker := &countingChecker{replies: []func() (Dimensions, error){failing()}}
	poller := NewPoller(checker, 3, time.Millisecond, 1000)

	_, err := poller.Wait(context.Background(), "http://img.example.com/prompt/x?seed=1", nil)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, raw := range checker.urls {
		u, err := url.Parse(raw)
		require.NoError(t, err)

		cb := u.Query().Get("cb")
		require.NotEmpty(t, cb)
		assert.False(t, seen[cb], "cache-bust value reused: %s", cb)
		seen[cb] = true

		// original query survives
		assert.Equal(t, "1", u.Query().Get("seed"))
	}
}

func TestCheckerFunc(t *testing.T) {
	var called string
	fn := CheckerFunc(func(ctx context.Context, imageURL string) (Dimensions, error) {
		called = imageURL
		return Dimensions{Width: 1, Height: 1}, nil
	})

	dims, err := fn.Check(context.Background(), "http://x")
	require.NoError(t, err)
	assert.Equal(t, "http://x", called)
	assert.Equal(t, 1, dims.Width)
}
