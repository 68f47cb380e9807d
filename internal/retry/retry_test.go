package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy(slept *[]time.Duration) Policy {
	p := DefaultPolicy()
	p.Sleep = func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
	return p
}

func TestDoRetriesTransientErrors(t *testing.T) {
	var slept []time.Duration
	p := testPolicy(&slept)

	calls := 0
	err := p.Do(context.Background(), "scoreboard", func(context.Context) error {
		calls++
		if calls < 3 {
			return fmt.Errorf("dial: %w", syscall.ECONNREFUSED)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, slept)
}

func TestDoStopsAfterMaxAttempts(t *testing.T) {
	var slept []time.Duration
	p := testPolicy(&slept)
	transient := fmt.Errorf("read: %w", context.DeadlineExceeded)

	calls := 0
	err := p.Do(context.Background(), "roster", func(context.Context) error {
		calls++
		return transient
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, p.MaxAttempts, calls)
	assert.Len(t, slept, p.MaxAttempts-1)
}

func TestDoDoesNotRetryPermanentErrors(t *testing.T) {
	var slept []time.Duration
	p := testPolicy(&slept)
	permanent := errors.New("unexpected status code: 400")

	calls := 0
	err := p.Do(context.Background(), "gamelog", func(context.Context) error {
		calls++
		return permanent
	})

	assert.Equal(t, permanent, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, slept)
}

func TestBackoffIsCapped(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 2*time.Second, p.Backoff(1))
	assert.Equal(t, 8*time.Second, p.Backoff(3))
	assert.Equal(t, 30*time.Second, p.Backoff(10))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}))
	assert.True(t, IsTransient(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
	assert.False(t, IsTransient(context.Canceled))
	assert.False(t, IsTransient(errors.New("boom")))
	assert.False(t, IsTransient(nil))
}

func TestDoReportsCancellationDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := DefaultPolicy()
	p.Sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	calls := 0
	err := p.Do(ctx, "scoreboard", func(context.Context) error {
		calls++
		return fmt.Errorf("dial: %w", syscall.ECONNREFUSED)
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, syscall.ECONNREFUSED)
}

func TestDoReportsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var slept []time.Duration
	p := testPolicy(&slept)

	err := p.Do(ctx, "roster", func(context.Context) error {
		cancel()
		return fmt.Errorf("read: %w", io.ErrUnexpectedEOF)
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, slept)
}

func TestSleep(t *testing.T) {
	require.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}
