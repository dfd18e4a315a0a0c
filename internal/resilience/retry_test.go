package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestDo_SuccessOnFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), DefaultRetryConfig(), func(_ context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_SuccessAfterLockedDatabase(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), func(_ context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("database is locked (5) (SQLITE_BUSY)")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), func(_ context.Context) error {
		calls++
		return NewTransientError(errors.New("always fails"))
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, "always fails", err.Error())
}

func TestDo_NonTransientError_NoRetry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(5), func(_ context.Context) error {
		calls++
		return errors.New("UNIQUE constraint failed")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled_StopsRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, fastConfig(10), func(_ context.Context) error {
		calls++
		cancel()
		return NewTransientError(errors.New("temporary"))
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_CustomShouldRetry(t *testing.T) {
	cfg := fastConfig(3)
	cfg.ShouldRetry = func(error) bool { return true }

	calls := 0
	err := Do(context.Background(), cfg, func(_ context.Context) error {
		calls++
		return errors.New("anything")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_OnRetryCallback(t *testing.T) {
	cfg := fastConfig(3)
	var attempts []int
	cfg.OnRetry = func(attempt int, _ error) { attempts = append(attempts, attempt) }

	_ = Do(context.Background(), cfg, func(_ context.Context) error {
		return NewTransientError(errors.New("x"))
	})
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestDoVal_ReturnsValueOnSuccess(t *testing.T) {
	calls := 0
	v, err := DoVal(context.Background(), fastConfig(3), func(_ context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", NewTransientError(errors.New("first"))
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestDoVal_ReturnsZeroOnFailure(t *testing.T) {
	v, err := DoVal(context.Background(), fastConfig(2), func(_ context.Context) (int, error) {
		return 42, errors.New("permanent")
	})
	require.Error(t, err)
	assert.Equal(t, 0, v)
}

func TestApplyDefaults(t *testing.T) {
	cfg := applyDefaults(RetryConfig{JitterFraction: -1})
	assert.Equal(t, 4, cfg.MaxAttempts)
	assert.Equal(t, 50*time.Millisecond, cfg.InitialBackoff)
	assert.Equal(t, 2*time.Second, cfg.MaxBackoff)
	assert.Equal(t, 2.0, cfg.Multiplier)
	assert.Zero(t, cfg.JitterFraction)
}

func TestComputeBackoff_ExponentialGrowth(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: 10 * time.Millisecond, MaxBackoff: time.Second, Multiplier: 2.0}
	assert.Equal(t, 10*time.Millisecond, computeBackoff(0, cfg))
	assert.Equal(t, 20*time.Millisecond, computeBackoff(1, cfg))
	assert.Equal(t, 40*time.Millisecond, computeBackoff(2, cfg))
}

func TestComputeBackoff_CapsAtMax(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: time.Second, MaxBackoff: 2 * time.Second, Multiplier: 10}
	assert.Equal(t, 2*time.Second, computeBackoff(5, cfg))
}

func TestComputeBackoff_WithJitter(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: 100 * time.Millisecond, MaxBackoff: time.Second, Multiplier: 2, JitterFraction: 0.5}
	for range 50 {
		d := computeBackoff(0, cfg)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}

func TestRetryLogger(t *testing.T) {
	fn := RetryLogger("save snapshot")
	assert.NotPanics(t, func() { fn(1, errors.New("locked")) })
}
