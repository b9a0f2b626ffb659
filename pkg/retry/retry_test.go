package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRefused = errors.New("connection refused")

func fast() []Option {
	return []Option{WithInitialDelay(time.Millisecond), WithMaxDelay(time.Millisecond), WithJitter(0)}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	var retried []int
	opts := append(fast(), WithMaxAttempts(4), WithOnRetry(func(attempt int, err error, _ time.Duration) {
		retried = append(retried, attempt)
		assert.ErrorIs(t, err, errRefused)
	}))

	err := Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errRefused
		}
		return nil
	}, opts...)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_GivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		return errRefused
	}, append(fast(), WithMaxAttempts(2))...)

	assert.ErrorIs(t, err, errRefused)
	assert.Equal(t, 2, calls)
}

func TestDo_PermanentStops(t *testing.T) {
	bad := errors.New("invalid connection string")
	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(bad)
	}, fast()...)

	assert.Equal(t, bad, err)
	assert.Equal(t, 1, calls)
}

func TestDoWithData(t *testing.T) {
	calls := 0
	got, err := DoWithData(context.Background(), func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errRefused
		}
		return "connected", nil
	}, fast()...)

	require.NoError(t, err)
	assert.Equal(t, "connected", got)
}

func TestDo_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDelay_Capped(t *testing.T) {
	c := newConfig([]Option{WithInitialDelay(100 * time.Millisecond), WithMaxDelay(300 * time.Millisecond), WithJitter(0)})
	assert.Equal(t, 100*time.Millisecond, c.delay(1))
	assert.Equal(t, 200*time.Millisecond, c.delay(2))
	assert.Equal(t, 300*time.Millisecond, c.delay(3))
}
