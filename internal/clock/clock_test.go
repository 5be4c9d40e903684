package clock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealSleepHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Real().Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRealSleepZero(t *testing.T) {
	require.NoError(t, Real().Sleep(context.Background(), 0))
}

func TestRecorder(t *testing.T) {
	stop := errors.New("stop")
	r := &Recorder{OnSleep: func(n int, _ time.Duration) error {
		if n == 2 {
			return stop
		}
		return nil
	}}

	require.NoError(t, r.Sleep(context.Background(), time.Second))
	assert.ErrorIs(t, r.Sleep(context.Background(), 2*time.Second), stop)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, r.Sleeps())
}
