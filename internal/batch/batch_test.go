package batch

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPreservesOrder(t *testing.T) {
	items := []int{5, 3, 1, 4, 2}

	results := Run(context.Background(), items, 2, func(_ context.Context, n int) (string, error) {
		// Finish in reverse order of arrival to prove ordering is by input
		// position, not completion time.
		time.Sleep(time.Duration(n) * time.Millisecond)
		return strconv.Itoa(n), nil
	})

	require.Len(t, results, len(items))
	for i, n := range items {
		require.NoError(t, results[i].Err)
		assert.Equal(t, strconv.Itoa(n), results[i].Value)
	}
}

func TestRunEmptyInput(t *testing.T) {
	results := Run(context.Background(), nil, 4, func(context.Context, int) (int, error) {
		t.Fatal("worker must not be called for empty input")
		return 0, nil
	})

	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRunFailureIsolation(t *testing.T) {
	boom := errors.New("boom")
	items := []int{1, 2, 3}

	results := Run(context.Background(), items, 3, func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, boom
		}
		return n * 10, nil
	})

	require.NoError(t, results[0].Err)
	assert.Equal(t, 10, results[0].Value)
	assert.ErrorIs(t, results[1].Err, boom)
	require.NoError(t, results[2].Err)
	assert.Equal(t, 30, results[2].Value)
}

func TestRunConcurrencyCeiling(t *testing.T) {
	const limit = 3

	var inFlight, peak atomic.Int32
	var mu sync.Mutex

	items := make([]int, 20)
	Run(context.Background(), items, limit, func(_ context.Context, _ int) (struct{}, error) {
		cur := inFlight.Add(1)
		mu.Lock()
		if cur > peak.Load() {
			peak.Store(cur)
		}
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return struct{}{}, nil
	})

	assert.LessOrEqual(t, peak.Load(), int32(limit))
	assert.Positive(t, peak.Load())
}

func TestRunContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var started atomic.Int32
	release := make(chan struct{})

	items := make([]int, 10)
	done := make(chan []Result[struct{}])
	go func() {
		done <- Run(ctx, items, 1, func(_ context.Context, _ int) (struct{}, error) {
			started.Add(1)
			<-release
			return struct{}{}, nil
		})
	}()

	// Cancel while the first window is still in flight; later windows must
	// never launch.
	require.Eventually(t, func() bool { return started.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	close(release)

	results := <-done
	require.NoError(t, results[0].Err)

	for i, r := range results[1:] {
		assert.ErrorIs(t, r.Err, context.Canceled, "slot %d", i+1)
	}
	assert.Equal(t, int32(1), started.Load())
}

func TestRunNonPositiveLimitUsesDefault(t *testing.T) {
	items := []int{1, 2, 3}

	results := Run(context.Background(), items, 0, func(_ context.Context, n int) (int, error) {
		return n, nil
	})

	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, items[i], r.Value)
	}
}
