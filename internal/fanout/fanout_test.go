package fanout

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_PreservesInputOrder(t *testing.T) {
	items := []int{5, 1, 4, 2, 3}
	got, err := Map(context.Background(), items, 2, func(_ context.Context, n int) (int, error) {
		time.Sleep(time.Duration(n) * time.Millisecond)
		return n * 10, nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, []int{50, 10, 40, 20, 30}, got)
}

func TestMap_FailureIsIsolated(t *testing.T) {
	boom := errors.New("boom")
	items := []string{"a", "b", "c"}

	got, err := Map(context.Background(), items, 0, func(_ context.Context, s string) (string, error) {
		if s == "b" {
			return "", boom
		}
		return s + "!", nil
	}, func(s string, _ error) string {
		return s + "?"
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a!", "b?", "c!"}, got)
}

func TestMap_NilFallbackUsesZeroValue(t *testing.T) {
	got, err := Map(context.Background(), []int{1, 2}, 1, func(_ context.Context, n int) (*int, error) {
		if n == 2 {
			return nil, errors.New("nope")
		}
		return &n, nil
	}, nil)

	require.Error(t, err)
	require.NotNil(t, got[0])
	assert.Nil(t, got[1])
}

func TestMap_RespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	items := make([]int, 20)

	_, err := Map(context.Background(), items, 3, func(_ context.Context, _ int) (int, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return 0, nil
	}, nil)

	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestMap_EmptyInput(t *testing.T) {
	got, err := Map(context.Background(), []int(nil), 4, func(context.Context, int) (int, error) {
		t.Fatal("fn must not be called")
		return 0, nil
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
