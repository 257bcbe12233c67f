package query

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueries_RunsConcurrentlyInOrder(t *testing.T) {
	c := NewClient(WithParallelism(2))
	var running, peak atomic.Int32

	slow := func(v any) Fetcher {
		return func(context.Context) (any, error) {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(30 * time.Millisecond)
			running.Add(-1)
			return v, nil
		}
	}

	results := c.Queries(context.Background(), []Query{
		{Key: Key{"todos"}, Fn: slow("first")},
		{Key: Key{"todoById", "1"}, Fn: slow("second")},
	})

	require.Len(t, results, 2)
	assert.Equal(t, "first", results[0].Data)
	assert.Equal(t, "second", results[1].Data)
	assert.Equal(t, int32(2), peak.Load(), "both queries were in flight together")
}

func TestQueries_FailureDoesNotCancelSiblings(t *testing.T) {
	c := NewClient()
	boom := errors.New("boom")

	results := c.Queries(context.Background(), []Query{
		{Key: Key{"todos"}, Fn: func(context.Context) (any, error) { return nil, boom }},
		{Key: Key{"todoById", "1"}, Fn: func(ctx context.Context) (any, error) {
			time.Sleep(20 * time.Millisecond)
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return "ok", nil
		}},
	})

	assert.ErrorIs(t, results[0].Err, boom)
	assert.True(t, results[1].IsSuccess())
}

func TestQueries_RespectsModes(t *testing.T) {
	c := NewClient()
	var calls atomic.Int32
	fn := countingFetcher(&calls, 1, nil)

	results := c.Queries(context.Background(), []Query{
		{Key: Key{"a"}, Fn: fn, Mode: Gated{Enabled: false}},
		{Key: Key{"b"}, Fn: fn, Mode: Suspend{}},
	})

	assert.True(t, results[0].IsPending())
	assert.True(t, results[1].IsSuccess())
	assert.Equal(t, int32(1), calls.Load())
}

func TestQueries_Empty(t *testing.T) {
	assert.Empty(t, NewClient().Queries(context.Background(), nil))
}

func TestRefetchQueries_IgnoresFreshness(t *testing.T) {
	c := NewClient(WithStaleTime(time.Hour))
	var calls atomic.Int32
	qs := []Query{
		{Key: Key{"todos"}, Fn: countingFetcher(&calls, "a", nil)},
		{Key: Key{"todoById", "1"}, Fn: countingFetcher(&calls, "b", nil)},
	}

	c.Queries(context.Background(), qs)
	c.Queries(context.Background(), qs)
	require.Equal(t, int32(2), calls.Load())

	results := c.RefetchQueries(context.Background(), qs)
	assert.Equal(t, int32(4), calls.Load())
	assert.Equal(t, "a", results[0].Data)
	assert.Equal(t, "b", results[1].Data)
}
