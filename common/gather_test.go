package common

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"emperror.dev/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGather(t *testing.T) {
	errOdd := errors.New("odd")

	out := Gather(context.Background(), []int{1, 2, 3, 4}, func(_ context.Context, i int) (int, error) {
		if i%2 == 1 {
			return 0, errOdd
		}
		return i * 10, nil
	})

	require.Len(t, out, 4)
	for i, o := range out {
		assert.Equal(t, i+1, o.Item, "outcomes are in input order")
	}
	assert.ErrorIs(t, out[0].Err, errOdd)
	assert.Equal(t, 20, out[1].Value)
	assert.Equal(t, 40, out[3].Value)

	assert.Len(t, Failed(out), 2)
	assert.Len(t, errors.GetErrors(CombineErrors(out)), 2)
}

func TestGatherRecoversPanics(t *testing.T) {
	out := Gather(context.Background(), []string{"ok", "panic"}, func(_ context.Context, s string) (string, error) {
		if s == "panic" {
			panic("boom")
		}
		return s, nil
	})

	assert.NoError(t, out[0].Err)
	assert.Equal(t, "ok", out[0].Value)
	require.Error(t, out[1].Err)
	assert.Contains(t, out[1].Err.Error(), "boom")
}

func TestGatherWaitsForAll(t *testing.T) {
	var done int32
	Gather(context.Background(), []time.Duration{0, 10 * time.Millisecond, 30 * time.Millisecond}, func(_ context.Context, d time.Duration) (struct{}, error) {
		time.Sleep(d)
		atomic.AddInt32(&done, 1)
		return struct{}{}, errors.New("fail")
	})

	assert.Equal(t, int32(3), atomic.LoadInt32(&done))
}

func TestGatherLimit(t *testing.T) {
	var running, peak int32

	items := make([]int, 20)
	out := GatherLimit(context.Background(), 3, items, func(_ context.Context, _ int) (struct{}, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return struct{}{}, nil
	})

	assert.Len(t, out, 20)
	assert.Empty(t, Failed(out))
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestGatherLimitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := GatherLimit(ctx, 1, []int{1, 2, 3}, func(ctx context.Context, i int) (int, error) {
		return i, ctx.Err()
	})

	require.Len(t, out, 3)
	for _, o := range out {
		assert.ErrorIs(t, o.Err, context.Canceled)
	}
}

func TestGatherEmpty(t *testing.T) {
	out := Gather(context.Background(), nil, func(context.Context, int) (int, error) {
		t.Fatal("fn should not be called")
		return 0, nil
	})
	assert.Empty(t, out)
	assert.NoError(t, CombineErrors(out))
}
