package pager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayLoader(t *testing.T) {
	t.Run("returns sequential batch", func(t *testing.T) {
		l := NewDelayLoader(0)

		batch, err := l.LoadBatch(context.Background(), 31, 30)
		require.NoError(t, err)
		assert.Equal(t, seq(31, 60), batch)
	})

	t.Run("waits for delay", func(t *testing.T) {
		l := NewDelayLoader(20 * time.Millisecond)

		start := time.Now()
		_, err := l.LoadBatch(context.Background(), 1, 3)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("honours cancellation", func(t *testing.T) {
		l := NewDelayLoader(time.Hour)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		batch, err := l.LoadBatch(ctx, 1, 3)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, batch)
	})

	t.Run("cancelled context without delay", func(t *testing.T) {
		l := NewDelayLoader(0)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := l.LoadBatch(ctx, 1, 3)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLoaderFunc(t *testing.T) {
	var gotStart, gotCount int
	f := LoaderFunc(func(_ context.Context, start, count int) ([]int, error) {
		gotStart, gotCount = start, count
		return sequence(start, count), nil
	})

	batch, err := f.LoadBatch(context.Background(), 4, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, batch)
	assert.Equal(t, 4, gotStart)
	assert.Equal(t, 2, gotCount)
}

func TestLoadCancelledByReset(t *testing.T) {
	c := New(30)
	l := NewDelayLoader(time.Hour)

	req, ok := c.RequestNextPage()
	require.True(t, ok)

	done := make(chan struct{})
	var applied bool
	var err error
	go func() {
		applied, err = c.Load(l, req)
		close(done)
	}()

	c.Reset()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("load was not cancelled by reset")
	}
	assert.False(t, applied)
	assert.NoError(t, err)
	assert.Equal(t, seq(1, 30), c.Items())
}
