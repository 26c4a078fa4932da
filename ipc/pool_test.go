package ipc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_Do(t *testing.T) {
	p := NewPool(2, time.Second)
	defer p.Close()

	got, err := p.Do(func(ctx context.Context) (string, error) {
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", got)
}

func TestPool_PropagatesError(t *testing.T) {
	p := NewPool(1, time.Second)
	defer p.Close()

	want := errors.New("boom")
	_, err := p.Do(func(ctx context.Context) (string, error) {
		return "", want
	})
	assert.ErrorIs(t, err, want)
}

func TestPool_Timeout(t *testing.T) {
	p := NewPool(1, 20*time.Millisecond)
	defer p.Close()

	_, err := p.Do(func(ctx context.Context) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Second):
			return "too late", nil
		}
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPool_ConcurrentCallers(t *testing.T) {
	p := NewPool(4, time.Second)
	defer p.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.Do(func(ctx context.Context) (string, error) {
				return "ok", nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "ok", got)
		}()
	}
	wg.Wait()
}

func TestPool_ClosedRejectsWork(t *testing.T) {
	p := NewPool(1, time.Second)
	p.Close()

	_, err := p.Do(func(ctx context.Context) (string, error) {
		return "never", nil
	})
	assert.ErrorIs(t, err, ErrPoolClosed)
}
