package ipc

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrPoolClosed is returned by Do after the pool has been closed.
var ErrPoolClosed = errors.New("network pool closed")

// DefaultTimeout bounds a single network operation submitted to the
// pool. A hung remote peer fails the call instead of stalling the
// script that made it.
const DefaultTimeout = 15 * time.Second

type job struct {
	run  func(ctx context.Context) (string, error)
	done chan jobResult
}

type jobResult struct {
	value string
	err   error
}

// Pool is the process-wide worker pool for blocking network
// capabilities. Script builtins and the gateway are synchronous call
// sites: they submit a job over a channel and block until a worker has
// driven it to completion under a per-call timeout. One pool serves
// the whole process; nothing spawns a private scheduler per call.
type Pool struct {
	jobs    chan job
	timeout time.Duration
	closed  chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// NewPool starts a pool with the given number of workers and per-call
// timeout. Non-positive arguments fall back to 4 workers and
// DefaultTimeout.
func NewPool(workers int, timeout time.Duration) *Pool {
	if workers <= 0 {
		workers = 4
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	p := &Pool{
		jobs:    make(chan job),
		timeout: timeout,
		closed:  make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.closed:
			return
		case j := <-p.jobs:
			ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
			value, err := j.run(ctx)
			cancel()
			j.done <- jobResult{value: value, err: err}
		}
	}
}

// Do runs fn on a pool worker and blocks until it completes or its
// context expires. fn must honor ctx for the timeout to take effect.
func (p *Pool) Do(fn func(ctx context.Context) (string, error)) (string, error) {
	j := job{run: fn, done: make(chan jobResult, 1)}
	select {
	case <-p.closed:
		return "", ErrPoolClosed
	case p.jobs <- j:
	}
	res := <-j.done
	return res.value, res.err
}

// Close stops the workers. In-flight jobs finish; later Do calls fail
// with ErrPoolClosed.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.closed)
	})
	p.wg.Wait()
}
