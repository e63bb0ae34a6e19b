package normalize

import (
	"context"
	"sync"
)

// Pool is a fixed-size worker pool for CPU-bound normalization work. It
// is a run-scoped resource: created once before the normalization stage
// and closed when the stage completes.
type Pool struct {
	jobs chan func()
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewPool starts size workers. Size must be at least one.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{jobs: make(chan func())}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for fn := range p.jobs {
				fn()
			}
		}()
	}
	return p
}

// Submit queues one unit of work, giving up when ctx expires before a
// worker becomes free. Submitting after Close panics, the same as
// sending on a closed channel would.
func (p *Pool) Submit(ctx context.Context, fn func()) error {
	if fn == nil {
		return nil
	}
	select {
	case p.jobs <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting work and waits for in-flight units to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()
	close(p.jobs)
	p.wg.Wait()
}
