package man2html

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("converter pool closed")

// ConverterPool hands out Converters to parallel workers. Each converter
// owns its browser, so PDF rendering runs truly in parallel. Converters are
// created lazily on first acquire, all with the same options.
type ConverterPool struct {
	size  int
	opts  []Option
	idle  chan *Converter
	mu    sync.Mutex
	all   []*Converter
	count int
	done  chan struct{}
	once  sync.Once
}

// NewConverterPool creates a pool of at most n converters built with opts.
func NewConverterPool(n int, opts ...Option) *ConverterPool {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	return &ConverterPool{
		size: n,
		opts: opts,
		idle: make(chan *Converter, n),
		done: make(chan struct{}),
	}
}

// Acquire returns an idle converter, creating one while the pool is below
// its size, and blocks otherwise until one is released, ctx is done or the
// pool is closed.
func (p *ConverterPool) Acquire(ctx context.Context) (*Converter, error) {
	select {
	case c := <-p.idle:
		return c, nil
	default:
	}

	p.mu.Lock()
	select {
	case <-p.done:
		p.mu.Unlock()
		return nil, ErrPoolClosed
	default:
	}
	if p.count < p.size {
		p.count++
		p.mu.Unlock()

		c, err := NewConverter(p.opts...)
		p.mu.Lock()
		defer p.mu.Unlock()
		if err != nil {
			p.count--
			return nil, err
		}
		select {
		case <-p.done:
			_ = c.Close()
			return nil, ErrPoolClosed
		default:
		}
		p.all = append(p.all, c)
		return c, nil
	}
	p.mu.Unlock()

	select {
	case c := <-p.idle:
		return c, nil
	case <-p.done:
		return nil, ErrPoolClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a converter to the pool. Releasing after Close is a
// no-op.
func (p *ConverterPool) Release(c *Converter) {
	select {
	case <-p.done:
		return
	default:
	}
	select {
	case p.idle <- c:
	default:
		// More releases than acquires; drop the extra.
	}
}

// Close closes every converter created by the pool and unblocks waiting
// Acquire calls.
func (p *ConverterPool) Close() error {
	var errs []error
	p.once.Do(func() {
		p.mu.Lock()
		close(p.done)
		all := p.all
		p.all = nil
		p.mu.Unlock()

		for _, c := range all {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// ResolvePoolSize returns workers when positive, otherwise half of
// GOMAXPROCS bounded by MinPoolSize and MaxPoolSize.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	return max(MinPoolSize, min(n, MaxPoolSize))
}
