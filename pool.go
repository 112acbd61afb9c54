package declpdf

import (
	"errors"
	"runtime"
	"sync"
)

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("generator pool is closed")

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// GeneratorPool manages Generators for parallel processing. Each generator
// owns a browser; generators are created lazily on first acquire.
type GeneratorPool struct {
	size int
	opts []Option

	sem chan *Generator

	mu         sync.Mutex
	generators []*Generator
	created    int
	closed     bool
}

// NewGeneratorPool creates a pool with capacity for n generators built with opts.
func NewGeneratorPool(n int, opts ...Option) *GeneratorPool {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	return &GeneratorPool{
		size:       n,
		opts:       opts,
		sem:        make(chan *Generator, n),
		generators: make([]*Generator, 0, n),
	}
}

// Acquire gets a generator from the pool, creating one if capacity remains.
// Blocks while all generators are in use.
func (p *GeneratorPool) Acquire() (*Generator, error) {
	select {
	case g, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return g, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		g, err := NewGenerator(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			_ = g.Close()
			return nil, ErrPoolClosed
		}
		p.generators = append(p.generators, g)
		p.mu.Unlock()
		return g, nil
	}
	p.mu.Unlock()

	g, ok := <-p.sem
	if !ok {
		return nil, ErrPoolClosed
	}
	return g, nil
}

// Release returns a generator to the pool. Releasing after Close is a no-op.
func (p *GeneratorPool) Release(g *Generator) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || g == nil {
		return
	}
	// Capacity equals the number of created generators, so this never blocks.
	p.sem <- g
}

// Close releases every browser. Returns the joined close errors.
func (p *GeneratorPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	generators := p.generators
	p.mu.Unlock()

	var errs []error
	for _, g := range generators {
		if err := g.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *GeneratorPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// An explicit worker count wins; otherwise half of GOMAXPROCS, clamped to
// [MinPoolSize, MaxPoolSize].
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
