package main

// Notes:
// - Shared fakes for CLI tests: a recording Generator and a Pool that hands
//   it out. No browser is started by any test in this package.

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	declpdf "github.com/alnah/go-declpdf"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

var errGenerate = errors.New("generate failed")

// fakeGenerator records inputs and returns a fixed PDF.
type fakeGenerator struct {
	mu     sync.Mutex
	inputs []declpdf.Input
	pdf    []byte
	err    error
}

func (g *fakeGenerator) Generate(_ context.Context, input declpdf.Input) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inputs = append(g.inputs, input)
	if g.err != nil {
		return nil, g.err
	}
	return g.pdf, nil
}

func (g *fakeGenerator) calls() []declpdf.Input {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]declpdf.Input(nil), g.inputs...)
}

// fakePool shares one generator across workers.
type fakePool struct {
	gen        *fakeGenerator
	size       int
	acquireErr error

	mu       sync.Mutex
	acquired int
	released int
	closed   bool
	opts     int
}

func (p *fakePool) Acquire() (Generator, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.acquired++
	return p.gen, nil
}

func (p *fakePool) Release(Generator) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released++
}

func (p *fakePool) Size() int { return p.size }

func (p *fakePool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// testEnv returns an environment with captured output, a fixed clock, a
// fake pool and the given variables.
func testEnv(t *testing.T, vars map[string]string) (*Environment, *fakePool, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	pool := &fakePool{gen: &fakeGenerator{pdf: []byte("%PDF-1.7 fake")}, size: 2}
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			var out []string
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		NewPool: func(size int, opts ...declpdf.Option) Pool {
			pool.mu.Lock()
			defer pool.mu.Unlock()
			pool.size = size
			pool.opts = len(opts)
			return pool
		},
	}
	return env, pool, &stdout, &stderr
}
