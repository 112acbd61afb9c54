package main

import (
	"context"

	declpdf "github.com/alnah/go-declpdf"
)

// Generator is the part of declpdf.Generator the CLI uses.
type Generator interface {
	Generate(ctx context.Context, input declpdf.Input) ([]byte, error)
}

// Compile-time interface implementation check.
var _ Generator = (*declpdf.Generator)(nil)

// Pool abstracts the generator pool for testability.
type Pool interface {
	Acquire() (Generator, error)
	Release(Generator)
	Size() int
	Close() error
}

// generatorPool adapts declpdf.GeneratorPool to Pool.
type generatorPool struct {
	*declpdf.GeneratorPool
}

var _ Pool = generatorPool{}

func newGeneratorPool(size int, opts ...declpdf.Option) Pool {
	return generatorPool{declpdf.NewGeneratorPool(size, opts...)}
}

func (p generatorPool) Acquire() (Generator, error) {
	g, err := p.GeneratorPool.Acquire()
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (p generatorPool) Release(g Generator) {
	if gen, ok := g.(*declpdf.Generator); ok {
		p.GeneratorPool.Release(gen)
	}
}
