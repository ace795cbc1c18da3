package bufferize

import (
	"github.com/roach88/tlower/internal/ir"
)

// Pass is a stateless, re-invocable unit of work wrapping the copy
// insertion entry points. The same Pass may be run over any number of
// independent trees; it carries configuration only.
type Pass struct {
	opts Options
}

// PassOption configures a Pass built from the default options.
type PassOption func(*Pass)

// WithAllowReturnAllocs sets whether functions may return fresh
// allocations.
func WithAllowReturnAllocs(allow bool) PassOption {
	return func(p *Pass) {
		p.opts.AllowReturnAllocs = allow
	}
}

// WithBufferizeFunctionBoundaries sets whether analysis resolves aliasing
// across function boundaries.
func WithBufferizeFunctionBoundaries(enabled bool) PassOption {
	return func(p *Pass) {
		p.opts.BufferizeFunctionBoundaries = enabled
	}
}

// WithCreateDeallocs sets whether the later lowering stage performs
// automatic deallocation.
func WithCreateDeallocs(enabled bool) PassOption {
	return func(p *Pass) {
		p.opts.CreateDeallocs = enabled
	}
}

// NewPass creates a pass from the default options plus the given flag
// overrides.
func NewPass(opts ...PassOption) *Pass {
	p := &Pass{opts: DefaultOptions()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewPassWithOptions creates a pass from an explicit options record.
func NewPassWithOptions(opts Options) *Pass {
	return &Pass{opts: opts}
}

// Options returns the pass configuration.
func (p *Pass) Options() Options { return p.opts }

// Run analyzes root and resolves its buffer conflicts.
func (p *Pass) Run(root *ir.Operation) error {
	return InsertTensorCopies(root, p.opts)
}

// RunWithState resolves buffer conflicts given a precomputed analysis.
func (p *Pass) RunWithState(root *ir.Operation, state *State) error {
	return InsertTensorCopiesWithState(root, state)
}
