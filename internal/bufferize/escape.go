package bufferize

import (
	"github.com/roach88/tlower/internal/ir"
)

// annotateEscapes attaches the per-result escape vector to op if it lacks
// one. An existing attribute is never overwritten: a user or earlier stage
// may have supplied it manually.
//
// Per result, in result order: false unless the result is a tensor that
// bufferizes to a fresh allocation; otherwise the result escapes when
// deallocation is globally disabled or the analysis says its lifetime
// extends past the producing scope.
//
// If no result qualified, no attribute is attached - absence means "not
// applicable", not "does not escape".
func annotateEscapes(op *ir.Operation, impl BufferizableOp, state *State) {
	if op.HasAttr(EscapeAttrName) {
		return
	}

	escape := make(ir.BoolArrayAttr, 0, len(op.Results))
	found := false
	for i, res := range op.Results {
		if !res.Type.IsTensor() || !impl.BufferizesToAllocation(op, i) {
			escape = append(escape, false)
			continue
		}
		found = true
		escape = append(escape, !state.Options().CreateDeallocs || state.IsTensorYielded(res))
	}
	if found {
		op.SetAttr(EscapeAttrName, escape)
	}
}
