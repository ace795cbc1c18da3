package bufferize

import (
	"log/slog"

	"github.com/roach88/tlower/internal/ir"
)

// InsertTensorCopies runs the aliasing analysis and then resolves every
// buffer conflict in the subtree rooted at root: whole-module analysis if
// options.BufferizeFunctionBoundaries is set, single-scope analysis
// otherwise.
//
// With options.TestAnalysisOnly set, the call short-circuits after
// analysis: no attributes are attached and no copies are inserted.
//
// On failure the tree may be partially rewritten; do not re-run the pass
// over it.
func InsertTensorCopies(root *ir.Operation, opts Options) error {
	var (
		state *State
		err   error
	)
	if opts.BufferizeFunctionBoundaries {
		state, err = AnalyzeModule(root, opts)
	} else {
		state, err = AnalyzeOp(root, opts)
	}
	if err != nil {
		return err
	}

	if opts.TestAnalysisOnly {
		return nil
	}
	return InsertTensorCopiesWithState(root, state)
}

// InsertTensorCopiesWithState resolves buffer conflicts given a
// precomputed analysis state.
//
// Every operation in the subtree is visited exactly once, in program
// definition order. Operations whose kind does not implement the
// BufferizableOp capability are skipped, but the walk still descends into
// their nested regions. Per participating operation: the escape annotator
// runs first (resolution may read the attribute back), the rewriter's
// insertion point moves immediately before the operation, and the
// operation's own ResolveConflicts routine runs. The first failure aborts
// the walk; already-applied rewrites are not rolled back.
func InsertTensorCopiesWithState(root *ir.Operation, state *State) error {
	rw := NewRewriter()

	var failure error
	ir.Walk(root, func(op *ir.Operation) ir.WalkAction {
		impl, ok := Lookup(op)
		if !ok {
			return ir.WalkAdvance
		}

		annotateEscapes(op, impl, state)

		rw.SetInsertionPoint(op)
		if err := impl.ResolveConflicts(op, rw, state); err != nil {
			failure = &ResolveError{Op: op, Err: err}
			return ir.WalkInterrupt
		}
		return ir.WalkAdvance
	})
	if failure != nil {
		return failure
	}

	slog.Debug("tensor copies inserted",
		"root", root.Name,
		"copies", rw.Copies(),
	)
	return nil
}
