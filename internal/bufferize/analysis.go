package bufferize

import (
	"log/slog"

	"github.com/roach88/tlower/internal/ir"
)

// State is the read-only analysis oracle consumed by copy insertion.
// It records, per value, whether the value is observably used after its
// producing scope ends, and answers per-operand in-place queries.
//
// A State may safely be reused across sequential pass invocations over the
// same unmutated tree; it is not safe for concurrent use while the tree is
// being rewritten.
type State struct {
	opts Options

	order   map[*ir.Operation]int // pre-order position of every operation
	uses    map[*ir.Value][]valueUse
	yielded map[*ir.Value]bool
}

// valueUse is one operand reference to a value, in program order.
type valueUse struct {
	op    *ir.Operation
	index int
}

// Options returns the global options the analysis ran under.
func (s *State) Options() Options { return s.opts }

// IsTensorYielded reports whether the value's lifetime observably extends
// past its producing scope: it is passed to a terminator (returned or
// yielded out of its region).
func (s *State) IsTensorYielded(v *ir.Value) bool {
	return s.yielded[v]
}

// IsOutOfPlace reports whether writing through the given operand in place
// would corrupt a value still required elsewhere, so the operand must be
// copied first.
//
// An operand is out of place when its operation writes to it and either
// the value has a use after this operation, or the value crosses a
// function boundary that bufferization is not allowed to reason across.
func (s *State) IsOutOfPlace(op *ir.Operation, operand int) bool {
	if operand < 0 || operand >= len(op.Operands) {
		return false
	}
	impl, ok := Lookup(op)
	if !ok || !impl.BufferizesToMemoryWrite(op, operand) {
		return false
	}
	v := op.Operands[operand]
	if !v.Type.IsTensor() {
		return false
	}
	if v.DefiningOp() == nil && !s.opts.BufferizeFunctionBoundaries {
		// Function argument with no cross-boundary facts available.
		return true
	}
	pos, known := s.order[op]
	if !known {
		// Operation inserted after analysis (e.g. a copy); nothing
		// downstream reads its operand again.
		return false
	}
	for _, u := range s.uses[v] {
		if s.order[u.op] > pos {
			return true
		}
	}
	return false
}

// AnalyzeOp runs the single-scope aliasing analysis on one operation
// subtree and returns the resulting oracle.
func AnalyzeOp(root *ir.Operation, opts Options) (*State, error) {
	s := &State{
		opts:    opts,
		order:   make(map[*ir.Operation]int),
		uses:    make(map[*ir.Value][]valueUse),
		yielded: make(map[*ir.Value]bool),
	}

	var analysisErr error
	pos := 0
	ir.Walk(root, func(op *ir.Operation) ir.WalkAction {
		s.order[op] = pos
		pos++

		for i, v := range op.Operands {
			if r := v.DefiningRegion(); r != nil && !regionEncloses(r, op) {
				analysisErr = &AnalysisError{
					Op:      op,
					Message: "operand %" + v.Name + " does not dominate its use",
				}
				return ir.WalkInterrupt
			}
			s.uses[v] = append(s.uses[v], valueUse{op: op, index: i})
			if op.IsTerminator() && v.Type.IsTensor() {
				s.yielded[v] = true
			}
		}
		return ir.WalkAdvance
	})
	if analysisErr != nil {
		return nil, analysisErr
	}

	slog.Debug("analysis complete",
		"root", root.Name,
		"ops", pos,
		"yielded", len(s.yielded),
	)
	return s, nil
}

// AnalyzeModule runs the whole-module analysis: the single-scope analysis
// plus function-boundary rules. The root must be a module operation.
func AnalyzeModule(module *ir.Operation, opts Options) (*State, error) {
	if module.Name != ir.ModuleOpName {
		return nil, &AnalysisError{
			Op:      module,
			Message: "module analysis requires a module root",
		}
	}

	s, err := AnalyzeOp(module, opts)
	if err != nil {
		return nil, err
	}

	if !opts.AllowReturnAllocs {
		if err := checkReturnAllocs(module); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// checkReturnAllocs rejects functions that return a fresh allocation.
func checkReturnAllocs(module *ir.Operation) error {
	var violation error
	ir.Walk(module, func(op *ir.Operation) ir.WalkAction {
		if op.Name != ir.ReturnOpName {
			return ir.WalkAdvance
		}
		for _, v := range op.Operands {
			def := v.DefiningOp()
			if def == nil || !v.Type.IsTensor() {
				continue
			}
			impl, ok := Lookup(def)
			if ok && impl.BufferizesToAllocation(def, v.ResultIndex()) {
				violation = &AnalysisError{
					Op:      op,
					Message: "returning fresh allocation %" + v.Name + " requires allow-return-allocs",
				}
				return ir.WalkInterrupt
			}
		}
		return ir.WalkAdvance
	})
	return violation
}

// regionEncloses reports whether op is nested within r (or directly in it).
func regionEncloses(r *ir.Region, op *ir.Operation) bool {
	for cur := op.Parent(); cur != nil; {
		if cur == r {
			return true
		}
		owner := cur.ParentOp()
		if owner == nil {
			return false
		}
		cur = owner.Parent()
	}
	return false
}

// MarkYieldedForTesting forces a yieldedness verdict for a value.
// Not intended for production use.
func (s *State) MarkYieldedForTesting(v *ir.Value) {
	s.yielded[v] = true
}
