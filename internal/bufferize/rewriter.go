package bufferize

import (
	"fmt"

	"github.com/roach88/tlower/internal/ir"
)

// Rewriter is the scoped mutation handle handed to per-operation conflict
// resolution. It tracks the current insertion point so newly created copy
// operations land immediately before the operation being fixed, in call
// order: the first inserted copy ends up closest to the original
// predecessor, the last immediately before the insertion point.
//
// A Rewriter is bound to one driver invocation and assumes exclusive
// mutation access to the subtree being walked. Insertions are applied
// immediately; there is no deferred commit.
type Rewriter struct {
	ip      *ir.Operation
	ncopies int
}

// NewRewriter creates a rewriter with no insertion point set.
func NewRewriter() *Rewriter {
	return &Rewriter{}
}

// SetInsertionPoint positions all subsequent insertions immediately before
// op.
func (rw *Rewriter) SetInsertionPoint(op *ir.Operation) {
	rw.ip = op
}

// InsertionPoint returns the current insertion point, or nil.
func (rw *Rewriter) InsertionPoint() *ir.Operation { return rw.ip }

// Copies returns the number of copy operations inserted so far.
func (rw *Rewriter) Copies() int { return rw.ncopies }

// InsertCopy materializes a copy of src at the current insertion point and
// returns the copy's result, to be substituted for uses of src within the
// operation being fixed. The copy is an allocating operation whose operand
// is src.
func (rw *Rewriter) InsertCopy(src *ir.Value) (*ir.Value, error) {
	if rw.ip == nil {
		return nil, fmt.Errorf("no insertion point set")
	}
	parent := rw.ip.Parent()
	if parent == nil {
		return nil, fmt.Errorf("insertion point %s is detached", rw.ip.Name)
	}
	if !src.Type.IsTensor() {
		return nil, fmt.Errorf("cannot copy non-tensor value %%%s", src.Name)
	}

	cp := ir.NewOp(AllocOpName)
	cp.AddOperand(src)
	res := cp.AddResult(fmt.Sprintf("%s_copy%d", src.Name, rw.ncopies), src.Type)
	if err := parent.InsertBefore(rw.ip, cp); err != nil {
		return nil, err
	}
	rw.ncopies++
	return res, nil
}
