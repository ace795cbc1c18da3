package ops

import (
	"fmt"

	"github.com/roach88/tlower/internal/bufferize"
	"github.com/roach88/tlower/internal/ir"
)

// Operation names handled by this package. AllocOpName is owned by the
// bufferize package because the rewriter materializes copies as allocs.
const (
	InsertOpName = "tensor.insert"
	MapOpName    = "tensor.map"
)

func init() {
	bufferize.Register(bufferize.AllocOpName, allocOp{})
	bufferize.Register(InsertOpName, insertOp{})
	bufferize.Register(MapOpName, mapOp{})
}

// allocOp is tensor.alloc: produces a fresh allocation. With an operand,
// the allocation is initialized as a copy of that value; the operand is
// only read.
type allocOp struct{}

func (allocOp) BufferizesToAllocation(op *ir.Operation, result int) bool {
	return result == 0 && len(op.Results) > 0 && op.Results[0].Type.IsTensor()
}

func (allocOp) BufferizesToMemoryWrite(op *ir.Operation, operand int) bool {
	return false
}

func (allocOp) ResolveConflicts(op *ir.Operation, rw *bufferize.Rewriter, state *bufferize.State) error {
	// A fresh allocation never conflicts with anything.
	return nil
}

// insertOp is tensor.insert(dest, value): writes value into dest's buffer
// in place. The tensor result aliases dest.
type insertOp struct{}

func (insertOp) BufferizesToAllocation(op *ir.Operation, result int) bool {
	return false
}

func (insertOp) BufferizesToMemoryWrite(op *ir.Operation, operand int) bool {
	return operand == 0
}

func (insertOp) ResolveConflicts(op *ir.Operation, rw *bufferize.Rewriter, state *bufferize.State) error {
	return resolveDestinations(op, rw, state, 0)
}

// mapOp is tensor.map(input, dest): element-wise compute reading input and
// writing dest in place. The tensor result aliases dest.
type mapOp struct{}

func (mapOp) BufferizesToAllocation(op *ir.Operation, result int) bool {
	return false
}

func (mapOp) BufferizesToMemoryWrite(op *ir.Operation, operand int) bool {
	return operand == 1
}

func (mapOp) ResolveConflicts(op *ir.Operation, rw *bufferize.Rewriter, state *bufferize.State) error {
	return resolveDestinations(op, rw, state, 1)
}

// resolveDestinations copies every out-of-place destination operand and
// redirects the operation at the copy's result.
func resolveDestinations(op *ir.Operation, rw *bufferize.Rewriter, state *bufferize.State, written ...int) error {
	for _, i := range written {
		if i >= len(op.Operands) {
			return fmt.Errorf("destination operand %d out of range (have %d operands)", i, len(op.Operands))
		}
		if !state.IsOutOfPlace(op, i) {
			continue
		}
		cp, err := rw.InsertCopy(op.Operands[i])
		if err != nil {
			return err
		}
		op.Operands[i] = cp
	}
	return nil
}
