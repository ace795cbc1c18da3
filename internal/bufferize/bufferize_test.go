package bufferize

import (
	"github.com/roach88/tlower/internal/ir"
)

// Test operation kinds. The registry is process-global, so the fakes are
// registered once here and shared by the whole package's tests. Behavior
// is steered through the visit log and the fail switch below.

var (
	visitLog []string
	failOnOp string
	copyOn   map[string]int // op name -> destination operand to copy
)

func resetTestOps() {
	visitLog = nil
	failOnOp = ""
	copyOn = nil
}

type testOp struct {
	alloc bool // every tensor result bufferizes to a fresh allocation
	write int  // operand written in place, -1 for none
}

func (o testOp) BufferizesToAllocation(op *ir.Operation, result int) bool {
	return o.alloc && result < len(op.Results) && op.Results[result].Type.IsTensor()
}

func (o testOp) BufferizesToMemoryWrite(op *ir.Operation, operand int) bool {
	return o.write >= 0 && operand == o.write
}

func (o testOp) ResolveConflicts(op *ir.Operation, rw *Rewriter, state *State) error {
	visitLog = append(visitLog, op.Name)
	if op.Name == failOnOp {
		return errAlwaysFails
	}
	if idx, ok := copyOn[op.Name]; ok && state.IsOutOfPlace(op, idx) {
		cp, err := rw.InsertCopy(op.Operands[idx])
		if err != nil {
			return err
		}
		op.Operands[idx] = cp
	}
	return nil
}

var errAlwaysFails = &unresolvableError{}

type unresolvableError struct{}

func (*unresolvableError) Error() string { return "no legal copy-insertion point" }

func init() {
	Register("t.alloc", testOp{alloc: true, write: -1})
	Register("t.use", testOp{write: -1})
	Register("t.write", testOp{write: 0})
	Register("t.fail", testOp{write: -1})
}

func tensorType() ir.Type {
	return ir.TensorType{Shape: []int64{4}, Elem: "f32"}
}

// simpleFunc builds a func with the given detached ops appended in order
// and returns the func.
func simpleFunc(ops ...*ir.Operation) *ir.Operation {
	f := ir.NewFunc("main")
	for _, op := range ops {
		f.Body().Append(op)
	}
	return f
}
