package bufferize

import (
	"github.com/roach88/tlower/internal/ir"
)

// Verdict records the analysis decision for a single tensor operand.
type Verdict struct {
	Func       string `json:"func"`
	Op         string `json:"op"`
	Position   int    `json:"position"`
	Operand    int    `json:"operand"`
	Value      string `json:"value"`
	OutOfPlace bool   `json:"out_of_place"`
}

// CollectVerdicts walks root and reports the out-of-place decision for every
// tensor operand of every registered operation. The walk order matches the
// resolution order, so Position is the operation's pre-order index within
// its function.
func CollectVerdicts(root *ir.Operation, state *State) []Verdict {
	var verdicts []Verdict
	fn := ""
	pos := 0

	ir.Walk(root, func(op *ir.Operation) ir.WalkAction {
		if op.Name == ir.FuncOpName {
			fn = op.SymName()
			pos = 0
			return ir.WalkAdvance
		}
		if op.Name == ir.ModuleOpName {
			return ir.WalkAdvance
		}

		opPos := pos
		pos++

		if _, ok := Lookup(op); !ok {
			return ir.WalkAdvance
		}
		for i, operand := range op.Operands {
			if operand == nil || !operand.Type.IsTensor() {
				continue
			}
			verdicts = append(verdicts, Verdict{
				Func:       fn,
				Op:         op.Name,
				Position:   opPos,
				Operand:    i,
				Value:      operand.Name,
				OutOfPlace: state.IsOutOfPlace(op, i),
			})
		}
		return ir.WalkAdvance
	})

	return verdicts
}
