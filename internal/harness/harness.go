package harness

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/tlower/internal/bufferize"
	"github.com/roach88/tlower/internal/compiler"
	"github.com/roach88/tlower/internal/ir"

	// Register the tensor op set with the capability registry.
	_ "github.com/roach88/tlower/internal/ops"
)

// Result holds the outcome of running a scenario.
type Result struct {
	// Module is the canonical text of the rewritten module.
	Module string

	// Copies is the number of copy allocations the rewriter inserted.
	Copies int
}

// Run compiles a scenario's module, resolves buffer conflicts under the
// scenario's options, and returns the rewritten module text.
//
// Each scenario compiles from source into a fresh tree, so scenarios are
// isolated from each other and repeatable.
func Run(scenario *Scenario) (*Result, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(scenario.Source, cue.Filename(scenario.Name+".cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("scenario %q: building CUE value: %w", scenario.Name, err)
	}

	moduleVal := v.LookupPath(cue.ParsePath("module"))
	if !moduleVal.Exists() {
		return nil, fmt.Errorf("scenario %q has no top-level module", scenario.Name)
	}

	m, err := compiler.CompileModule(moduleVal)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}
	if errs := compiler.Validate(m); len(errs) > 0 {
		return nil, fmt.Errorf("scenario %q: invalid module: %s", scenario.Name, errs[0].Error())
	}

	if err := bufferize.InsertTensorCopies(m, scenario.Options); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	return &Result{
		Module: string(ir.MarshalText(m)),
		Copies: countCopies(m),
	}, nil
}

// countCopies counts copy allocations: alloc ops with a source operand.
func countCopies(m *ir.Operation) int {
	n := 0
	ir.Walk(m, func(op *ir.Operation) ir.WalkAction {
		if op.Name == bufferize.AllocOpName && len(op.Operands) > 0 {
			n++
		}
		return ir.WalkAdvance
	})
	return n
}
