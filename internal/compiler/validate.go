package compiler

import (
	"fmt"

	"github.com/roach88/tlower/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrNotAModule = "E100" // root operation is not a module

	// Module structure errors (E101-E109)
	ErrNotAFunc          = "E101" // module body contains a non-func op
	ErrDuplicateFuncName = "E102" // duplicate func name
	ErrEmptyFuncBody     = "E103" // func has no operations
	ErrMissingTerminator = "E104" // func body does not end with a terminator
	ErrMisplacedOp       = "E105" // operation after the terminator

	// Value errors (E110-E119)
	ErrOperandOutOfScope = "E110" // operand defined outside the enclosing regions
	ErrNilOperand        = "E111" // operand slot is nil
)

// ValidationError represents a structural validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled module for structural problems that compilation
// itself cannot rule out when modules are built programmatically.
// Returns all errors found (does not fail-fast).
func Validate(m *ir.Operation) []ValidationError {
	if m == nil || m.Name != ir.ModuleOpName {
		name := "<nil>"
		if m != nil {
			name = m.Name
		}
		return []ValidationError{{
			Field:   "module",
			Message: fmt.Sprintf("expected a module root, got %q", name),
			Code:    ErrNotAModule,
		}}
	}

	var errs []ValidationError
	funcNames := make(map[string]bool)

	for i, op := range m.Body().Ops() {
		if op.Name != ir.FuncOpName {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("module.ops[%d]", i),
				Message: fmt.Sprintf("module body must contain only funcs, got %q", op.Name),
				Code:    ErrNotAFunc,
			})
			continue
		}

		name := op.SymName()
		if funcNames[name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("module.ops[%d]", i),
				Message: fmt.Sprintf("duplicate func name: %q", name),
				Code:    ErrDuplicateFuncName,
			})
		}
		funcNames[name] = true

		errs = append(errs, validateFunc(name, op)...)
	}

	return errs
}

// validateFunc checks body shape and operand scoping for one func.
func validateFunc(name string, f *ir.Operation) []ValidationError {
	var errs []ValidationError

	ops := f.Body().Ops()
	if len(ops) == 0 {
		return append(errs, ValidationError{
			Field:   fmt.Sprintf("func.%s", name),
			Message: "func body must contain at least one operation",
			Code:    ErrEmptyFuncBody,
		})
	}

	if !ops[len(ops)-1].IsTerminator() {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("func.%s.ops[%d]", name, len(ops)-1),
			Message: fmt.Sprintf("func body must end with a terminator, got %q", ops[len(ops)-1].Name),
			Code:    ErrMissingTerminator,
		})
	}

	for i, op := range ops {
		if op.IsTerminator() && i != len(ops)-1 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("func.%s.ops[%d]", name, i),
				Message: fmt.Sprintf("terminator %q must be the last operation", op.Name),
				Code:    ErrMisplacedOp,
			})
		}
		errs = append(errs, validateOperands(name, i, op)...)
	}

	return errs
}

// validateOperands checks that every operand of op is defined in a region
// that encloses op.
func validateOperands(funcName string, idx int, op *ir.Operation) []ValidationError {
	var errs []ValidationError

	for j, operand := range op.Operands {
		if operand == nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("func.%s.ops[%d].operands[%d]", funcName, idx, j),
				Message: "operand is nil",
				Code:    ErrNilOperand,
			})
			continue
		}
		if !definesInScope(operand, op) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("func.%s.ops[%d].operands[%d]", funcName, idx, j),
				Message: fmt.Sprintf("operand %q is not defined in an enclosing region", operand.Name),
				Code:    ErrOperandOutOfScope,
			})
		}
	}

	return errs
}

// definesInScope reports whether the region defining v encloses op.
func definesInScope(v *ir.Value, op *ir.Operation) bool {
	def := v.DefiningRegion()
	if def == nil {
		return false
	}
	for r := op.Parent(); r != nil; {
		if r == def {
			return true
		}
		p := r.ParentOp()
		if p == nil {
			return false
		}
		r = p.Parent()
	}
	return false
}
