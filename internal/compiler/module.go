package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"

	"github.com/roach88/tlower/internal/ir"
)

// CompileModule parses a CUE value into an IR module.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the module struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`module: func: main: { ... }`)
//	m, err := CompileModule(v.LookupPath(cue.ParsePath("module")))
func CompileModule(v cue.Value) (*ir.Operation, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	m := ir.NewModule()

	funcsVal := v.LookupPath(cue.ParsePath("func"))
	if !funcsVal.Exists() {
		return nil, &CompileError{
			Field:   "func",
			Message: "module requires at least one func",
			Pos:     v.Pos(),
		}
	}

	iter, err := funcsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	count := 0
	for iter.Next() {
		// The label may be quoted in CUE, extract it
		name := strings.Trim(iter.Label(), `"`)
		f, err := compileFunc(name, iter.Value())
		if err != nil {
			return nil, err
		}
		m.Body().Append(f)
		count++
	}
	if count == 0 {
		return nil, &CompileError{
			Field:   "func",
			Message: "module requires at least one func",
			Pos:     funcsVal.Pos(),
		}
	}

	return m, nil
}

// compileFunc parses one function struct: optional args, required ops.
func compileFunc(name string, v cue.Value) (*ir.Operation, error) {
	f := ir.NewFunc(name)
	scope := make(map[string]*ir.Value)

	argsVal := v.LookupPath(cue.ParsePath("args"))
	if argsVal.Exists() {
		iter, err := argsVal.List()
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("func.%s.args", name),
				Message: "args must be a list",
				Pos:     argsVal.Pos(),
			}
		}
		for iter.Next() {
			argName, argType, err := parseTypedName(fmt.Sprintf("func.%s.args", name), iter.Value())
			if err != nil {
				return nil, err
			}
			if _, dup := scope[argName]; dup {
				return nil, &CompileError{
					Field:   fmt.Sprintf("func.%s.args", name),
					Message: fmt.Sprintf("duplicate value name %q", argName),
					Pos:     iter.Value().Pos(),
				}
			}
			scope[argName] = f.Body().AddArg(argName, argType)
		}
	}

	opsVal := v.LookupPath(cue.ParsePath("ops"))
	if !opsVal.Exists() {
		return nil, &CompileError{
			Field:   fmt.Sprintf("func.%s.ops", name),
			Message: "func requires an ops list",
			Pos:     v.Pos(),
		}
	}
	iter, err := opsVal.List()
	if err != nil {
		return nil, &CompileError{
			Field:   fmt.Sprintf("func.%s.ops", name),
			Message: "ops must be a list",
			Pos:     opsVal.Pos(),
		}
	}
	idx := 0
	for iter.Next() {
		op, err := compileOp(fmt.Sprintf("func.%s.ops[%d]", name, idx), scope, iter.Value())
		if err != nil {
			return nil, err
		}
		f.Body().Append(op)
		idx++
	}

	return f, nil
}

// compileOp parses one operation struct and resolves its operands against
// the function scope. Result names extend the scope.
func compileOp(field string, scope map[string]*ir.Value, v cue.Value) (*ir.Operation, error) {
	nameVal := v.LookupPath(cue.ParsePath("op"))
	if !nameVal.Exists() {
		return nil, &CompileError{
			Field:   field,
			Message: "operation requires an 'op' name field",
			Pos:     v.Pos(),
		}
	}
	name, err := nameVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}

	op := ir.NewOp(name)

	operandsVal := v.LookupPath(cue.ParsePath("operands"))
	if operandsVal.Exists() {
		iter, err := operandsVal.List()
		if err != nil {
			return nil, &CompileError{
				Field:   field + ".operands",
				Message: "operands must be a list of value names",
				Pos:     operandsVal.Pos(),
			}
		}
		for iter.Next() {
			ref, err := iter.Value().String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			val, ok := scope[ref]
			if !ok {
				return nil, &CompileError{
					Field:   field + ".operands",
					Message: fmt.Sprintf("undefined value %q", ref),
					Pos:     iter.Value().Pos(),
				}
			}
			op.AddOperand(val)
		}
	}

	resultsVal := v.LookupPath(cue.ParsePath("results"))
	if resultsVal.Exists() {
		iter, err := resultsVal.List()
		if err != nil {
			return nil, &CompileError{
				Field:   field + ".results",
				Message: "results must be a list",
				Pos:     resultsVal.Pos(),
			}
		}
		for iter.Next() {
			resName, resType, err := parseTypedName(field+".results", iter.Value())
			if err != nil {
				return nil, err
			}
			if _, dup := scope[resName]; dup {
				return nil, &CompileError{
					Field:   field + ".results",
					Message: fmt.Sprintf("duplicate value name %q", resName),
					Pos:     iter.Value().Pos(),
				}
			}
			scope[resName] = op.AddResult(resName, resType)
		}
	}

	attrsVal := v.LookupPath(cue.ParsePath("attrs"))
	if attrsVal.Exists() {
		attrIter, err := attrsVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for attrIter.Next() {
			key := strings.Trim(attrIter.Label(), `"`)
			a, err := parseAttr(field+".attrs."+key, attrIter.Value())
			if err != nil {
				return nil, err
			}
			op.SetAttr(key, a)
		}
	}

	return op, nil
}

// parseTypedName parses a {name, type} struct.
func parseTypedName(field string, v cue.Value) (string, ir.Type, error) {
	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return "", nil, &CompileError{
			Field:   field,
			Message: "entry requires a 'name' field",
			Pos:     v.Pos(),
		}
	}
	name, err := nameVal.String()
	if err != nil {
		return "", nil, formatCUEError(err)
	}

	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return "", nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("entry %q requires a 'type' field", name),
			Pos:     v.Pos(),
		}
	}
	typeStr, err := typeVal.String()
	if err != nil {
		return "", nil, formatCUEError(err)
	}
	t, err := ir.ParseType(typeStr)
	if err != nil {
		return "", nil, &CompileError{
			Field:   field,
			Message: err.Error(),
			Pos:     typeVal.Pos(),
		}
	}

	return name, t, nil
}

// parseAttr converts a CUE attribute value into an IR attribute.
// Supported kinds: bool, int, string, and lists of bool.
func parseAttr(field string, v cue.Value) (ir.Attr, error) {
	switch v.Kind() {
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.BoolAttr(b), nil

	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.IntAttr(i), nil

	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.StringAttr(s), nil

	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		var out ir.BoolArrayAttr
		for iter.Next() {
			b, err := iter.Value().Bool()
			if err != nil {
				return nil, &CompileError{
					Field:   field,
					Message: "list attributes must contain only booleans",
					Pos:     iter.Value().Pos(),
				}
			}
			out = append(out, b)
		}
		return out, nil

	default:
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("unsupported attribute kind: %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}
