package ir

import (
	"fmt"
)

// Value is a typed value produced by exactly one operation or declared as a
// region argument. Later operations reference it as an operand without
// taking ownership.
type Value struct {
	Name string
	Type Type

	def    *Operation // producing operation; nil for region arguments
	index  int        // result index within def
	region *Region    // owning region for region arguments
}

// DefiningOp returns the operation that produced this value, or nil for
// region arguments.
func (v *Value) DefiningOp() *Operation { return v.def }

// ResultIndex returns the result position within the defining operation.
// Only meaningful when DefiningOp is non-nil.
func (v *Value) ResultIndex() int { return v.index }

// DefiningRegion returns the region in whose scope the value is defined:
// the defining operation's parent region, or the owning region for
// region arguments. Returns nil for detached operations.
func (v *Value) DefiningRegion() *Region {
	if v.def != nil {
		return v.def.parent
	}
	return v.region
}

// Operation is a node in the program tree: zero or more typed results,
// zero or more operands, optional nested regions, and string-keyed
// attributes.
type Operation struct {
	Name     string
	Operands []*Value
	Results  []*Value
	Regions  []*Region
	Attrs    map[string]Attr

	parent *Region
}

// NewOp creates a detached operation with the given name.
func NewOp(name string) *Operation {
	return &Operation{
		Name:  name,
		Attrs: make(map[string]Attr),
	}
}

// AddResult appends a result value of the given type and returns it.
func (op *Operation) AddResult(name string, t Type) *Value {
	v := &Value{
		Name:  name,
		Type:  t,
		def:   op,
		index: len(op.Results),
	}
	op.Results = append(op.Results, v)
	return v
}

// AddOperand appends an operand reference.
func (op *Operation) AddOperand(v *Value) *Operation {
	op.Operands = append(op.Operands, v)
	return op
}

// AddRegion appends an empty nested region and returns it.
func (op *Operation) AddRegion() *Region {
	r := &Region{parent: op}
	op.Regions = append(op.Regions, r)
	return r
}

// Parent returns the region that owns this operation, or nil if detached.
func (op *Operation) Parent() *Region { return op.parent }

// ParentOp returns the operation owning the parent region, or nil at the
// tree root.
func (op *Operation) ParentOp() *Operation {
	if op.parent == nil {
		return nil
	}
	return op.parent.parent
}

// HasAttr reports whether the attribute key is present.
func (op *Operation) HasAttr(key string) bool {
	_, ok := op.Attrs[key]
	return ok
}

// Attr returns the attribute for key, if present.
func (op *Operation) Attr(key string) (Attr, bool) {
	a, ok := op.Attrs[key]
	return a, ok
}

// SetAttr sets a string-keyed attribute, replacing any previous value.
func (op *Operation) SetAttr(key string, a Attr) {
	if op.Attrs == nil {
		op.Attrs = make(map[string]Attr)
	}
	op.Attrs[key] = a
}

// Region is an ordered list of operations nested inside an owning
// operation. Regions may declare typed arguments (function parameters,
// loop-carried values).
type Region struct {
	Args []*Value

	ops    []*Operation
	parent *Operation
}

// Ops returns the operations in program order.
// The returned slice is the live backing slice; callers must not reorder it.
func (r *Region) Ops() []*Operation { return r.ops }

// ParentOp returns the operation owning this region.
func (r *Region) ParentOp() *Operation { return r.parent }

// AddArg declares a region argument of the given type and returns it.
func (r *Region) AddArg(name string, t Type) *Value {
	v := &Value{
		Name:   name,
		Type:   t,
		region: r,
	}
	r.Args = append(r.Args, v)
	return v
}

// Append adds an operation at the end of the region.
// The operation must be detached.
func (r *Region) Append(op *Operation) {
	if op.parent != nil {
		panic(fmt.Sprintf("ir: operation %q is already owned by a region", op.Name))
	}
	op.parent = r
	r.ops = append(r.ops, op)
}

// InsertBefore splices a detached operation immediately before anchor.
// Existing operations keep their relative order.
func (r *Region) InsertBefore(anchor, op *Operation) error {
	if op.parent != nil {
		return fmt.Errorf("ir: operation %q is already owned by a region", op.Name)
	}
	idx := -1
	for i, o := range r.ops {
		if o == anchor {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("ir: anchor operation %q not found in region", anchor.Name)
	}
	op.parent = r
	r.ops = append(r.ops, nil)
	copy(r.ops[idx+1:], r.ops[idx:])
	r.ops[idx] = op
	return nil
}

// Reserved operation names used by the structural helpers below.
const (
	ModuleOpName = "module"
	FuncOpName   = "func"
	ReturnOpName = "return"
	YieldOpName  = "yield"

	// SymNameAttr holds a function's symbol name.
	SymNameAttr = "sym_name"
)

// IsTerminator reports whether the operation transfers its operands out of
// the enclosing scope (return, yield).
func (op *Operation) IsTerminator() bool {
	return op.Name == ReturnOpName || op.Name == YieldOpName
}

// NewModule creates a top-level module operation with one empty region.
func NewModule() *Operation {
	m := NewOp(ModuleOpName)
	m.AddRegion()
	return m
}

// NewFunc creates a function operation with the given symbol name and one
// empty body region.
func NewFunc(name string) *Operation {
	f := NewOp(FuncOpName)
	f.SetAttr(SymNameAttr, StringAttr(name))
	f.AddRegion()
	return f
}

// Body returns the first nested region, or nil if the operation has none.
func (op *Operation) Body() *Region {
	if len(op.Regions) == 0 {
		return nil
	}
	return op.Regions[0]
}

// SymName returns the sym_name attribute, or "" if absent.
func (op *Operation) SymName() string {
	if a, ok := op.Attrs[SymNameAttr]; ok {
		if s, ok := a.(StringAttr); ok {
			return string(s)
		}
	}
	return ""
}
