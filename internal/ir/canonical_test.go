package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarshalText_Module(t *testing.T) {
	m := NewModule()
	f := NewFunc("main")
	m.Body().Append(f)

	arg := f.Body().AddArg("a", TensorType{Shape: []int64{4}, Elem: "f32"})

	alloc := NewOp("tensor.alloc")
	t0 := alloc.AddResult("t0", TensorType{Shape: []int64{4}, Elem: "f32"})
	alloc.SetAttr("escape", BoolArrayAttr{false})
	f.Body().Append(alloc)

	ins := NewOp("tensor.insert")
	ins.AddOperand(t0)
	ins.AddOperand(arg)
	t1 := ins.AddResult("t1", TensorType{Shape: []int64{4}, Elem: "f32"})
	f.Body().Append(ins)

	ret := NewOp(ReturnOpName)
	ret.AddOperand(t1)
	f.Body().Append(ret)

	want := `module {
  func @main(%a: tensor<4xf32>) {
    %t0 = tensor.alloc() : tensor<4xf32> {escape = [false]}
    %t1 = tensor.insert(%t0, %a) : tensor<4xf32>
    return(%t1)
  }
}
`
	assert.Equal(t, want, string(MarshalText(m)))
}

func TestMarshalText_SortedAttrKeys(t *testing.T) {
	op := NewOp("tensor.alloc")
	op.AddResult("t0", TensorType{Elem: "f32"})
	op.SetAttr("zeta", BoolAttr(true))
	op.SetAttr("alpha", IntAttr(7))

	got := string(MarshalText(op))
	assert.Equal(t, "%t0 = tensor.alloc() : tensor<f32> {alpha = 7, zeta = true}\n", got)
}

func TestMarshalText_StringAttrNFCNormalized(t *testing.T) {
	// "e" + combining acute accent normalizes to the precomposed form.
	decomposed := "café"
	precomposed := "café"

	a := NewOp("annotated")
	a.SetAttr("note", StringAttr(decomposed))
	b := NewOp("annotated")
	b.SetAttr("note", StringAttr(precomposed))

	assert.Equal(t, string(MarshalText(b)), string(MarshalText(a)),
		"visually identical strings must print identically")
}
