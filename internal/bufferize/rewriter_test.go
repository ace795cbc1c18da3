package bufferize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tlower/internal/ir"
)

func TestRewriter_InsertCopy(t *testing.T) {
	alloc := ir.NewOp("t.alloc")
	t0 := alloc.AddResult("t0", tensorType())
	anchor := ir.NewOp("t.write")
	anchor.AddOperand(t0)
	f := simpleFunc(alloc, anchor)

	rw := NewRewriter()
	rw.SetInsertionPoint(anchor)

	cp, err := rw.InsertCopy(t0)
	require.NoError(t, err)

	assert.Equal(t, t0.Type, cp.Type)
	assert.Equal(t, AllocOpName, cp.DefiningOp().Name)
	assert.Equal(t, []string{"t.alloc", AllocOpName, "t.write"}, opNames(f.Body()))
	assert.Equal(t, 1, rw.Copies())
}

func TestRewriter_InsertCopy_CallOrder(t *testing.T) {
	anchorSrc := ir.NewOp("t.alloc")
	t0 := anchorSrc.AddResult("t0", tensorType())
	anchor := ir.NewOp("t.write")
	anchor.AddOperand(t0)
	f := simpleFunc(anchorSrc, anchor)

	rw := NewRewriter()
	rw.SetInsertionPoint(anchor)

	first, err := rw.InsertCopy(t0)
	require.NoError(t, err)
	second, err := rw.InsertCopy(t0)
	require.NoError(t, err)

	ops := f.Body().Ops()
	require.Len(t, ops, 4)
	assert.Same(t, first.DefiningOp(), ops[1],
		"first inserted ends up closest to the original predecessor")
	assert.Same(t, second.DefiningOp(), ops[2],
		"last inserted ends up immediately before the insertion point")
	assert.NotEqual(t, first.Name, second.Name, "copy results get distinct names")
}

func TestRewriter_InsertCopy_NoInsertionPoint(t *testing.T) {
	alloc := ir.NewOp("t.alloc")
	t0 := alloc.AddResult("t0", tensorType())
	simpleFunc(alloc)

	rw := NewRewriter()
	_, err := rw.InsertCopy(t0)
	assert.Error(t, err)
}

func TestRewriter_InsertCopy_DetachedAnchor(t *testing.T) {
	alloc := ir.NewOp("t.alloc")
	t0 := alloc.AddResult("t0", tensorType())
	detached := ir.NewOp("t.write")

	rw := NewRewriter()
	rw.SetInsertionPoint(detached)
	_, err := rw.InsertCopy(t0)
	assert.Error(t, err)
}

func TestRewriter_InsertCopy_RejectsScalar(t *testing.T) {
	op := ir.NewOp("t.use")
	n := op.AddResult("n", ir.ScalarType{Name: "index"})
	anchor := ir.NewOp("t.write")
	simpleFunc(op, anchor)

	rw := NewRewriter()
	rw.SetInsertionPoint(anchor)
	_, err := rw.InsertCopy(n)
	assert.Error(t, err)
}
