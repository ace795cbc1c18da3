package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// conflictModule has one write to t0 while t0 is still live, so resolving
// conflicts under default options inserts exactly one copy.
const conflictModule = `
module: func: main: {
	args: [{name: "a", type: "tensor<4xf32>"}]
	ops: [
		{op: "tensor.alloc", results: [{name: "t0", type: "tensor<4xf32>"}]},
		{op: "tensor.insert", operands: ["t0", "a"], results: [{name: "t1", type: "tensor<4xf32>"}]},
		{op: "tensor.insert", operands: ["t0", "a"], results: [{name: "t2", type: "tensor<4xf32>"}]},
		{op: "return", operands: ["t1", "t2"]},
	]
}
`

// cleanModule has no conflicting writes.
const cleanModule = `
module: func: main: {
	args: [{name: "a", type: "tensor<4xf32>"}]
	ops: [
		{op: "tensor.alloc", results: [{name: "t0", type: "tensor<4xf32>"}]},
		{op: "tensor.insert", operands: ["t0", "a"], results: [{name: "t1", type: "tensor<4xf32>"}]},
		{op: "return", operands: ["t1"]},
	]
}
`

// writeModuleFile writes CUE source to a temp file and returns its path.
func writeModuleFile(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "module.cue")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}
