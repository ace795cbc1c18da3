// Package compiler parses CUE module definitions into the tensor IR.
//
// The expected CUE shape is a single top-level module struct:
//
//	module: {
//		func: main: {
//			args: [{name: "a", type: "tensor<4xf32>"}]
//			ops: [
//				{op: "tensor.alloc", results: [{name: "t0", type: "tensor<4xf32>"}]},
//				{op: "return", operands: ["t0"]},
//			]
//		}
//	}
//
// Compilation resolves operand references against the function's scope and
// reports errors with CUE source positions. Structural checks beyond what
// compilation itself requires live in Validate.
package compiler
