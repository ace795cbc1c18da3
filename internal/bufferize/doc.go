// Package bufferize turns buffer-assignment analysis verdicts into concrete,
// behavior-preserving IR rewrites.
//
// An upstream analysis decides, per operation result, whether the result can
// reuse an operand's buffer in place or must become a fresh allocation. This
// package enforces those decisions in a single ordered pass:
//
//   - the escape annotator attaches a per-result boolean vector marking which
//     allocating results must outlive the operation that created them;
//   - the conflict resolver driver visits every operation exactly once in
//     program order and asks each participating operation to eliminate its
//     own in-place conflicts, typically by inserting tensor copies.
//
// The pass mutates the tree in place. It never deletes or reorders existing
// operations; it only annotates them and splices copy operations in front of
// them. A resolution failure aborts the pass and leaves the tree partially
// rewritten - callers must not re-run the pass over a failed tree.
//
// Operation kinds opt in through the BufferizableOp capability, registered
// by name (see package ops for the standard kinds).
package bufferize
