// Package ir provides the tensor-level intermediate representation that the
// bufferization passes operate on.
//
// This package contains the tree data model and its invariant-preserving
// mutators. All other internal packages import ir; ir imports nothing
// internal. This ensures IR remains the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - Operations are owned by their containing region; the tree owns all
//     operations transitively.
//   - Values are produced by exactly one operation (or are region arguments)
//     and referenced by later operations without ownership.
//   - Passes mutate the tree in place: they add attributes and insert new
//     operations, never delete or reorder existing ones.
package ir
