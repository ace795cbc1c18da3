// Package harness provides a conformance harness for the copy-insertion
// pipeline.
//
// A scenario pairs a CUE module source with analysis options. Running a
// scenario compiles the module, validates it, resolves buffer conflicts,
// and returns the canonical text of the rewritten module. Golden files
// under testdata/golden pin the expected output; the rewrite is
// deterministic, so a scenario either always matches its golden file or
// never does.
package harness
