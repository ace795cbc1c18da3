package bufferize

// Options is the global options record governing analysis and copy
// insertion. The zero value is NOT the default configuration; use
// DefaultOptions.
type Options struct {
	// AllowReturnAllocs permits functions to return fresh allocations.
	// When false, module analysis rejects programs whose functions
	// return a result that bufferizes to a new allocation.
	AllowReturnAllocs bool `json:"allow_return_allocs" yaml:"allow_return_allocs"`

	// BufferizeFunctionBoundaries enables whole-module analysis that
	// resolves aliasing across function boundaries. When false, writes
	// into function arguments are always treated as conflicts.
	BufferizeFunctionBoundaries bool `json:"bufferize_function_boundaries" yaml:"bufferize_function_boundaries"`

	// CreateDeallocs enables automatic deallocation in the later
	// lowering stage. When false, every allocation is conservatively
	// marked as escaping: nobody will free it, so downstream lowering
	// must not assume a bounded lifetime.
	CreateDeallocs bool `json:"create_deallocs" yaml:"create_deallocs"`

	// TestAnalysisOnly short-circuits after analysis: no attributes are
	// attached and no copies are inserted. Used by diagnostic tooling
	// that only wants to report verdicts.
	TestAnalysisOnly bool `json:"test_analysis_only" yaml:"test_analysis_only"`
}

// DefaultOptions returns the standard configuration: deallocation enabled,
// everything else off.
func DefaultOptions() Options {
	return Options{CreateDeallocs: true}
}
