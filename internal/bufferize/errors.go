package bufferize

import (
	"errors"
	"fmt"

	"github.com/roach88/tlower/internal/ir"
)

// AnalysisError reports that the upstream analysis could not establish
// aliasing facts. Resolution never starts.
type AnalysisError struct {
	// Op is the offending operation, for diagnosis.
	Op *ir.Operation

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *AnalysisError) Error() string {
	if e.Op != nil {
		return fmt.Sprintf("analysis failed at %s: %s", e.Op.Name, e.Message)
	}
	return fmt.Sprintf("analysis failed: %s", e.Message)
}

// ResolveError reports that an operation's own conflict-resolution routine
// could not eliminate a detected conflict. Fatal to the whole pass; the
// tree is left partially rewritten and must be treated as untrustworthy.
type ResolveError struct {
	Op  *ir.Operation
	Err error
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve conflicts at %s: %v", e.Op.Name, e.Err)
}

// Unwrap exposes the underlying resolution error.
func (e *ResolveError) Unwrap() error { return e.Err }

// IsAnalysisError reports whether err is (or wraps) an AnalysisError.
func IsAnalysisError(err error) bool {
	var ae *AnalysisError
	return errors.As(err, &ae)
}

// IsResolveError reports whether err is (or wraps) a ResolveError.
func IsResolveError(err error) bool {
	var re *ResolveError
	return errors.As(err, &re)
}
