package bufferize

import (
	"fmt"
	"sync"

	"github.com/roach88/tlower/internal/ir"
)

// EscapeAttrName is the reserved attribute key holding the per-result
// escape vector. Process-wide constant, never recomputed.
const EscapeAttrName = "escape"

// AllocOpName is the operation kind the rewriter materializes copies as:
// an allocating operation whose single operand is the value being copied.
const AllocOpName = "tensor.alloc"

// BufferizableOp is the capability interface implemented per operation
// kind. Implementations are stateless singletons dispatched by operation
// name; new kinds implement the capability without modifying the driver.
type BufferizableOp interface {
	// BufferizesToAllocation reports whether the given result is
	// realized as a fresh allocation rather than reusing an operand's
	// buffer.
	BufferizesToAllocation(op *ir.Operation, result int) bool

	// BufferizesToMemoryWrite reports whether the operation writes to
	// the given operand's future buffer.
	BufferizesToMemoryWrite(op *ir.Operation, operand int) bool

	// ResolveConflicts rewrites the operation's immediate neighborhood
	// so the analysis's in-place decisions become memory safe, inserting
	// copies through rw as needed. A returned error is fatal to the
	// whole pass.
	ResolveConflicts(op *ir.Operation, rw *Rewriter, state *State) error
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]BufferizableOp)
)

// Register binds a capability implementation to an operation name.
// Intended to be called from init. Panics on duplicate registration so
// misconfiguration fails fast at startup.
func Register(name string, impl BufferizableOp) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("bufferize: duplicate registration for %q", name))
	}
	registry[name] = impl
}

// Lookup returns the capability implementation for an operation, if its
// kind participates in buffer resolution.
func Lookup(op *ir.Operation) (BufferizableOp, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	impl, ok := registry[op.Name]
	return impl, ok
}
