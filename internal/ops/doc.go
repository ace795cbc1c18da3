// Package ops registers the standard tensor operation kinds with the
// bufferize capability registry.
//
// Importing this package (usually for side effects) makes the kinds below
// participate in buffer-conflict resolution:
//
//	tensor.alloc   - fresh allocation; optional operand is a copy source
//	tensor.insert  - writes a scalar into its destination tensor in place
//	tensor.map     - element-wise compute writing its destination in place
//
// Structural operations (module, func, return, yield) deliberately do not
// register: the driver skips them but still descends into their regions.
package ops
