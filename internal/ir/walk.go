package ir

// WalkAction controls how a pre-order walk proceeds after visiting an
// operation.
type WalkAction int

const (
	// WalkAdvance continues the walk into the operation's regions.
	WalkAdvance WalkAction = iota

	// WalkSkip continues the walk but does not descend into the
	// operation's regions.
	WalkSkip

	// WalkInterrupt aborts the entire walk immediately.
	WalkInterrupt
)

// Walk visits every operation in the subtree rooted at root exactly once,
// in program definition order: an operation before the contents of its own
// regions, regions left to right, operations within a region in order.
//
// Visitors may insert new operations strictly before the operation being
// visited. Each region's operation list is snapshotted before it is
// iterated, so such insertions are visible in the tree immediately but the
// newly inserted operations are not themselves visited.
//
// Returns WalkInterrupt if any visit interrupted the walk, WalkAdvance
// otherwise.
func Walk(root *Operation, visit func(*Operation) WalkAction) WalkAction {
	switch visit(root) {
	case WalkInterrupt:
		return WalkInterrupt
	case WalkSkip:
		return WalkAdvance
	}

	for _, r := range root.Regions {
		// Snapshot: visitors splice into r.ops while we iterate.
		ops := make([]*Operation, len(r.ops))
		copy(ops, r.ops)
		for _, op := range ops {
			if Walk(op, visit) == WalkInterrupt {
				return WalkInterrupt
			}
		}
	}
	return WalkAdvance
}
