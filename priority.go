package tiles3d

import "math"

// PriorityFunc computes a tile's raw load priority from its per-frame
// geometry. Smaller values load first. The function must be pure: the
// engine may call it any number of times per tile per frame.
type PriorityFunc func(t *Tile, fs *FrameState) float64

// DistancePriority is the default priority function: the closest point of
// the tile's bounding sphere along the camera forward axis, clamped so
// tiles straddling or behind the camera get priority 0 and load first.
func DistancePriority(t *Tile, fs *FrameState) float64 {
	return clamp(t.centerZDepth-t.Bounds.Radius(), 0, t.centerZDepth)
}

// updateMinMaxPriority folds a tile into the frame's priority range.
// The max branch reads the propagated holder distance while the min
// branch reads the tile's own raw distance.
func (ts *Tileset) updateMinMaxPriority(t *Tile) {
	ts.maximumPriority = math.Max(t.priorityDistanceHolder.priorityDistance, ts.maximumPriority)
	ts.minimumPriority = math.Min(t.priorityDistance, ts.minimumPriority)
}

// propagateChildPriority lifts the most urgent child's priority into the
// subtree's priority holder and points every sibling at that holder, so a
// request anywhere in the family sorts by the best descendant's urgency.
//
// When the parent was itself a minimum child (or is the root), its holder
// already represents a larger family and is reused, chaining holders up
// the tree. Otherwise the parent becomes the holder for this family.
func (ts *Tileset) propagateChildPriority(t, minChild *Tile) {
	minChild.wasMinChild = true

	holder := t
	if t.wasMinChild || t == ts.root {
		holder = t.priorityDistanceHolder
	}
	holder.priorityDistance = math.Min(minChild.priorityDistance, holder.priorityDistance)

	for _, child := range t.Children {
		child.priorityDistanceHolder = holder
	}
}
