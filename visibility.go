package tiles3d

// updateTile resets a tile's per-frame scratch and recomputes its
// visibility, priority, and expiration state. Called before a tile is
// pushed for traversal, and again by the empty-subtree probe and the
// descendant fallback; only the visibility part is memoized per frame.
func (ts *Tileset) updateTile(t *Tile, fs *FrameState) {
	ts.updateVisibility(t, fs)
	t.updateExpiration(fs.Time)

	t.wasMinChild = false
	t.priorityDistanceHolder = t
	t.priorityDistance = ts.opts.priorityFunc(t, fs)
	ts.updateMinMaxPriority(t)

	t.shouldSelect = false
	t.finalResolution = true
}

// updateVisibility recomputes a tile's visibility at most once per frame,
// keyed on the tileset's visibility epoch. Both the traversal and the
// child-peeking optimizations below may ask for the same tile's
// visibility in one frame.
func (ts *Tileset) updateVisibility(t *Tile, fs *FrameState) {
	if t.updatedVisibilityFrame == ts.updatedVisibilityFrame {
		return
	}
	t.updatedVisibilityFrame = ts.updatedVisibilityFrame
	ts.updateTileVisibility(t, fs)
}

// updateTileVisibility layers the tileset-level culling policies on top
// of the tile's raw frustum and request-volume checks.
func (ts *Tileset) updateTileVisibility(t *Tile, fs *FrameState) {
	t.refreshVisibility(fs)

	if !t.isVisible() {
		return
	}

	hasChildren := len(t.Children) > 0

	// An external tileset pointer shares its volume with the root of the
	// external tree; cull both together using the child's tighter bounds.
	if t.HasTilesetContent && hasChildren {
		child := t.Children[0]
		ts.updateVisibility(child, fs)
		t.visible = child.visible
		t.inRequestVolume = child.inRequestVolume
		return
	}

	// An additive child whose volume already meets the error budget adds
	// nothing over its parent.
	if ts.meetsScreenSpaceErrorEarly(t, fs) {
		t.visible = false
		return
	}

	// A replace-refined tile whose children jointly cover it is invisible
	// whenever none of its children are.
	if t.Refine == RefineReplace && t.ChildrenWithinParent && hasChildren {
		if !ts.anyChildrenVisible(t, fs) {
			ts.stats.CulledWithChildrenUnion++
			t.visible = false
			return
		}
	}
}

// meetsScreenSpaceErrorEarly reports whether an additive-refined parent
// already renders this tile's region within budget, making the tile
// redundant.
func (ts *Tileset) meetsScreenSpaceErrorEarly(t *Tile, fs *FrameState) bool {
	parent := t.Parent
	if parent == nil || parent.HasTilesetContent || parent.Refine != RefineAdd {
		return false
	}
	return ts.screenSpaceErrorWithParent(t, fs) <= ts.opts.maximumScreenSpaceError
}

// screenSpaceErrorWithParent projects the parent's geometric error onto
// this tile: the error shown if the tile is not refined into. The root
// uses the tileset-level geometric error.
func (ts *Tileset) screenSpaceErrorWithParent(t *Tile, fs *FrameState) float64 {
	geometricError := ts.opts.geometricError
	if t.Parent != nil {
		geometricError = t.Parent.GeometricError
	}
	return fs.screenSpaceError(geometricError, t.distanceToCamera)
}

// anyChildrenVisible refreshes visibility for every child and reports
// whether at least one is visible.
func (ts *Tileset) anyChildrenVisible(t *Tile, fs *FrameState) bool {
	anyVisible := false
	for _, child := range t.Children {
		ts.updateVisibility(child, fs)
		anyVisible = anyVisible || child.isVisible()
	}
	return anyVisible
}

// updateTileAncestorContentLinks recomputes the tile's links to its
// nearest ancestor with content and nearest ancestor with loaded content.
// A parent requested this frame counts as having content so that siblings
// visited later in the same traversal observe the request.
func updateTileAncestorContentLinks(t *Tile, fs *FrameState) {
	t.ancestorWithContent = nil
	t.ancestorWithContentAvailable = nil

	parent := t.Parent
	if parent == nil {
		return
	}

	hasContent := !parent.hasUnloadedContent() || parent.requestedFrame == fs.FrameNumber
	if hasContent {
		t.ancestorWithContent = parent
	} else {
		t.ancestorWithContent = parent.ancestorWithContent
	}

	if parent.ContentAvailable() {
		t.ancestorWithContentAvailable = parent
	} else {
		t.ancestorWithContentAvailable = parent.ancestorWithContentAvailable
	}
}
