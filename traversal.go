package tiles3d

import (
	"cmp"
	"math"
	"slices"
)

// SelectTiles runs the per-frame selection over the tile tree, populating
// the Selected, SelectedToStyle, Requested, and Empty lists. It returns
// false only when DebugFreezeFrame is set; an early exit because the root
// is culled or the whole tree meets the error budget still counts as a
// frame, with empty lists.
func (ts *Tileset) SelectTiles(fs *FrameState) bool {
	ts.requestedTiles = ts.requestedTiles[:0]
	if ts.DebugFreezeFrame {
		return false
	}

	ts.selectedTiles = ts.selectedTiles[:0]
	ts.selectedTilesToStyle = ts.selectedTilesToStyle[:0]
	ts.emptyTiles = ts.emptyTiles[:0]
	ts.hasMixedContent = false
	ts.stats.reset()
	ts.resetPriorityRange()
	ts.currentFrame = fs.FrameNumber
	ts.updatedVisibilityFrame++

	root := ts.root
	ts.updateTile(root, fs)

	if root.isVisible() && ts.screenSpaceErrorWithParent(root, fs) > ts.opts.maximumScreenSpaceError {
		baseSSE := ts.opts.maximumScreenSpaceError
		if ts.opts.skipLevelOfDetail {
			if ts.opts.immediatelyLoadDesiredLevelOfDetail {
				baseSSE = math.Inf(1)
			} else {
				baseSSE = math.Max(ts.opts.baseScreenSpaceError, ts.opts.maximumScreenSpaceError)
			}
		}

		ts.executeTraversal(root, baseSSE, fs)
		if ts.opts.skipLevelOfDetail {
			ts.traverseAndSelect(root, fs)
		}
	}

	ts.stats.Selected = len(ts.selectedTiles)
	ts.stats.SelectedToStyle = len(ts.selectedTilesToStyle)
	ts.stats.Requested = len(ts.requestedTiles)
	ts.stats.Empty = len(ts.emptyTiles)

	ts.traversalStack.trim()
	ts.emptyStack.trim()
	ts.descendantStack.trim()
	ts.selectionStack.trim()
	ts.ancestorStack.trim()

	logger().Debug("tile selection",
		"frame", fs.FrameNumber,
		"visited", ts.stats.Visited,
		"selected", ts.stats.Selected,
		"requested", ts.stats.Requested)
	return true
}

// executeTraversal is the depth-first refinement walk. Every popped tile
// decides whether it refines (all visible children ready, for replace
// refinement outside skipping), and loads or selects itself accordingly.
// Under skip level-of-detail, selection is deferred: desired tiles are
// only flagged here and emitted later by traverseAndSelect.
func (ts *Tileset) executeTraversal(root *Tile, baseSSE float64, fs *FrameState) {
	stack := &ts.traversalStack
	stack.push(root)

	for stack.len() > 0 {
		tile := stack.pop()

		updateTileAncestorContentLinks(tile, fs)
		baseTraversal := ts.inBaseTraversal(tile, baseSSE)
		parentRefines := tile.Parent == nil || tile.Parent.refines

		refines := false
		if ts.canTraverse(tile) {
			refines = ts.updateAndPushChildren(tile, stack, fs) && parentRefines
		}

		// The first tile down a path that fails to refine is the one
		// that must appear on screen in its ancestors' place.
		stoppedRefining := !refines && parentRefines

		switch {
		case !tile.hasRenderableContent():
			ts.emptyTiles = append(ts.emptyTiles, tile)
			ts.loadTile(tile, fs)
			if stoppedRefining {
				ts.selectDesiredTile(tile, fs)
			}
		case tile.Refine == RefineAdd:
			// Additive tiles render alongside their children.
			ts.selectDesiredTile(tile, fs)
			ts.loadTile(tile, fs)
		case tile.Refine == RefineReplace:
			if baseTraversal {
				ts.loadTile(tile, fs)
				if stoppedRefining {
					ts.selectDesiredTile(tile, fs)
				}
			} else if stoppedRefining {
				ts.selectDesiredTile(tile, fs)
				ts.loadTile(tile, fs)
			} else if ts.reachedSkippingThreshold(tile) {
				ts.loadTile(tile, fs)
			}
		}

		ts.visitTile(tile, fs)
		ts.touchTile(tile, fs)
		tile.refines = refines
	}
}

// inBaseTraversal reports whether the tile is still loaded level by level
// rather than skipped over. Outside skip level-of-detail everything is
// base. A zero screen-space error is the "leaf, error not set" sentinel;
// the parent's error stands in for it. The comparison against zero is
// exact on purpose.
func (ts *Tileset) inBaseTraversal(t *Tile, baseSSE float64) bool {
	if !ts.opts.skipLevelOfDetail {
		return true
	}
	if ts.opts.immediatelyLoadDesiredLevelOfDetail {
		return false
	}
	if t.ancestorWithContent == nil {
		// Near the root; no ancestor could stand in yet.
		return true
	}
	if t.screenSpaceError == 0 {
		if t.Parent != nil {
			return t.Parent.screenSpaceError > baseSSE
		}
		return true
	}
	return t.screenSpaceError > baseSSE
}

// canTraverse reports whether the walk should descend into the tile's
// children.
func (ts *Tileset) canTraverse(t *Tile) bool {
	if len(t.Children) == 0 {
		return false
	}
	if t.HasTilesetContent {
		// Traversing an expired external subtree would descend into
		// tiles about to be discarded.
		return !t.contentExpired
	}
	return t.screenSpaceError > ts.opts.maximumScreenSpaceError
}

// reachedSkippingThreshold reports whether a skipped tile has become
// worth loading: its error improves on the nearest ancestor with content
// by the configured factor, and it sits deep enough below that ancestor.
func (ts *Tileset) reachedSkippingThreshold(t *Tile) bool {
	ancestor := t.ancestorWithContent
	return !ts.opts.immediatelyLoadDesiredLevelOfDetail &&
		ancestor != nil &&
		t.screenSpaceError < ancestor.screenSpaceError/ts.opts.skipScreenSpaceErrorFactor &&
		t.Depth > ancestor.Depth+ts.opts.skipLevels
}

// updateAndPushChildren refreshes all children, pushes the visible ones
// in far-to-near order, and reports whether the parent may refine: under
// replace refinement every visible child must have content available (or,
// for a structural child, a fully loaded empty subtree). Hidden siblings
// are loaded too when refinement demands them or the caller asked for
// siblings.
func (ts *Tileset) updateAndPushChildren(t *Tile, stack *tileStack, fs *FrameState) bool {
	children := t.Children
	for _, child := range children {
		ts.updateTile(child, fs)
	}

	// Farthest pushed first so the nearest child pops first.
	slices.SortFunc(children, compareChildrenByDistance)

	checkRefines := !ts.opts.skipLevelOfDetail &&
		t.Refine == RefineReplace &&
		t.hasRenderableContent()

	refines := true
	anyChildrenVisible := false
	minIndex := -1
	minPriority := math.Inf(1)

	for i, child := range children {
		if child.isVisible() {
			stack.push(child)
			if child.priorityDistance < minPriority {
				minIndex = i
				minPriority = child.priorityDistance
			}
			anyChildrenVisible = true
		} else if checkRefines || ts.opts.loadSiblings {
			// A hidden sibling still blocks the parent from refining
			// until its content arrives.
			ts.loadTile(child, fs)
			ts.touchTile(child, fs)
		}

		if checkRefines {
			var childRefines bool
			switch {
			case !child.inRequestVolume:
				childRefines = false
			case !child.hasRenderableContent():
				childRefines = ts.executeEmptyTraversal(child, fs)
			default:
				childRefines = child.ContentAvailable()
			}
			refines = refines && childRefines
		}
	}

	if !anyChildrenVisible {
		refines = false
	}

	if minIndex != -1 {
		ts.propagateChildPriority(t, children[minIndex])
	}

	return refines
}

// compareChildrenByDistance orders children far to near. When both
// distances are exactly zero (camera inside both volumes), the deeper
// center breaks the tie.
func compareChildrenByDistance(a, b *Tile) int {
	if a.distanceToCamera == 0 && b.distanceToCamera == 0 {
		return cmp.Compare(b.centerZDepth, a.centerZDepth)
	}
	return cmp.Compare(b.distanceToCamera, a.distanceToCamera)
}

// executeEmptyTraversal descends through a structural subtree, ignoring
// visibility, to determine whether a replace-refined ancestor may refine
// across it without leaving holes: true iff every reachable descendant
// where traversal stops has content available.
func (ts *Tileset) executeEmptyTraversal(root *Tile, fs *FrameState) bool {
	allDescendantsLoaded := true
	stack := &ts.emptyStack
	stack.push(root)

	for stack.len() > 0 {
		tile := stack.pop()

		traverse := !tile.hasRenderableContent() && ts.canTraverse(tile)

		// Traversal stops here and nothing is loaded: refining the
		// ancestor would leave a hole.
		if !traverse && !tile.ContentAvailable() {
			allDescendantsLoaded = false
		}

		ts.updateTile(tile, fs)
		if !tile.isVisible() {
			// Invisible tiles still need their content before the
			// ancestor may refine.
			ts.loadTile(tile, fs)
			ts.touchTile(tile, fs)
		}

		if traverse {
			for _, child := range tile.Children {
				stack.push(child)
			}
		}
	}

	return allDescendantsLoaded
}

// loadTile queues a tile whose content is unloaded or expired, at most
// once per frame.
func (ts *Tileset) loadTile(t *Tile, fs *FrameState) {
	if t.requestedFrame == fs.FrameNumber {
		return
	}
	if !t.hasUnloadedContent() && !t.contentExpired {
		return
	}
	t.requestedFrame = fs.FrameNumber
	ts.updateMinMaxPriority(t)
	ts.requestedTiles = append(ts.requestedTiles, t)
}

// visitTile counts a traversal visit.
func (ts *Tileset) visitTile(t *Tile, fs *FrameState) {
	ts.stats.Visited++
	t.visitedFrame = fs.FrameNumber
}

// touchTile marks the tile hot in the content cache, at most once per
// frame.
func (ts *Tileset) touchTile(t *Tile, fs *FrameState) {
	if t.touchedFrame == fs.FrameNumber {
		return
	}
	ts.contentCache.Touch(t)
	t.touchedFrame = fs.FrameNumber
}
