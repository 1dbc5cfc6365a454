package tiles3d

// descendantSelectionDepth bounds how far selectDescendants may descend
// below the desired tile while hunting for loaded stand-ins.
const descendantSelectionDepth = 2

// selectDesiredTile records that a tile should appear on screen this
// frame. Outside skip level-of-detail the tile is emitted immediately if
// its content is available. Under skipping, the tile — or the nearest
// loaded ancestor standing in for it — is only flagged; traverseAndSelect
// emits flagged tiles in stencil-safe order afterwards. With no loaded
// ancestor either, nearby loaded descendants fill the hole.
func (ts *Tileset) selectDesiredTile(t *Tile, fs *FrameState) {
	if !ts.opts.skipLevelOfDetail {
		if t.ContentAvailable() {
			ts.selectTile(t, fs)
		}
		return
	}

	loadedTile := t
	if !t.ContentAvailable() {
		loadedTile = t.ancestorWithContentAvailable
	}
	if loadedTile != nil {
		loadedTile.shouldSelect = true
	} else {
		ts.selectDescendants(t, fs)
	}
}

// selectDescendants selects the nearest loaded descendants of a tile
// whose own content, and all of whose ancestors' content, is missing.
// The descent is bounded so a barely-loaded tree does not cascade into
// selecting thousands of leaves.
func (ts *Tileset) selectDescendants(root *Tile, fs *FrameState) {
	stack := &ts.descendantStack
	stack.push(root)

	for stack.len() > 0 {
		tile := stack.pop()
		for _, child := range tile.Children {
			if !child.isVisible() {
				continue
			}
			if child.ContentAvailable() {
				ts.updateTile(child, fs)
				ts.touchTile(child, fs)
				ts.selectTile(child, fs)
			} else if child.Depth-root.Depth < descendantSelectionDepth {
				stack.push(child)
			}
		}
	}
}

// selectTile emits a tile into the frame's selection after a final
// frustum check against its content bounds. Tiles newly selected after a
// gap, or with dirty feature properties, also land on the style list.
func (ts *Tileset) selectTile(t *Tile, fs *FrameState) {
	if t.contentVisibility(fs) == VisibilityOutside {
		return
	}

	if t.featurePropertiesDirty {
		t.featurePropertiesDirty = false
		t.lastStyleTime = 0
		ts.selectedTilesToStyle = append(ts.selectedTilesToStyle, t)
	} else if t.selectedFrame+1 < fs.FrameNumber {
		ts.selectedTilesToStyle = append(ts.selectedTilesToStyle, t)
	}

	t.selectedFrame = fs.FrameNumber
	ts.selectedTiles = append(ts.selectedTiles, t)
}

// traverseAndSelect emits the tiles flagged by selectDesiredTile, in an
// order safe for stencil-based compositing: a selected replace-refined
// ancestor is held on a side stack and emitted only after the entire
// subtree beneath it has been walked, so finer tiles draw before the
// coarser tile that backs them. Each selected replace tile records how
// many selected ancestors sit above it (its selection depth).
func (ts *Tileset) traverseAndSelect(root *Tile, fs *FrameState) {
	stack := &ts.selectionStack
	ancestorStack := &ts.ancestorStack
	var lastAncestor *Tile

	stack.push(root)

	for stack.len() > 0 || ancestorStack.len() > 0 {
		if ancestorStack.len() > 0 {
			waitingTile := ancestorStack.peek()
			if waitingTile.stackLength == stack.len() {
				// The subtree under this ancestor has drained.
				ancestorStack.pop()
				if waitingTile != lastAncestor {
					// A deeper tile was selected below it, so this
					// tile is filling in around finer content.
					waitingTile.finalResolution = false
				}
				ts.selectTile(waitingTile, fs)
				continue
			}
		}

		tile := stack.pop()
		if tile == nil {
			// Main stack drained; remaining ancestors emit above.
			continue
		}

		shouldSelect := tile.shouldSelect
		traverse := ts.canTraverse(tile)

		if shouldSelect {
			if tile.Refine == RefineAdd {
				ts.selectTile(tile, fs)
			} else {
				tile.selectionDepth = ancestorStack.len()
				if tile.selectionDepth > 0 {
					ts.hasMixedContent = true
				}
				lastAncestor = tile

				if !traverse {
					ts.selectTile(tile, fs)
					continue
				}

				ancestorStack.push(tile)
				tile.stackLength = stack.len()
			}
		}

		if traverse {
			for _, child := range tile.Children {
				if child.isVisible() {
					stack.push(child)
				}
			}
		}
	}
}
