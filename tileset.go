package tiles3d

import (
	"math"

	"github.com/gogpu/tiles3d/cache"
)

// Tileset owns a tile tree and the per-frame selection state. Create one
// with NewTileset (hand-built trees) or DecodeTileset (manifests), then
// call SelectTiles once per frame.
//
// A Tileset is not safe for concurrent use. Output lists are overwritten
// by the next SelectTiles call.
type Tileset struct {
	root *Tile
	opts tilesetOptions

	// DebugFreezeFrame, when set, makes SelectTiles keep the previous
	// frame's selection so the camera can fly through a frozen cut of
	// the tree.
	DebugFreezeFrame bool

	selectedTiles        []*Tile
	selectedTilesToStyle []*Tile
	requestedTiles       []*Tile
	emptyTiles           []*Tile
	hasMixedContent      bool

	stats                  Statistics
	updatedVisibilityFrame uint64
	currentFrame           uint64

	minimumPriority float64
	maximumPriority float64

	contentCache *cache.LRU[*Tile]

	// Traversal scratch, reused across frames.
	traversalStack  tileStack
	emptyStack      tileStack
	descendantStack tileStack
	selectionStack  tileStack
	ancestorStack   tileStack
}

// NewTileset creates a tileset over an existing tile tree.
func NewTileset(root *Tile, opts ...TilesetOption) *Tileset {
	o := defaultTilesetOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Tileset{
		root: root,
		opts: o,
		contentCache: cache.New(func(t *Tile) int64 {
			return t.ContentByteLength
		}),
	}
}

// Root returns the root tile.
func (ts *Tileset) Root() *Tile { return ts.root }

// GeometricError returns the tileset-level geometric error used when
// evaluating the root tile.
func (ts *Tileset) GeometricError() float64 { return ts.opts.geometricError }

// Selected returns the tiles to draw this frame, in selection order.
func (ts *Tileset) Selected() []*Tile { return ts.selectedTiles }

// SelectedToStyle returns the subset of selected tiles whose content
// needs style re-evaluation: newly selected after a gap, or flagged with
// dirty feature properties.
func (ts *Tileset) SelectedToStyle() []*Tile { return ts.selectedTilesToStyle }

// Requested returns the tiles whose content should be requested. The
// list is in traversal order; dispatch in ascending LoadPriority order
// for best latency.
func (ts *Tileset) Requested() []*Tile { return ts.requestedTiles }

// Empty returns the structural tiles encountered this frame, useful for
// debug bound rendering.
func (ts *Tileset) Empty() []*Tile { return ts.emptyTiles }

// HasMixedContent reports whether the current selection contains
// replace-refined tiles at more than one resolution along some path, in
// which case the renderer needs stencil-ordered drawing keyed on
// SelectionDepth.
func (ts *Tileset) HasMixedContent() bool { return ts.hasMixedContent }

// Statistics returns the counters for the most recent SelectTiles call.
func (ts *Tileset) Statistics() Statistics { return ts.stats }

// CacheStats returns content cache statistics.
func (ts *Tileset) CacheStats() cache.Stats { return ts.contentCache.Stats() }

// PriorityRange returns the priority range observed this frame: the
// smallest of the tiles' own priorities and the largest of their holders'
// (effective) priorities. Callers use it to normalize priorities when
// merging requests across tilesets.
func (ts *Tileset) PriorityRange() (min, max float64) {
	return ts.minimumPriority, ts.maximumPriority
}

// resetPriorityRange clears the frame's priority bookkeeping.
func (ts *Tileset) resetPriorityRange() {
	ts.minimumPriority = math.Inf(1)
	ts.maximumPriority = math.Inf(-1)
}

// UnloadTiles evicts loaded content, coldest first, until the cache is
// within the configured memory budget. Tiles touched by the current
// frame's traversal are never evicted. Call between frames, after the
// caller has finished with the frame's content.
//
// Returns the number of tiles unloaded.
func (ts *Tileset) UnloadTiles() int {
	unloaded := 0
	for ts.contentCache.Size() > ts.opts.maximumMemoryUsage {
		tile, ok := ts.contentCache.Oldest()
		if !ok {
			break
		}
		if tile.touchedFrame == ts.currentFrame {
			// Everything hotter was touched this frame too.
			break
		}
		ts.contentCache.RemoveOldest()
		tile.Unload()
		unloaded++
	}
	if unloaded > 0 {
		logger().Debug("unloaded tile content",
			"count", unloaded,
			"cacheBytes", ts.contentCache.Size())
	}
	return unloaded
}

// TrimCache unconditionally evicts all content not touched by the most
// recent frame, regardless of the memory budget.
func (ts *Tileset) TrimCache() int {
	unloaded := 0
	for {
		tile, ok := ts.contentCache.Oldest()
		if !ok || tile.touchedFrame == ts.currentFrame {
			break
		}
		ts.contentCache.RemoveOldest()
		tile.Unload()
		unloaded++
	}
	return unloaded
}
