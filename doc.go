// Package tiles3d implements hierarchical tile selection for streaming
// 3D tilesets.
//
// # Overview
//
// tiles3d walks a bounded-volume hierarchy of tiles once per frame and
// decides which tiles to draw, which tile contents to request from the
// loader, and which structural tiles exist only to hold children. The
// traversal refines tiles until their screen-space error drops below the
// configured budget, keeps coarser ancestors on screen while finer
// descendants stream in, and can skip intermediate levels of detail
// entirely when configured to.
//
// The engine performs no I/O and issues no GPU work. It consumes per-tile
// geometry (distance, screen-space error, culling) and produces tile
// lists; fetching and decoding content, releasing the content of tiles
// that UnloadTiles evicts, and the render pass belong to the caller.
//
// # Quick Start
//
//	ts, err := tiles3d.DecodeTileset(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Each frame:
//	fs := &tiles3d.FrameState{ ... camera, viewport, frame number ... }
//	ts.SelectTiles(fs)
//	for _, tile := range ts.Selected() {
//	    // draw tile content
//	}
//	for _, tile := range ts.Requested() {
//	    // dispatch content loads, highest priority first
//	}
//	ts.UnloadTiles()
//
// # Architecture
//
// The library is organized into:
//   - Tile model: Tile, RefineMode, content lifecycle (tile.go)
//   - Geometry: Vec3, bounding volumes, culling volume (vec.go, bounds.go)
//   - Traversal: per-frame selection engine (traversal.go, selection.go,
//     visibility.go, priority.go)
//   - Cache: LRU over loaded tile content (cache/)
//   - Decoding: tileset manifest decoding (decoder.go)
//
// # Concurrency
//
// SelectTiles runs synchronously on the caller's goroutine and owns all
// per-tile scratch state for the duration of the call. Output lists are
// valid until the next SelectTiles call and must be treated as read-only.
// Content state transitions (MarkReady and friends) may be driven from
// loader goroutines between frames, but not while SelectTiles runs.
package tiles3d

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
