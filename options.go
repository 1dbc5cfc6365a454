package tiles3d

// TilesetOption configures a Tileset during creation.
// Use functional options to customize selection behavior.
//
// Example:
//
//	// Classical refinement with a tighter error budget:
//	ts := tiles3d.NewTileset(root, tiles3d.WithMaximumScreenSpaceError(8))
//
//	// Skip level-of-detail streaming:
//	ts := tiles3d.NewTileset(root, tiles3d.WithSkipLevelOfDetail(true))
type TilesetOption func(*tilesetOptions)

// tilesetOptions holds optional configuration for Tileset creation.
type tilesetOptions struct {
	maximumScreenSpaceError             float64
	baseScreenSpaceError                float64
	skipLevelOfDetail                   bool
	immediatelyLoadDesiredLevelOfDetail bool
	skipScreenSpaceErrorFactor          float64
	skipLevels                          int
	loadSiblings                        bool
	maximumMemoryUsage                  int64
	geometricError                      float64
	priorityFunc                        PriorityFunc
}

// defaultTilesetOptions returns the default tileset options.
func defaultTilesetOptions() tilesetOptions {
	return tilesetOptions{
		maximumScreenSpaceError:    16,
		baseScreenSpaceError:       1024,
		skipScreenSpaceErrorFactor: 16,
		skipLevels:                 1,
		maximumMemoryUsage:         512 << 20,
		priorityFunc:               DistancePriority,
	}
}

// WithMaximumScreenSpaceError sets the screen-space error budget, in
// pixels, below which refinement stops. Default 16.
func WithMaximumScreenSpaceError(sse float64) TilesetOption {
	return func(o *tilesetOptions) {
		o.maximumScreenSpaceError = sse
	}
}

// WithBaseScreenSpaceError sets the error budget separating the base
// traversal from the skip traversal when skip level-of-detail is enabled.
// Tiles with error above this are loaded level by level; tiles below it
// may be skipped. Default 1024.
func WithBaseScreenSpaceError(sse float64) TilesetOption {
	return func(o *tilesetOptions) {
		o.baseScreenSpaceError = sse
	}
}

// WithSkipLevelOfDetail enables skipping intermediate levels of detail,
// trading refinement smoothness for lower total load. Default false.
func WithSkipLevelOfDetail(skip bool) TilesetOption {
	return func(o *tilesetOptions) {
		o.skipLevelOfDetail = skip
	}
}

// WithImmediatelyLoadDesiredLevelOfDetail skips straight to the tiles the
// camera actually wants, ignoring ancestors entirely. Only meaningful
// together with WithSkipLevelOfDetail. Default false.
func WithImmediatelyLoadDesiredLevelOfDetail(immediate bool) TilesetOption {
	return func(o *tilesetOptions) {
		o.immediatelyLoadDesiredLevelOfDetail = immediate
	}
}

// WithSkipScreenSpaceErrorFactor sets the multiplier defining the minimum
// screen-space error improvement a descendant must offer over its nearest
// loaded ancestor before it is loaded during skipping. Default 16.
func WithSkipScreenSpaceErrorFactor(factor float64) TilesetOption {
	return func(o *tilesetOptions) {
		o.skipScreenSpaceErrorFactor = factor
	}
}

// WithSkipLevels sets the minimum number of levels between a tile and its
// nearest loaded ancestor before the tile is loaded during skipping.
// Default 1.
func WithSkipLevels(levels int) TilesetOption {
	return func(o *tilesetOptions) {
		o.skipLevels = levels
	}
}

// WithLoadSiblings forces loading of culled sibling tiles so that
// rotating the camera reveals already-loaded content. Default false.
func WithLoadSiblings(load bool) TilesetOption {
	return func(o *tilesetOptions) {
		o.loadSiblings = load
	}
}

// WithMaximumMemoryUsage sets the content cache budget in bytes used by
// UnloadTiles. Default 512 MiB.
func WithMaximumMemoryUsage(bytes int64) TilesetOption {
	return func(o *tilesetOptions) {
		o.maximumMemoryUsage = bytes
	}
}

// WithGeometricError sets the tileset-level geometric error used when
// evaluating the root tile. DecodeTileset fills this from the manifest;
// hand-built trees set it here. Default 0.
func WithGeometricError(err float64) TilesetOption {
	return func(o *tilesetOptions) {
		o.geometricError = err
	}
}

// WithPriorityFunc sets the function computing a tile's raw load
// priority. Smaller values load first. Default DistancePriority.
func WithPriorityFunc(fn PriorityFunc) TilesetOption {
	return func(o *tilesetOptions) {
		if fn != nil {
			o.priorityFunc = fn
		}
	}
}
