package tiles3d

import (
	"sync/atomic"
	"time"
)

// RefineMode controls how a tile refines into its children.
type RefineMode int

const (
	// RefineReplace replaces the parent with its children once every
	// visible child is ready.
	RefineReplace RefineMode = iota

	// RefineAdd renders children on top of the parent.
	RefineAdd
)

// String returns the refine mode name.
func (m RefineMode) String() string {
	switch m {
	case RefineReplace:
		return "Replace"
	case RefineAdd:
		return "Add"
	default:
		return "Unknown"
	}
}

// ContentState tracks the lifecycle of a tile's content.
type ContentState int32

const (
	// ContentUnloaded means the content has never been loaded or was
	// unloaded by the cache.
	ContentUnloaded ContentState = iota

	// ContentLoading means a load request is in flight.
	ContentLoading

	// ContentReady means the content is resident and renderable.
	ContentReady

	// ContentFailed means the last load attempt failed.
	ContentFailed
)

// String returns the content state name.
func (s ContentState) String() string {
	switch s {
	case ContentUnloaded:
		return "Unloaded"
	case ContentLoading:
		return "Loading"
	case ContentReady:
		return "Ready"
	case ContentFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Tile is a node in the bounded-volume hierarchy.
//
// Structural fields are set once when the tree is built (by DecodeTileset
// or by hand via NewTile/AddChild) and must not change afterwards. The
// unexported scratch fields belong to the selection engine and are reset
// on every visit; external code must not rely on them mid-frame.
type Tile struct {
	// Parent is the tile's parent, nil for the root.
	Parent *Tile

	// Children are the tile's children in tree order. The traversal
	// reorders this slice by distance to camera each frame.
	Children []*Tile

	// Depth is the number of ancestors up to the root.
	Depth int

	// Refine controls how this tile refines into its children.
	Refine RefineMode

	// GeometricError is the error, in meters, introduced by rendering
	// this tile instead of its children. Zero means "leaf, not set".
	GeometricError float64

	// Bounds encloses the tile and all of its descendants.
	Bounds Volume

	// ContentBounds optionally encloses just this tile's content,
	// used for the final frustum check before selection. Falls back to
	// Bounds when nil.
	ContentBounds Volume

	// ViewerRequestVolume, when set, restricts loading and rendering of
	// this tile to cameras inside the volume.
	ViewerRequestVolume Volume

	// ContentURI locates the tile content. Empty for tiles with no
	// content of their own.
	ContentURI string

	// HasEmptyContent marks a structural tile with no content at all.
	HasEmptyContent bool

	// HasTilesetContent marks a tile whose content is the root of an
	// external tileset rather than renderable geometry.
	HasTilesetContent bool

	// ChildrenWithinParent marks that every child's bounds lie within this
	// tile's bounds, which lets a replace-refined tile be culled whenever
	// every child is. DecodeTileset computes it from the enclosing spheres;
	// builders of hand-made trees may set it.
	ChildrenWithinParent bool

	// ExpireDuration, when positive, expires loaded content after the
	// given duration so it is re-requested.
	ExpireDuration time.Duration

	// ContentByteLength is the resident size of loaded content, set by
	// the loader before MarkReady. Drives cache eviction.
	ContentByteLength int64

	// Content lifecycle.
	contentState           atomic.Int32
	contentExpired         bool
	expireAt               time.Time
	featurePropertiesDirty bool
	lastStyleTime          uint64

	// Per-frame geometry.
	distanceToCamera float64
	centerZDepth     float64
	screenSpaceError float64
	visible          bool
	inRequestVolume  bool

	// Per-frame traversal scratch.
	updatedVisibilityFrame       uint64
	priorityDistance             float64
	priorityDistanceHolder       *Tile
	wasMinChild                  bool
	refines                      bool
	finalResolution              bool
	shouldSelect                 bool
	selectionDepth               int
	stackLength                  int
	ancestorWithContent          *Tile
	ancestorWithContentAvailable *Tile
	visitedFrame                 uint64
	touchedFrame                 uint64
	selectedFrame                uint64
	requestedFrame               uint64
}

// NewTile creates a tile with the given bounds, geometric error, and
// refine mode. Tiles without a content URI should also set HasEmptyContent
// or HasTilesetContent as appropriate.
func NewTile(bounds Volume, geometricError float64, refine RefineMode) *Tile {
	t := &Tile{
		Bounds:         bounds,
		GeometricError: geometricError,
		Refine:         refine,
	}
	t.priorityDistanceHolder = t
	return t
}

// AddChild appends a child tile, wiring its parent link and depth.
func (t *Tile) AddChild(child *Tile) {
	child.Parent = t
	child.Depth = t.Depth + 1
	for _, grandchild := range child.Children {
		grandchild.renumber(child.Depth)
	}
	t.Children = append(t.Children, child)
}

// renumber fixes depths below a reattached subtree.
func (t *Tile) renumber(parentDepth int) {
	t.Depth = parentDepth + 1
	for _, child := range t.Children {
		child.renumber(t.Depth)
	}
}

// ContentState returns the current content lifecycle state.
func (t *Tile) ContentState() ContentState {
	return ContentState(t.contentState.Load())
}

// ContentAvailable reports whether the tile's content is resident and
// renderable. Structural tiles never have available content.
func (t *Tile) ContentAvailable() bool {
	return t.hasRenderableContent() && t.ContentState() == ContentReady
}

// ContentExpired reports whether loaded content has passed its expiry and
// should be re-requested. Expired content remains renderable until the
// refreshed content arrives.
func (t *Tile) ContentExpired() bool {
	return t.contentExpired
}

// hasRenderableContent reports whether the tile carries drawable geometry,
// as opposed to being empty or an external tileset pointer.
func (t *Tile) hasRenderableContent() bool {
	return !t.HasEmptyContent && !t.HasTilesetContent
}

// hasUnloadedContent reports whether there is content to request. External
// tileset pointers count: their manifest must be fetched like any content.
func (t *Tile) hasUnloadedContent() bool {
	return !t.HasEmptyContent && t.ContentState() == ContentUnloaded
}

// MarkLoading transitions the tile into the loading state. Call when a
// content request is dispatched.
func (t *Tile) MarkLoading() {
	t.contentState.Store(int32(ContentLoading))
}

// MarkReady transitions the tile into the ready state. byteLength is the
// resident content size used for cache accounting. Call when content has
// been decoded and is renderable.
func (t *Tile) MarkReady(byteLength int64) {
	t.ContentByteLength = byteLength
	t.contentExpired = false
	if t.ExpireDuration > 0 {
		t.expireAt = time.Now().Add(t.ExpireDuration)
	}
	t.contentState.Store(int32(ContentReady))
}

// MarkFailed transitions the tile into the failed state after a load error.
func (t *Tile) MarkFailed() {
	t.contentState.Store(int32(ContentFailed))
}

// Unload releases the tile's content, returning it to the unloaded state.
func (t *Tile) Unload() {
	t.contentExpired = false
	t.ContentByteLength = 0
	t.contentState.Store(int32(ContentUnloaded))
}

// updateExpiration flips ready content to expired once its expiry passes.
func (t *Tile) updateExpiration(now time.Time) {
	if t.ExpireDuration <= 0 || t.contentExpired {
		return
	}
	if t.ContentState() == ContentReady && now.After(t.expireAt) {
		t.contentExpired = true
	}
}

// MarkFeaturePropertiesDirty flags the tile's content for style
// re-evaluation on its next selection.
func (t *Tile) MarkFeaturePropertiesDirty() {
	t.featurePropertiesDirty = true
}

// LastStyleTime returns the style timestamp managed by the caller's style
// engine. Selection zeroes it to force a re-style of dirty content.
func (t *Tile) LastStyleTime() uint64 { return t.lastStyleTime }

// SetLastStyleTime records the style timestamp after a style evaluation.
func (t *Tile) SetLastStyleTime(v uint64) { t.lastStyleTime = v }

// isVisible reports whether the tile passed both the frustum and the
// viewer-request-volume checks this frame.
func (t *Tile) isVisible() bool {
	return t.visible && t.inRequestVolume
}

// DistanceToCamera returns the camera distance computed on the tile's
// last visit.
func (t *Tile) DistanceToCamera() float64 { return t.distanceToCamera }

// ScreenSpaceError returns the screen-space error computed on the tile's
// last visit.
func (t *Tile) ScreenSpaceError() float64 { return t.screenSpaceError }

// SelectionDepth returns the number of selected replace-refined ancestors
// above this tile in the current frame's selection. Valid for selected
// tiles under skip level-of-detail; drives stencil ordering.
func (t *Tile) SelectionDepth() int { return t.selectionDepth }

// FinalResolution reports whether the tile was selected at its desired
// resolution, as opposed to standing in for unloaded descendants.
func (t *Tile) FinalResolution() bool { return t.finalResolution }

// LoadPriority returns the tile's effective load priority. Smaller values
// load first. The value is inherited from the highest-urgency descendant
// through the priority holder chain, so callers should sort the requested
// list by it before dispatching.
func (t *Tile) LoadPriority() float64 {
	if t.priorityDistanceHolder != nil {
		return t.priorityDistanceHolder.priorityDistance
	}
	return t.priorityDistance
}

// refreshVisibility recomputes the tile's per-frame geometry: camera
// distance, center depth, screen-space error, frustum visibility, and the
// viewer-request-volume check.
func (t *Tile) refreshVisibility(fs *FrameState) {
	t.distanceToCamera = t.Bounds.DistanceTo(fs.CameraPosition)
	t.centerZDepth = t.Bounds.Center().Sub(fs.CameraPosition).Dot(fs.CameraDirection)
	t.screenSpaceError = fs.screenSpaceError(t.GeometricError, t.distanceToCamera)
	t.visible = t.Bounds.Visibility(&fs.CullingVolume) != VisibilityOutside
	t.inRequestVolume = t.ViewerRequestVolume == nil ||
		t.ViewerRequestVolume.DistanceTo(fs.CameraPosition) == 0
}

// contentVisibility classifies the tile's content bounds against the view
// frustum. Used as the final check before selection.
func (t *Tile) contentVisibility(fs *FrameState) Visibility {
	bounds := t.ContentBounds
	if bounds == nil {
		bounds = t.Bounds
	}
	return bounds.Visibility(&fs.CullingVolume)
}
