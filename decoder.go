package tiles3d

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/segmentio/encoding/json"
)

// Decoder errors.
var (
	// ErrInvalidTileset reports a manifest that is not a usable tileset.
	ErrInvalidTileset = errors.New("tiles3d: invalid tileset")
)

// tilesetManifest mirrors the top level of a tileset.json document.
type tilesetManifest struct {
	Asset struct {
		Version string `json:"version"`
	} `json:"asset"`
	GeometricError float64       `json:"geometricError"`
	Root           *tileManifest `json:"root"`
}

// tileManifest mirrors one tile entry of a tileset.json document.
type tileManifest struct {
	BoundingVolume      *volumeManifest  `json:"boundingVolume"`
	ViewerRequestVolume *volumeManifest  `json:"viewerRequestVolume"`
	GeometricError      float64          `json:"geometricError"`
	Refine              string           `json:"refine"`
	Content             *contentManifest `json:"content"`
	Children            []*tileManifest  `json:"children"`
}

// contentManifest mirrors a tile's content entry. The uri key replaced
// url in tileset schema 1.0; both spellings occur in the wild.
type contentManifest struct {
	URI            string          `json:"uri"`
	URL            string          `json:"url"`
	BoundingVolume *volumeManifest `json:"boundingVolume"`
}

// uri returns the content location under either spelling.
func (c *contentManifest) uri() string {
	if c.URI != "" {
		return c.URI
	}
	return c.URL
}

// volumeManifest mirrors a bounding volume entry: a box (center plus
// three half-axes, 12 numbers) or a sphere (center plus radius).
type volumeManifest struct {
	Box    []float64 `json:"box"`
	Sphere []float64 `json:"sphere"`
}

// DecodeTileset decodes a tileset.json manifest into a ready-to-select
// Tileset. The manifest's own geometric error becomes the tileset-level
// error; the given options are applied after it and may override any
// setting, that error included.
func DecodeTileset(r io.Reader, opts ...TilesetOption) (*Tileset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("tiles3d: reading tileset: %w", err)
	}

	var manifest tilesetManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTileset, err)
	}
	if manifest.Root == nil {
		return nil, fmt.Errorf("%w: missing root tile", ErrInvalidTileset)
	}
	if v := manifest.Asset.Version; v != "" && v != "1.0" && v != "1.1" {
		logger().Warn("unrecognized tileset version", "version", v)
	}

	root, err := decodeTile(manifest.Root, nil, RefineReplace)
	if err != nil {
		return nil, err
	}

	opts = append([]TilesetOption{WithGeometricError(manifest.GeometricError)}, opts...)
	return NewTileset(root, opts...), nil
}

// decodeTile builds one tile and its subtree. Refine mode is inherited
// from the parent when a tile omits it.
func decodeTile(m *tileManifest, parent *Tile, inherited RefineMode) (*Tile, error) {
	bounds, err := decodeVolume(m.BoundingVolume)
	if err != nil {
		return nil, err
	}
	if bounds == nil {
		return nil, fmt.Errorf("%w: tile without bounding volume", ErrInvalidTileset)
	}

	refine := inherited
	switch strings.ToUpper(m.Refine) {
	case "":
		// Inherited.
	case "ADD":
		refine = RefineAdd
	case "REPLACE":
		refine = RefineReplace
	default:
		return nil, fmt.Errorf("%w: unknown refine mode %q", ErrInvalidTileset, m.Refine)
	}

	tile := NewTile(bounds, m.GeometricError, refine)

	if m.ViewerRequestVolume != nil {
		vrv, err := decodeVolume(m.ViewerRequestVolume)
		if err != nil {
			return nil, err
		}
		tile.ViewerRequestVolume = vrv
	}

	if m.Content != nil && m.Content.uri() != "" {
		tile.ContentURI = m.Content.uri()
		tile.HasTilesetContent = strings.HasSuffix(
			strings.ToLower(tile.ContentURI), ".json")
		if m.Content.BoundingVolume != nil {
			cb, err := decodeVolume(m.Content.BoundingVolume)
			if err != nil {
				return nil, err
			}
			tile.ContentBounds = cb
		}
	} else {
		tile.HasEmptyContent = true
	}

	if parent != nil {
		parent.AddChild(tile)
	}

	for _, childManifest := range m.Children {
		if _, err := decodeTile(childManifest, tile, refine); err != nil {
			return nil, err
		}
	}

	tile.ChildrenWithinParent = childrenWithinParent(tile)
	return tile, nil
}

// decodeVolume converts a manifest bounding volume. Boxes become
// axis-aligned boxes enclosing the oriented box; spheres map directly.
func decodeVolume(m *volumeManifest) (Volume, error) {
	if m == nil {
		return nil, nil
	}
	switch {
	case len(m.Sphere) == 4:
		return NewBoundingSphere(
			V3(m.Sphere[0], m.Sphere[1], m.Sphere[2]), m.Sphere[3]), nil
	case len(m.Sphere) != 0:
		return nil, fmt.Errorf("%w: sphere volume needs 4 numbers, got %d",
			ErrInvalidTileset, len(m.Sphere))
	case len(m.Box) == 12:
		center := V3(m.Box[0], m.Box[1], m.Box[2])
		// Extent along each axis is the sum of the half-axes'
		// contributions, which encloses any orientation.
		extent := Vec3{
			X: math.Abs(m.Box[3]) + math.Abs(m.Box[6]) + math.Abs(m.Box[9]),
			Y: math.Abs(m.Box[4]) + math.Abs(m.Box[7]) + math.Abs(m.Box[10]),
			Z: math.Abs(m.Box[5]) + math.Abs(m.Box[8]) + math.Abs(m.Box[11]),
		}
		return NewAABB(center.Sub(extent), center.Add(extent)), nil
	case len(m.Box) != 0:
		return nil, fmt.Errorf("%w: box volume needs 12 numbers, got %d",
			ErrInvalidTileset, len(m.Box))
	default:
		return nil, fmt.Errorf("%w: unsupported bounding volume", ErrInvalidTileset)
	}
}

// childrenWithinParent reports whether every child's enclosing sphere
// fits inside the tile's, which makes the children-union cull safe.
func childrenWithinParent(t *Tile) bool {
	if len(t.Children) == 0 {
		return false
	}
	center := t.Bounds.Center()
	radius := t.Bounds.Radius()
	for _, child := range t.Children {
		d := child.Bounds.Center().Sub(center).Length()
		if d+child.Bounds.Radius() > radius*1.0001 {
			return false
		}
	}
	return true
}
