package tiles3d

import (
	"errors"
	"strings"
	"testing"
)

const sampleTileset = `{
	"asset": {"version": "1.1"},
	"geometricError": 500,
	"root": {
		"boundingVolume": {"box": [0, 0, 0, 100, 0, 0, 0, 100, 0, 0, 0, 100]},
		"geometricError": 100,
		"refine": "REPLACE",
		"content": {"uri": "root.b3dm"},
		"children": [
			{
				"boundingVolume": {"sphere": [0, 50, 0, 60]},
				"geometricError": 20,
				"content": {"uri": "north.b3dm"},
				"viewerRequestVolume": {"sphere": [0, 50, 0, 500]}
			},
			{
				"boundingVolume": {"sphere": [0, -50, 0, 60]},
				"geometricError": 20,
				"refine": "ADD",
				"content": {"url": "south.b3dm"}
			},
			{
				"boundingVolume": {"sphere": [50, 0, 0, 40]},
				"geometricError": 30,
				"content": {"uri": "east/tileset.json"}
			},
			{
				"boundingVolume": {"sphere": [-50, 0, 0, 40]},
				"geometricError": 30
			}
		]
	}
}`

func TestDecodeTileset(t *testing.T) {
	ts, err := DecodeTileset(strings.NewReader(sampleTileset))
	if err != nil {
		t.Fatalf("DecodeTileset() error: %v", err)
	}

	if got := ts.GeometricError(); got != 500 {
		t.Errorf("GeometricError() = %v, want 500", got)
	}

	root := ts.Root()
	if root == nil {
		t.Fatal("Root() = nil")
	}
	if root.GeometricError != 100 {
		t.Errorf("root.GeometricError = %v, want 100", root.GeometricError)
	}
	if root.Refine != RefineReplace {
		t.Errorf("root.Refine = %v, want Replace", root.Refine)
	}
	if _, ok := root.Bounds.(*AABB); !ok {
		t.Errorf("root.Bounds is %T, want *AABB from a box volume", root.Bounds)
	}
	if len(root.Children) != 4 {
		t.Fatalf("root has %d children, want 4", len(root.Children))
	}

	north, south, east, empty := root.Children[0], root.Children[1], root.Children[2], root.Children[3]

	if north.Refine != RefineReplace {
		t.Errorf("north.Refine = %v, want inherited Replace", north.Refine)
	}
	if north.ViewerRequestVolume == nil {
		t.Error("north.ViewerRequestVolume = nil, want decoded volume")
	}
	if north.Depth != 1 {
		t.Errorf("north.Depth = %d, want 1", north.Depth)
	}

	if south.Refine != RefineAdd {
		t.Errorf("south.Refine = %v, want Add", south.Refine)
	}
	if south.ContentURI != "south.b3dm" {
		t.Errorf("south.ContentURI = %q (legacy url key), want south.b3dm", south.ContentURI)
	}

	if !east.HasTilesetContent {
		t.Error("east.HasTilesetContent = false for a .json content uri")
	}
	if east.hasRenderableContent() {
		t.Error("external tileset pointer reports renderable content")
	}

	if !empty.HasEmptyContent {
		t.Error("contentless tile not marked HasEmptyContent")
	}
}

func TestDecodeTilesetBoxExtents(t *testing.T) {
	ts, err := DecodeTileset(strings.NewReader(sampleTileset))
	if err != nil {
		t.Fatalf("DecodeTileset() error: %v", err)
	}
	box, ok := ts.Root().Bounds.(*AABB)
	if !ok {
		t.Fatalf("root bounds is %T, want *AABB", ts.Root().Bounds)
	}
	if !box.Min.Approx(V3(-100, -100, -100), 1e-9) || !box.Max.Approx(V3(100, 100, 100), 1e-9) {
		t.Errorf("box = [%v, %v], want [-100..100] on each axis", box.Min, box.Max)
	}
}

func TestDecodeTilesetRefineInheritance(t *testing.T) {
	const manifest = `{
		"geometricError": 100,
		"root": {
			"boundingVolume": {"sphere": [0, 0, 0, 100]},
			"geometricError": 50,
			"refine": "ADD",
			"children": [
				{"boundingVolume": {"sphere": [0, 0, 0, 50]}, "geometricError": 10,
				 "children": [
					{"boundingVolume": {"sphere": [0, 0, 0, 25]}, "geometricError": 0}
				 ]}
			]
		}
	}`
	ts, err := DecodeTileset(strings.NewReader(manifest))
	if err != nil {
		t.Fatalf("DecodeTileset() error: %v", err)
	}
	child := ts.Root().Children[0]
	grandchild := child.Children[0]
	if child.Refine != RefineAdd || grandchild.Refine != RefineAdd {
		t.Errorf("refine = %v/%v, want Add inherited through the tree", child.Refine, grandchild.Refine)
	}
}

func TestDecodeTilesetChildrenWithinParent(t *testing.T) {
	const manifest = `{
		"geometricError": 100,
		"root": {
			"boundingVolume": {"sphere": [0, 0, 0, 100]},
			"geometricError": 50,
			"content": {"uri": "root.b3dm"},
			"children": [
				{"boundingVolume": {"sphere": [20, 0, 0, 30]}, "geometricError": 0, "content": {"uri": "a.b3dm"}},
				{"boundingVolume": {"sphere": [-20, 0, 0, 30]}, "geometricError": 0, "content": {"uri": "b.b3dm"}}
			]
		}
	}`
	ts, err := DecodeTileset(strings.NewReader(manifest))
	if err != nil {
		t.Fatalf("DecodeTileset() error: %v", err)
	}
	if !ts.Root().ChildrenWithinParent {
		t.Error("ChildrenWithinParent = false for contained children")
	}
	if ts.Root().Children[0].ChildrenWithinParent {
		t.Error("ChildrenWithinParent = true for a childless tile")
	}
}

func TestDecodeTilesetErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{"not json", `{{{`},
		{"missing root", `{"geometricError": 10}`},
		{"missing bounding volume", `{"root": {"geometricError": 10}}`},
		{"short sphere", `{"root": {"boundingVolume": {"sphere": [1, 2, 3]}, "geometricError": 10}}`},
		{"short box", `{"root": {"boundingVolume": {"box": [1, 2, 3]}, "geometricError": 10}}`},
		{"bad refine", `{"root": {"boundingVolume": {"sphere": [0, 0, 0, 1]}, "refine": "BLEND"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTileset(strings.NewReader(tt.manifest))
			if err == nil {
				t.Fatal("DecodeTileset() error = nil, want error")
			}
			if tt.name != "not json" && !errors.Is(err, ErrInvalidTileset) {
				t.Errorf("error %v does not wrap ErrInvalidTileset", err)
			}
		})
	}
}
