package tiles3d

import (
	"fmt"
	"testing"
)

// buildBenchmarkTree builds a complete tree with the given branching
// factor and depth, geometric error halving per level down to zero-error
// leaves, all content ready.
func buildBenchmarkTree(branching, depth int) *Tile {
	var build func(center Vec3, radius, geometricError float64, level int) *Tile
	build = func(center Vec3, radius, geometricError float64, level int) *Tile {
		tile := NewTile(NewBoundingSphere(center, radius), geometricError, RefineReplace)
		tile.MarkReady(1)
		if level == depth {
			tile.GeometricError = 0
			return tile
		}
		for i := 0; i < branching; i++ {
			offset := V3(radius/2, float64(i)*radius/float64(branching), 0)
			tile.AddChild(build(center.Add(offset), radius/2, geometricError/2, level+1))
		}
		return tile
	}
	return build(V3(500, 0, 0), 400, 512, 0)
}

func BenchmarkSelectTiles(b *testing.B) {
	shapes := []struct {
		branching int
		depth     int
	}{
		{2, 6},
		{4, 4},
		{8, 3},
	}

	for _, shape := range shapes {
		name := fmt.Sprintf("%dary_depth%d", shape.branching, shape.depth)
		b.Run(name, func(b *testing.B) {
			root := buildBenchmarkTree(shape.branching, shape.depth)
			ts := NewTileset(root, WithGeometricError(100000))
			fs := testFrameState(1)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				fs.FrameNumber++
				ts.SelectTiles(fs)
			}
		})
	}
}

func BenchmarkSelectTilesSkipLOD(b *testing.B) {
	root := buildBenchmarkTree(4, 4)
	ts := NewTileset(root,
		WithGeometricError(100000),
		WithSkipLevelOfDetail(true))
	fs := testFrameState(1)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		fs.FrameNumber++
		ts.SelectTiles(fs)
	}
}
