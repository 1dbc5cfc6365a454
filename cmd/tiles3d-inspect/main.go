// Command tiles3d-inspect decodes a tileset manifest and prints the
// shape of its tile tree.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/tiles3d"
)

func main() {
	var (
		path    = flag.String("tileset", "tileset.json", "tileset manifest to inspect")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		tiles3d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("Failed to open tileset: %v", err)
	}
	defer f.Close()

	ts, err := tiles3d.DecodeTileset(f)
	if err != nil {
		log.Fatalf("Failed to decode tileset: %v", err)
	}

	var (
		total    int
		empty    int
		external int
		additive int
		maxDepth int
		leaves   int
		perDepth = map[int]int{}
	)
	walk(ts.Root(), func(t *tiles3d.Tile) {
		total++
		perDepth[t.Depth]++
		if t.Depth > maxDepth {
			maxDepth = t.Depth
		}
		if len(t.Children) == 0 {
			leaves++
		}
		if t.HasEmptyContent {
			empty++
		}
		if t.HasTilesetContent {
			external++
		}
		if t.Refine == tiles3d.RefineAdd {
			additive++
		}
	})

	fmt.Printf("%s\n", *path)
	fmt.Printf("  geometric error: %.2f\n", ts.GeometricError())
	fmt.Printf("  tiles:           %d (%d leaves)\n", total, leaves)
	fmt.Printf("  depth:           %d\n", maxDepth)
	fmt.Printf("  empty:           %d\n", empty)
	fmt.Printf("  external roots:  %d\n", external)
	fmt.Printf("  additive refine: %d\n", additive)
	for d := 0; d <= maxDepth; d++ {
		fmt.Printf("  level %2d: %d tiles\n", d, perDepth[d])
	}
}

// walk visits every tile in the tree, parents first.
func walk(root *tiles3d.Tile, visit func(*tiles3d.Tile)) {
	stack := []*tiles3d.Tile{root}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(t)
		stack = append(stack, t.Children...)
	}
}
