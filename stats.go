package tiles3d

// Statistics holds per-frame selection counters. All counters describe
// the most recent SelectTiles call.
type Statistics struct {
	// Visited is the number of tiles visited by the traversal.
	Visited int

	// CulledWithChildrenUnion is the number of tiles culled because no
	// child was visible even though the tile itself was.
	CulledWithChildrenUnion int

	// Selected is the number of tiles selected for rendering.
	Selected int

	// SelectedToStyle is the number of selected tiles needing style
	// re-evaluation.
	SelectedToStyle int

	// Requested is the number of tiles queued for content loading.
	Requested int

	// Empty is the number of structural tiles encountered.
	Empty int
}

// reset clears all per-frame counters.
func (s *Statistics) reset() {
	*s = Statistics{}
}
