package tiles3d

import (
	"math"
	"time"
)

// FrameState carries the per-frame camera and viewport data consumed by
// the selection engine. The caller fills one in each frame; FrameNumber
// must increase monotonically.
type FrameState struct {
	// FrameNumber identifies the frame. Per-tile frame stamps compare
	// against it, so reusing a frame number replays stale state.
	FrameNumber uint64

	// Time is the wall-clock time of the frame, used for content
	// expiration checks.
	Time time.Time

	// CameraPosition is the camera position in tileset coordinates.
	CameraPosition Vec3

	// CameraDirection is the normalized camera forward vector.
	CameraDirection Vec3

	// CullingVolume is the view frustum. An empty volume culls nothing.
	CullingVolume CullingVolume

	// ViewportHeight is the drawable height in pixels.
	ViewportHeight float64

	// FOVY is the vertical field of view in radians. Used together with
	// ViewportHeight to project geometric error to screen-space error.
	FOVY float64
}

// sseDenominator returns 2*tan(fovy/2), the perspective projection term of
// the screen-space error formula.
func (fs *FrameState) sseDenominator() float64 {
	return 2 * math.Tan(fs.FOVY*0.5)
}

// screenSpaceError projects a geometric error at the given distance.
// A zero geometric error projects to exactly 0, which the traversal treats
// as the "leaf, error not set" sentinel.
func (fs *FrameState) screenSpaceError(geometricError, distance float64) float64 {
	if geometricError == 0 {
		return 0
	}
	distance = math.Max(distance, 1e-7)
	return geometricError * fs.ViewportHeight / (distance * fs.sseDenominator())
}
