package tiles3d

import (
	"math"
	"testing"
)

func TestBoundingSphereDistanceTo(t *testing.T) {
	s := NewBoundingSphere(V3(10, 0, 0), 3)

	if got := s.DistanceTo(V3(0, 0, 0)); math.Abs(got-7) > 1e-9 {
		t.Errorf("DistanceTo(origin) = %v, want 7", got)
	}
	if got := s.DistanceTo(V3(9, 0, 0)); got != 0 {
		t.Errorf("DistanceTo(inside point) = %v, want 0", got)
	}
}

func TestBoundingSphereVisibility(t *testing.T) {
	cv := &CullingVolume{Planes: []Plane{
		{Normal: V3(1, 0, 0), Distance: 0}, // inside: x >= 0
	}}

	tests := []struct {
		name   string
		center Vec3
		radius float64
		want   Visibility
	}{
		{"fully inside", V3(10, 0, 0), 5, VisibilityInside},
		{"straddling", V3(2, 0, 0), 5, VisibilityIntersecting},
		{"fully outside", V3(-10, 0, 0), 5, VisibilityOutside},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewBoundingSphere(tt.center, tt.radius)
			if got := s.Visibility(cv); got != tt.want {
				t.Errorf("Visibility() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEmptyCullingVolumeCullsNothing(t *testing.T) {
	cv := &CullingVolume{}
	s := NewBoundingSphere(V3(-1e9, 0, 0), 1)
	if got := s.Visibility(cv); got != VisibilityInside {
		t.Errorf("Visibility() = %v with no planes, want %v", got, VisibilityInside)
	}
}

func TestAABBDistanceTo(t *testing.T) {
	b := NewAABB(V3(0, 0, 0), V3(10, 10, 10))

	if got := b.DistanceTo(V3(5, 5, 5)); got != 0 {
		t.Errorf("DistanceTo(inside point) = %v, want 0", got)
	}
	if got := b.DistanceTo(V3(13, 5, 5)); math.Abs(got-3) > 1e-9 {
		t.Errorf("DistanceTo(face point) = %v, want 3", got)
	}
	want := math.Sqrt(3)
	if got := b.DistanceTo(V3(11, 11, 11)); math.Abs(got-want) > 1e-9 {
		t.Errorf("DistanceTo(corner point) = %v, want %v", got, want)
	}
}

func TestAABBCenterRadius(t *testing.T) {
	b := NewAABB(V3(-2, -2, -2), V3(2, 2, 2))
	if got := b.Center(); !got.IsZero() {
		t.Errorf("Center() = %v, want origin", got)
	}
	want := math.Sqrt(12)
	if got := b.Radius(); math.Abs(got-want) > 1e-9 {
		t.Errorf("Radius() = %v, want %v", got, want)
	}
}

func TestAABBVisibility(t *testing.T) {
	cv := &CullingVolume{Planes: []Plane{
		{Normal: V3(0, 1, 0), Distance: 0}, // inside: y >= 0
	}}

	tests := []struct {
		name     string
		min, max Vec3
		want     Visibility
	}{
		{"fully inside", V3(0, 5, 0), V3(1, 6, 1), VisibilityInside},
		{"straddling", V3(0, -1, 0), V3(1, 1, 1), VisibilityIntersecting},
		{"fully outside", V3(0, -6, 0), V3(1, -5, 1), VisibilityOutside},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewAABB(tt.min, tt.max)
			if got := b.Visibility(cv); got != tt.want {
				t.Errorf("Visibility() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisibilityString(t *testing.T) {
	tests := []struct {
		v    Visibility
		want string
	}{
		{VisibilityOutside, "Outside"},
		{VisibilityIntersecting, "Intersecting"},
		{VisibilityInside, "Inside"},
		{Visibility(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("Visibility(%d).String() = %q, want %q", int(tt.v), got, tt.want)
		}
	}
}
