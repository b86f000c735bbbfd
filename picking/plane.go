package picking

import (
	"github.com/go-gl/mathgl/mgl64"
)

// parallelEpsilon is the smallest |dir·normal| treated as a crossing
const parallelEpsilon = 1e-9

// PlaneSide classifies a point against a plane
type PlaneSide int

const (
	Above PlaneSide = iota
	On
	Below
)

// Plane is the set of points p with Normal·p + D = 0. Normal is unit length.
type Plane struct {
	Normal mgl64.Vec3
	D      float64
}

// PlaneFromPoints returns the plane through a, b and c with normal
// (b-a)×(c-a). ok is false when the points are collinear.
func PlaneFromPoints(a, b, c mgl64.Vec3) (Plane, bool) {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Len()
	if l < 1e-15 {
		return Plane{}, false
	}
	n = n.Mul(1 / l)
	return Plane{Normal: n, D: -n.Dot(a)}, true
}

// Flipped returns the same plane facing the other way
func (p Plane) Flipped() Plane {
	return Plane{Normal: p.Normal.Mul(-1), D: -p.D}
}

// SignedDistance is positive on the side the normal points to
func (p Plane) SignedDistance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Side classifies point against the plane
func (p Plane) Side(point mgl64.Vec3) PlaneSide {
	dist := p.SignedDistance(point)
	switch {
	case dist > 0:
		return Above
	case dist < 0:
		return Below
	default:
		return On
	}
}

// Intersect returns where the ray's line crosses the plane and the ray
// parameter t of that point. ok is false when the ray runs parallel to the plane.
func (p Plane) Intersect(ray Ray) (mgl64.Vec3, float64, bool) {
	denom := ray.Direction.Dot(p.Normal)
	if denom > -parallelEpsilon && denom < parallelEpsilon {
		return mgl64.Vec3{}, 0, false
	}
	t := -(ray.Origin.Dot(p.Normal) + p.D) / denom
	return ray.At(t), t, true
}
