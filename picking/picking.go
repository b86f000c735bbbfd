package picking

import (
	"github.com/go-gl/mathgl/mgl64"

	"platesphere/core"
)

// IntersectTriangle returns the ray parameter where the ray enters the
// triangle abc. The crossing point lies inside when it is not below any of
// the three planes through the ray origin and a triangle edge, each facing
// the opposite corner. Crossings behind the origin do not count.
func IntersectTriangle(ray Ray, a, b, c mgl64.Vec3) (float64, bool) {
	plane, ok := PlaneFromPoints(a, b, c)
	if !ok {
		return 0, false
	}
	// face outward, away from the centroid's side of the origin
	if plane.Normal.Dot(a.Add(b).Add(c)) < 0 {
		plane = plane.Flipped()
	}

	// an origin in the triangle's plane makes every edge plane coincide with it
	if d := plane.SignedDistance(ray.Origin); d > -parallelEpsilon && d < parallelEpsilon {
		return 0, false
	}

	point, t, ok := plane.Intersect(ray)
	if !ok || t < 0 {
		return 0, false
	}

	corners := [3]mgl64.Vec3{a, b, c}
	for i := 0; i < 3; i++ {
		edge, ok := PlaneFromPoints(ray.Origin, corners[i], corners[(i+1)%3])
		if !ok {
			// origin on the edge's line; the ray can only graze the triangle
			return 0, false
		}
		if edge.Side(corners[(i+2)%3]) == Below {
			edge = edge.Flipped()
		}
		if edge.Side(point) == Below {
			return 0, false
		}
	}
	return t, true
}

// Pick returns the index of the nearest face the ray hits. Equal distances
// resolve to the lower face index. ok is false when nothing is hit.
func Pick(mesh *core.Mesh, ray Ray) (int, bool) {
	nearest, nearestT := -1, 0.0

	for i := range mesh.Faces {
		c := mesh.FaceCorners(i)
		t, hit := IntersectTriangle(ray, c[0], c[1], c[2])
		if !hit {
			continue
		}
		if nearest < 0 || t < nearestT {
			nearest, nearestT = i, t
		}
	}

	return nearest, nearest >= 0
}
