package core

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

func toS2Point(v mgl64.Vec3) s2.Point {
	return s2.PointFromCoords(v[0], v[1], v[2])
}

// SphericalArea returns the area of the face projected onto the unit sphere,
// in steradians. Radial displacement of the corners does not change it.
func (m *Mesh) SphericalArea(faceIdx int) float64 {
	c := m.FaceCorners(faceIdx)
	return s2.PointArea(toS2Point(c[0]), toS2Point(c[1]), toS2Point(c[2]))
}

// SurfaceArea sums SphericalArea over all faces. A closed mesh around the
// origin covers 4π.
func (m *Mesh) SurfaceArea() float64 {
	total := 0.0
	for i := range m.Faces {
		total += m.SphericalArea(i)
	}
	return total
}

// AngleBetween returns the great-circle angle between two directions, in radians
func AngleBetween(a, b mgl64.Vec3) float64 {
	return r3.Vector{X: a[0], Y: a[1], Z: a[2]}.Angle(r3.Vector{X: b[0], Y: b[1], Z: b[2]}).Radians()
}
