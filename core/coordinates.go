package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Geographic is a position on the planet. Y points to the north pole, X to
// 0° longitude at the equator and Z to 90°E.
type Geographic struct {
	Lat float64 // radians [-π/2, π/2], positive = north
	Lon float64 // radians [-π, π], positive = east
	Alt float64 // radius above the unit sphere
}

// LocalVelocity is a displacement in the north/east/up frame at a position
type LocalVelocity struct {
	North float64
	East  float64
	Up    float64
}

// ToGeographic converts a mesh position to latitude, longitude and altitude
func ToGeographic(p mgl64.Vec3) Geographic {
	r := p.Len()

	// origin has no direction
	if r < 1e-10 {
		return Geographic{Alt: -1}
	}

	return Geographic{
		Lat: math.Asin(mgl64.Clamp(p[1]/r, -1, 1)),
		Lon: math.Atan2(p[2], p[0]),
		Alt: r - 1,
	}
}

// FromGeographic converts back to a mesh position
func FromGeographic(g Geographic) mgl64.Vec3 {
	r := 1 + g.Alt
	cosLat := math.Cos(g.Lat)
	return mgl64.Vec3{
		r * cosLat * math.Cos(g.Lon),
		r * math.Sin(g.Lat),
		r * cosLat * math.Sin(g.Lon),
	}
}

// ToLocalVelocity projects a Cartesian displacement onto the local frame at pos
func ToLocalVelocity(v mgl64.Vec3, pos Geographic) LocalVelocity {
	sinLat, cosLat := math.Sin(pos.Lat), math.Cos(pos.Lat)
	sinLon, cosLon := math.Sin(pos.Lon), math.Cos(pos.Lon)

	north := mgl64.Vec3{-sinLat * cosLon, cosLat, -sinLat * sinLon}
	east := mgl64.Vec3{-sinLon, 0, cosLon}
	up := mgl64.Vec3{cosLat * cosLon, sinLat, cosLat * sinLon}

	return LocalVelocity{
		North: v.Dot(north),
		East:  v.Dot(east),
		Up:    v.Dot(up),
	}
}

// Bearing is the compass heading of the horizontal part, in degrees from
// north toward east
func (v LocalVelocity) Bearing() float64 {
	deg := mgl64.RadToDeg(math.Atan2(v.East, v.North))
	if deg < 0 {
		deg += 360
	}
	return deg
}
