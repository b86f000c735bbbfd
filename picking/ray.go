package picking

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half line from Origin along Direction
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// TowardsCenter returns a unit ray from origin aimed at the world origin,
// the way an orbiting camera looks at the planet
func TowardsCenter(origin mgl64.Vec3) Ray {
	return Ray{
		Origin:    origin,
		Direction: origin.Mul(-1).Normalize(),
	}
}

// At returns the point at parameter t
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
