package simulation

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"platesphere/core"
)

// Rand is the random stream threaded through partitioning and plate
// generation. *rand.Rand from golang.org/x/exp/rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// uniform draws from [lo, hi)
func uniform(rng Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// randomAxis draws every component from a positive range, so the result
// never points at the origin.
func randomAxis(rng Rand) (mgl64.Vec3, error) {
	axis := mgl64.Vec3{
		uniform(rng, axisComponentMin, 1.0),
		uniform(rng, axisComponentMin, 1.0),
		uniform(rng, axisComponentMin, 1.0),
	}
	length := axis.Len()
	if length < 1e-12 {
		return mgl64.Vec3{}, fmt.Errorf("%w: random axis %v has zero length", core.ErrNumericDegeneracy, axis)
	}
	return axis.Mul(1 / length), nil
}

// RotateAboutAxis rotates v by angle radians about axis (right-handed).
// The length of v is preserved.
func RotateAboutAxis(v, axis mgl64.Vec3, angle float64) mgl64.Vec3 {
	return mgl64.QuatRotate(angle, axis.Normalize()).Rotate(v)
}
