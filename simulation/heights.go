package simulation

import (
	"fmt"

	"platesphere/core"
)

const (
	// densityThreshold is the dot product a plate point needs to count toward
	// a render vertex's density
	densityThreshold = 0.1
	// DefaultElevation bounds the radius of every vertex to [1-e, 1+e]
	DefaultElevation = 1.0
)

// ApplyHeights displaces the render mesh by plate density with DefaultElevation
func ApplyHeights(mesh *core.Mesh, sim *PlateSimulation) error {
	return ApplyHeightsWithElevation(mesh, sim, DefaultElevation)
}

// ApplyHeightsWithElevation scales every render vertex radially by
// 1 + elevation*(delta - mid)/(range/2), where delta is the mean dot product
// against the plate points above densityThreshold. The densest vertex ends at
// 1+elevation times its radius and the sparsest at 1-elevation.
//
// A vertex with no plate point above the threshold fails the whole call with
// ErrNumericDegeneracy and leaves the mesh untouched. Equal density
// everywhere leaves the mesh untouched.
func ApplyHeightsWithElevation(mesh *core.Mesh, sim *PlateSimulation, elevation float64) error {
	if elevation <= 0 || elevation > 1 {
		return fmt.Errorf("%w: elevation %f outside (0, 1]", core.ErrConfiguration, elevation)
	}

	deltas := make([]float64, len(mesh.Vertices))
	counts := make([]int, len(mesh.Vertices))

	sim.pool.forEachRange(len(mesh.Vertices), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			pos := mesh.Vertices[i].Position
			delta, count := 0.0, 0
			for _, p := range sim.Points {
				if dot := pos.Dot(p.Position); dot > densityThreshold {
					delta += dot
					count++
				}
			}
			if count > 0 {
				delta /= float64(count)
			}
			deltas[i] = delta
			counts[i] = count
		}
	})

	for i, count := range counts {
		if count == 0 {
			return fmt.Errorf("%w: render vertex %d has no plate point within range", core.ErrNumericDegeneracy, i)
		}
	}
	if len(deltas) == 0 {
		return nil
	}

	minDelta, maxDelta := deltas[0], deltas[0]
	for _, d := range deltas[1:] {
		minDelta = min(minDelta, d)
		maxDelta = max(maxDelta, d)
	}

	spread := maxDelta - minDelta
	if spread < 1e-12 {
		return nil
	}

	half := (minDelta + maxDelta) / 2
	factor := 2.0 / spread * elevation
	for i := range mesh.Vertices {
		v := &mesh.Vertices[i]
		// clamp rounding below zero at the sparsest vertex when elevation is 1
		v.Position = v.Position.Mul(max(0, 1+(deltas[i]-half)*factor))
	}
	return nil
}
