// Package world ties the icosphere, plate simulation, height mapping and
// picking together into a generated planet.
package world

import (
	"fmt"
	"hash/fnv"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/rand"

	"platesphere/core"
	"platesphere/picking"
	"platesphere/simulation"
)

// Params drive a single generation run
type Params struct {
	Seed        string
	PlateDetail int // subdivision level of the plate simulation sphere
	WorldDetail int // subdivision level of the rendered sphere
	PlateCount  int
	Steps       int
	Elevation   float64
	Workers     int // 0 or 1 runs every pass inline
}

// DefaultParams match the reference planet: seed "42", 10 plates over a
// level 2 sphere, 5 steps, rendered at level 3.
func DefaultParams() Params {
	return Params{
		Seed:        "42",
		PlateDetail: 2,
		WorldDetail: 3,
		PlateCount:  10,
		Steps:       5,
		Elevation:   simulation.DefaultElevation,
	}
}

// SeedFromText hashes seed text into the generator seed
func SeedFromText(text string) (uint64, error) {
	if text == "" {
		return 0, fmt.Errorf("%w: empty seed", core.ErrConfiguration)
	}
	h := fnv.New64a()
	h.Write([]byte(text))
	return h.Sum64(), nil
}

// World is a generated planet. Mesh is the displaced render mesh; the
// undisplaced copy is kept so heights can be re-derived after more steps.
type World struct {
	Params Params
	Mesh   *core.Mesh
	Sim    *simulation.PlateSimulation

	pristine *core.Mesh
	seed     uint64
}

// Generate builds both spheres, runs the plate simulation for Params.Steps
// and displaces the render mesh.
func Generate(params Params) (*World, error) {
	if params.Steps < 0 {
		return nil, fmt.Errorf("%w: negative step count %d", core.ErrConfiguration, params.Steps)
	}
	seed, err := SeedFromText(params.Seed)
	if err != nil {
		return nil, err
	}

	var plateMesh, renderMesh *core.Mesh
	err = timeIt("plate sphere", meshSoftLimit, func() error {
		var err error
		plateMesh, err = core.MakeSphere(params.PlateDetail)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("plate sphere: %w", err)
	}

	rng := rand.New(rand.NewSource(seed))
	sim, err := simulation.NewPlateSimulation(plateMesh, params.PlateCount, rng, simulation.WithWorkers(params.Workers))
	if err != nil {
		return nil, fmt.Errorf("plate simulation: %w", err)
	}
	log.Printf("Partitioned %d vertices into %d plates (seed %q)", len(sim.Points), len(sim.Plates), params.Seed)

	timeIt("simulate", simulateSoftLimit, func() error {
		sim.Simulate(params.Steps)
		return nil
	})

	err = timeIt("world sphere", meshSoftLimit, func() error {
		var err error
		renderMesh, err = core.MakeSphere(params.WorldDetail)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("world sphere: %w", err)
	}

	w := &World{
		Params:   params,
		Sim:      sim,
		pristine: renderMesh,
		seed:     seed,
	}
	if err := w.deriveHeights(); err != nil {
		return nil, err
	}
	return w, nil
}

// deriveHeights replaces Mesh with a freshly displaced copy of the pristine
// sphere. Mesh is unchanged on error.
func (w *World) deriveHeights() error {
	mesh := w.pristine.Clone()
	err := timeIt("heights", heightsSoftLimit, func() error {
		return simulation.ApplyHeightsWithElevation(mesh, w.Sim, w.Params.Elevation)
	})
	if err != nil {
		return fmt.Errorf("heights: %w", err)
	}
	w.Mesh = mesh
	return nil
}

// Advance runs more simulation steps and re-derives the heights
func (w *World) Advance(steps int) error {
	if steps < 0 {
		return fmt.Errorf("%w: negative step count %d", core.ErrConfiguration, steps)
	}
	w.Sim.Simulate(steps)
	log.Printf("Advanced %d steps (%d total)", steps, w.Sim.StepsTaken())
	return w.deriveHeights()
}

// Seed is the hashed generator seed
func (w *World) Seed() uint64 {
	return w.seed
}

// Pick returns the render face hit first by ray
func (w *World) Pick(ray picking.Ray) (int, bool) {
	return picking.Pick(w.Mesh, ray)
}

// FacePlates assigns each render face the plate of the simulation point
// nearest its first vertex
func (w *World) FacePlates() []int {
	plates := make([]int, len(w.pristine.Faces))
	for i, f := range w.pristine.Faces {
		dir := w.pristine.Vertices[f.VertexIndices[0]].Position
		plates[i] = w.Sim.PlateOf(w.Sim.NearestPoint(dir))
	}
	return plates
}

// PlateCoverage returns the fraction of the sphere's surface each plate covers
func (w *World) PlateCoverage() []float64 {
	coverage := make([]float64, len(w.Sim.Plates))
	total := 0.0
	for i, plate := range w.FacePlates() {
		area := w.pristine.SphericalArea(i)
		coverage[plate] += area
		total += area
	}
	if total > 0 {
		for i := range coverage {
			coverage[i] /= total
		}
	}
	return coverage
}

// FaceLocation is the geographic position of a render face's centroid
func (w *World) FaceLocation(face int) core.Geographic {
	return core.ToGeographic(w.Mesh.FaceCentroid(face))
}

// PlateDrift returns where a plate's points are centred and their mean
// surface velocity in the local frame there
func (w *World) PlateDrift(plateIdx int) (core.Geographic, core.LocalVelocity) {
	plate := w.Sim.Plates[plateIdx]

	var center, velocity mgl64.Vec3
	for _, idx := range plate.VertexIndices {
		p := w.Sim.Points[idx]
		center = center.Add(p.Position)
		velocity = velocity.Add(simulation.SurfaceVelocity(plate.Axis, p.Speed, p.Position))
	}
	n := float64(len(plate.VertexIndices))

	pos := core.ToGeographic(center.Mul(1 / n))
	pos.Alt = 0
	return pos, core.ToLocalVelocity(velocity.Mul(1/n), pos)
}

// RadiusRange is the min and max vertex radius of the displaced mesh
func (w *World) RadiusRange() (float64, float64) {
	return w.Mesh.RadiusRange()
}
