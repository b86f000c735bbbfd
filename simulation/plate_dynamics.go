package simulation

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"platesphere/core"
)

// closenessThreshold is the dot product below which two points do not
// influence each other's convergence
const closenessThreshold = 0.5

// PlatePoint is a simulation vertex. Speed starts at the owning plate's
// speed and is damped independently every step.
type PlatePoint struct {
	Position  mgl64.Vec3
	Neighbors []int
	Speed     float64
}

// PlateSimulation moves plates over a coarse icosphere
type PlateSimulation struct {
	Points []PlatePoint
	Plates []Plate

	initialEdgeLength float64
	owners            []int
	stepsTaken        int
	pool              *rangePool
}

// Option configures a PlateSimulation
type Option func(*PlateSimulation)

// WithWorkers spreads the convergence and height passes over n workers.
// Results are identical to the sequential run.
func WithWorkers(n int) Option {
	return func(s *PlateSimulation) {
		s.pool = newRangePool(n)
	}
}

// NewPlateSimulation captures the mesh vertices and their neighbors, splits
// them into plateCount plates and seeds each point's speed from its plate.
func NewPlateSimulation(mesh *core.Mesh, plateCount int, rng Rand, opts ...Option) (*PlateSimulation, error) {
	if len(mesh.Edges) == 0 {
		return nil, fmt.Errorf("%w: simulation mesh has no edges", core.ErrGeometry)
	}

	points := make([]PlatePoint, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		points[i] = PlatePoint{
			Position:  v.Position,
			Neighbors: mesh.Neighbors(i),
			Speed:     1.0,
		}
	}

	neighbors := make([][]int, len(points))
	for i := range points {
		neighbors[i] = points[i].Neighbors
	}

	plates, err := partitionGraph(neighbors, len(mesh.Faces), plateCount, rng)
	if err != nil {
		return nil, err
	}

	for _, plate := range plates {
		for _, idx := range plate.VertexIndices {
			points[idx].Speed = plate.Speed
		}
	}

	s := &PlateSimulation{
		Points:            points,
		Plates:            plates,
		initialEdgeLength: mesh.EdgeLength(0),
		owners:            PlateOwners(plates, len(points)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Step rotates every plate, measures convergence and damps point speeds
func (s *PlateSimulation) Step() {
	for _, plate := range s.Plates {
		for _, idx := range plate.VertexIndices {
			p := &s.Points[idx]
			p.Position = RotateAboutAxis(p.Position, plate.Axis, p.Speed)
		}
	}

	closeness := s.averageCloseness()
	for i := range s.Points {
		s.Points[i].Speed *= 1 - closeness[i]/s.initialEdgeLength
	}

	s.stepsTaken++
}

// Simulate runs steps sequential steps
func (s *PlateSimulation) Simulate(steps int) {
	for i := 0; i < steps; i++ {
		s.Step()
	}
}

// averageCloseness returns, per point, the mean over all points of
// max(dot, threshold) - threshold. Points more than 60° apart contribute zero.
func (s *PlateSimulation) averageCloseness() []float64 {
	n := len(s.Points)
	closeness := make([]float64, n)

	s.pool.forEachRange(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			pos := s.Points[i].Position
			sum := 0.0
			for j := range s.Points {
				if dot := pos.Dot(s.Points[j].Position); dot > closenessThreshold {
					sum += dot - closenessThreshold
				}
			}
			closeness[i] = sum / float64(n)
		}
	})

	return closeness
}

// InitialEdgeLength is the length of the first mesh edge before any step
func (s *PlateSimulation) InitialEdgeLength() float64 {
	return s.initialEdgeLength
}

// StepsTaken counts completed steps
func (s *PlateSimulation) StepsTaken() int {
	return s.stepsTaken
}

// PlateOf returns the plate index owning a simulation point
func (s *PlateSimulation) PlateOf(pointIdx int) int {
	return s.owners[pointIdx]
}

// Positions returns a copy of the current point positions
func (s *PlateSimulation) Positions() []mgl64.Vec3 {
	positions := make([]mgl64.Vec3, len(s.Points))
	for i, p := range s.Points {
		positions[i] = p.Position
	}
	return positions
}

// MotionVector is a point's current position and where its next step would take it
type MotionVector struct {
	Plate int
	From  mgl64.Vec3
	To    mgl64.Vec3
}

// MotionVectors lists every point, grouped by plate in plate order
func (s *PlateSimulation) MotionVectors() []MotionVector {
	vectors := make([]MotionVector, 0, len(s.Points))
	for plateIdx, plate := range s.Plates {
		for _, idx := range plate.VertexIndices {
			p := s.Points[idx]
			vectors = append(vectors, MotionVector{
				Plate: plateIdx,
				From:  p.Position,
				To:    RotateAboutAxis(p.Position, plate.Axis, p.Speed),
			})
		}
	}
	return vectors
}

// NearestPoint returns the simulation point with the largest dot product
// against dir. Ties go to the lower index.
func (s *PlateSimulation) NearestPoint(dir mgl64.Vec3) int {
	best, bestDot := 0, s.Points[0].Position.Dot(dir)
	for i := 1; i < len(s.Points); i++ {
		if dot := s.Points[i].Position.Dot(dir); dot > bestDot {
			best, bestDot = i, dot
		}
	}
	return best
}
