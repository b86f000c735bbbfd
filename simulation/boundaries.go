package simulation

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// BoundaryType classifies the relative motion of two plates along their border
type BoundaryType int

const (
	Convergent BoundaryType = iota // plates moving toward each other
	Divergent                      // plates moving apart
	Transform                      // plates sliding past
)

func (t BoundaryType) String() string {
	switch t {
	case Convergent:
		return "convergent"
	case Divergent:
		return "divergent"
	case Transform:
		return "transform"
	default:
		return "unknown"
	}
}

// transformTolerance is the relative speed along the border normal below
// which a boundary counts as transform
const transformTolerance = 1e-3

// PlateBoundary is the set of points where PlateA touches PlateB (PlateA < PlateB)
type PlateBoundary struct {
	PlateA       int
	PlateB       int
	Type         BoundaryType
	EdgeVertices []int
}

// SurfaceVelocity is the tangential displacement per step of a point
// rotating with the given axis and speed
func SurfaceVelocity(axis mgl64.Vec3, speed float64, pos mgl64.Vec3) mgl64.Vec3 {
	return axis.Cross(pos).Mul(speed)
}

// Boundaries finds every pair of plates joined by a simulation edge and
// classifies it by the mean closing speed across the joining edges.
// The result is sorted by (PlateA, PlateB).
func (s *PlateSimulation) Boundaries() []PlateBoundary {
	type accum struct {
		vertices map[int]bool
		closing  float64
		edges    int
	}
	found := make(map[[2]int]*accum)

	for i, p := range s.Points {
		plateI := s.owners[i]
		for _, j := range p.Neighbors {
			plateJ := s.owners[j]
			// visit each edge once, from the lower plate side
			if plateI >= plateJ {
				continue
			}

			key := [2]int{plateI, plateJ}
			a, exists := found[key]
			if !exists {
				a = &accum{vertices: make(map[int]bool)}
				found[key] = a
			}
			a.vertices[i] = true
			a.vertices[j] = true

			pi, pj := s.Points[i], s.Points[j]
			vi := SurfaceVelocity(s.Plates[plateI].Axis, pi.Speed, pi.Position)
			vj := SurfaceVelocity(s.Plates[plateJ].Axis, pj.Speed, pj.Position)
			direction := pj.Position.Sub(pi.Position)
			if l := direction.Len(); l > 0 {
				// positive when i moves toward j faster than j retreats
				a.closing += vi.Sub(vj).Dot(direction.Mul(1 / l))
			}
			a.edges++
		}
	}

	boundaries := make([]PlateBoundary, 0, len(found))
	for key, a := range found {
		vertices := make([]int, 0, len(a.vertices))
		for v := range a.vertices {
			vertices = append(vertices, v)
		}
		sort.Ints(vertices)

		boundaries = append(boundaries, PlateBoundary{
			PlateA:       key[0],
			PlateB:       key[1],
			Type:         classifyBoundary(a.closing / float64(a.edges)),
			EdgeVertices: vertices,
		})
	}

	sort.Slice(boundaries, func(i, j int) bool {
		if boundaries[i].PlateA != boundaries[j].PlateA {
			return boundaries[i].PlateA < boundaries[j].PlateA
		}
		return boundaries[i].PlateB < boundaries[j].PlateB
	})
	return boundaries
}

func classifyBoundary(closing float64) BoundaryType {
	if closing > transformTolerance {
		return Convergent
	} else if closing < -transformTolerance {
		return Divergent
	}
	return Transform
}
