package simulation

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"platesphere/core"
)

const (
	axisComponentMin = 0.0001
	minPlateSpeed    = 0.01 // radians per step
	maxPlateSpeed    = 0.1
	heightDeviation  = 0.02

	unclaimed = -1
)

// Plate is a contiguous group of vertices that rotates rigidly about Axis
type Plate struct {
	VertexIndices []int
	Axis          mgl64.Vec3
	Speed         float64
	Height        float64
}

// Partition splits the mesh vertices into plateCount contiguous plates.
// The same rng stream always produces the same plates.
func Partition(mesh *core.Mesh, plateCount int, rng Rand) ([]Plate, error) {
	return partitionGraph(mesh.NeighborTable(), len(mesh.Faces), plateCount, rng)
}

func checkPlateCount(plateCount, faceCount, vertexCount int) error {
	if plateCount < 1 {
		return fmt.Errorf("%w: plate count must be positive, got %d", core.ErrConfiguration, plateCount)
	}
	if plateCount > faceCount {
		return fmt.Errorf("%w: cannot split %d faces into %d plates", core.ErrConfiguration, faceCount, plateCount)
	}
	if plateCount > vertexCount {
		return fmt.Errorf("%w: cannot seed %d plates on %d vertices", core.ErrConfiguration, plateCount, vertexCount)
	}
	return nil
}

func partitionGraph(neighbors [][]int, faceCount, plateCount int, rng Rand) ([]Plate, error) {
	if err := checkPlateCount(plateCount, faceCount, len(neighbors)); err != nil {
		return nil, err
	}

	owner := make([]int, len(neighbors))
	for i := range owner {
		owner[i] = unclaimed
	}

	members := seedPlates(rng, owner, plateCount)
	if err := floodFill(neighbors, owner, members); err != nil {
		return nil, err
	}

	plates := make([]Plate, len(members))
	for i, vertices := range members {
		plate, err := newRandomPlate(rng, vertices)
		if err != nil {
			return nil, err
		}
		plates[i] = plate
	}
	return plates, nil
}

// seedPlates picks one distinct random vertex per plate by rejection sampling
func seedPlates(rng Rand, owner []int, plateCount int) [][]int {
	members := make([][]int, 0, plateCount)
	for plateIdx := 0; plateIdx < plateCount; plateIdx++ {
		for {
			idx := rng.Intn(len(owner))
			if owner[idx] == unclaimed {
				owner[idx] = plateIdx
				members = append(members, []int{idx})
				break
			}
		}
	}
	return members
}

// floodFill grows every plate one ring per round. Plates take turns in index
// order, so a vertex reachable by two plates in the same round goes to the
// lower index.
func floodFill(neighbors [][]int, owner []int, members [][]int) error {
	filled := len(members)
	frontiers := make([][]int, len(members))
	for i := range members {
		frontiers[i] = append([]int(nil), members[i]...)
	}

	for filled < len(neighbors) {
		claimed := 0

		for plateIdx := range members {
			var next []int
			for _, pointIdx := range frontiers[plateIdx] {
				for _, nbr := range neighbors[pointIdx] {
					if owner[nbr] != unclaimed {
						continue
					}
					owner[nbr] = plateIdx
					members[plateIdx] = append(members[plateIdx], nbr)
					next = append(next, nbr)
					claimed++
				}
			}
			frontiers[plateIdx] = next
		}

		if claimed == 0 {
			return fmt.Errorf("%w: %d vertices unreachable from any plate seed", core.ErrGeometry, len(neighbors)-filled)
		}
		filled += claimed
	}
	return nil
}

func newRandomPlate(rng Rand, vertices []int) (Plate, error) {
	axis, err := randomAxis(rng)
	if err != nil {
		return Plate{}, err
	}
	return Plate{
		VertexIndices: vertices,
		Axis:          axis,
		Speed:         uniform(rng, minPlateSpeed, maxPlateSpeed),
		Height:        uniform(rng, 1.0-heightDeviation, 1.0+heightDeviation),
	}, nil
}

// PlateOwners maps every vertex index to the index of the plate holding it
func PlateOwners(plates []Plate, vertexCount int) []int {
	owners := make([]int, vertexCount)
	for i := range owners {
		owners[i] = unclaimed
	}
	for plateIdx, plate := range plates {
		for _, idx := range plate.VertexIndices {
			owners[idx] = plateIdx
		}
	}
	return owners
}
