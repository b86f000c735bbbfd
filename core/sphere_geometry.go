package core

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DedupEpsilon is the grid spacing used to merge coincident vertices
	DedupEpsilon = 1e-5
	// MaxDetailLevel bounds subdivision; level 8 is 1,310,720 faces
	MaxDetailLevel = 8
)

// vertexKey is a position snapped to the DedupEpsilon grid. Snapping gives the
// lookup map exact equality instead of an epsilon comparison.
type vertexKey [3]int64

func keyFor(p mgl64.Vec3) vertexKey {
	return vertexKey{
		int64(math.Round(p[0] / DedupEpsilon)),
		int64(math.Round(p[1] / DedupEpsilon)),
		int64(math.Round(p[2] / DedupEpsilon)),
	}
}

// meshBuilder appends vertices and edges to a mesh, reusing any that already exist
type meshBuilder struct {
	mesh     *Mesh
	vertices map[vertexKey]int
	edges    map[[2]int]int
}

func newMeshBuilder(vertexCap, edgeCap, faceCap int) *meshBuilder {
	return &meshBuilder{
		mesh: &Mesh{
			Vertices: make([]Vertex, 0, vertexCap),
			Edges:    make([]Edge, 0, edgeCap),
			Faces:    make([]Face, 0, faceCap),
		},
		vertices: make(map[vertexKey]int, vertexCap),
		edges:    make(map[[2]int]int, edgeCap),
	}
}

func (b *meshBuilder) addVertex(p mgl64.Vec3) int {
	key := keyFor(p)
	if idx, exists := b.vertices[key]; exists {
		return idx
	}
	b.mesh.Vertices = append(b.mesh.Vertices, Vertex{Position: p})
	idx := len(b.mesh.Vertices) - 1
	b.vertices[key] = idx
	return idx
}

func (b *meshBuilder) addEdge(v1, v2 int) int {
	e := newEdge(v1, v2)
	if idx, exists := b.edges[e.VertexIndices]; exists {
		return idx
	}
	b.mesh.Edges = append(b.mesh.Edges, e)
	idx := len(b.mesh.Edges) - 1
	b.edges[e.VertexIndices] = idx
	return idx
}

func (b *meshBuilder) addFace(v0, v1, v2 int) {
	b.mesh.Faces = append(b.mesh.Faces, Face{
		VertexIndices: [3]int{v0, v1, v2},
		EdgeIndices:   [3]int{b.addEdge(v0, v1), b.addEdge(v1, v2), b.addEdge(v2, v0)},
	})
}

// BuildIcosahedron returns the unit icosahedron with populated adjacency
func BuildIcosahedron() *Mesh {
	// Golden ratio
	phi := (1.0 + math.Sqrt(5.0)) / 2.0
	du := 1.0 / math.Sqrt(phi*phi+1.0)
	dv := phi * du

	positions := []mgl64.Vec3{
		{0, dv, du}, {0, dv, -du}, {0, -dv, du}, {0, -dv, -du},
		{du, 0, dv}, {-du, 0, dv}, {du, 0, -dv}, {-du, 0, -dv},
		{dv, du, 0}, {dv, -du, 0}, {-dv, du, 0}, {-dv, -du, 0},
	}

	edges := [][2]int{
		{0, 1}, {0, 4}, {0, 5}, {0, 8}, {0, 10},
		{1, 6}, {1, 7}, {1, 8}, {1, 10}, {2, 3},
		{2, 4}, {2, 5}, {2, 9}, {2, 11}, {3, 6},
		{3, 7}, {3, 9}, {3, 11}, {4, 5}, {4, 8},
		{4, 9}, {5, 10}, {5, 11}, {6, 7}, {6, 8},
		{6, 9}, {7, 10}, {7, 11}, {8, 9}, {10, 11},
	}

	// vertex triple, then edge triple
	faces := [][6]int{
		{0, 1, 8, 0, 7, 3},
		{0, 4, 5, 1, 18, 2},
		{0, 5, 10, 2, 21, 4},
		{0, 8, 4, 3, 19, 1},
		{0, 10, 1, 4, 8, 0},
		{1, 6, 8, 5, 24, 7},
		{1, 7, 6, 6, 23, 5},
		{1, 10, 7, 8, 26, 6},
		{2, 3, 11, 9, 17, 13},
		{2, 4, 9, 10, 20, 12},
		{2, 5, 4, 11, 18, 10},
		{2, 9, 3, 12, 16, 9},
		{2, 11, 5, 13, 22, 11},
		{3, 6, 7, 14, 23, 15},
		{3, 7, 11, 15, 27, 17},
		{3, 9, 6, 16, 25, 14},
		{4, 8, 9, 19, 28, 20},
		{5, 11, 10, 22, 29, 21},
		{6, 9, 8, 25, 28, 24},
		{7, 10, 11, 26, 29, 27},
	}

	mesh := &Mesh{
		Vertices: make([]Vertex, len(positions)),
		Edges:    make([]Edge, len(edges)),
		Faces:    make([]Face, len(faces)),
	}
	for i, p := range positions {
		mesh.Vertices[i] = Vertex{Position: p}
	}
	for i, e := range edges {
		mesh.Edges[i] = newEdge(e[0], e[1])
	}
	for i, f := range faces {
		mesh.Faces[i] = Face{
			VertexIndices: [3]int{f[0], f[1], f[2]},
			EdgeIndices:   [3]int{f[3], f[4], f[5]},
		}
	}

	mesh.linkAdjacency()
	return mesh
}

// sphereMidpoint returns the midpoint of a and b pushed back onto the unit sphere
func sphereMidpoint(a, b mgl64.Vec3) mgl64.Vec3 {
	return a.Add(b).Mul(0.5).Normalize()
}

// Refine splits every face into four. Original vertices keep their indices;
// midpoints and edges shared by neighboring faces are created once.
// The input must be a closed triangle mesh on the unit sphere.
func Refine(mesh *Mesh) *Mesh {
	b := newMeshBuilder(
		len(mesh.Vertices)+len(mesh.Edges),
		2*len(mesh.Edges)+3*len(mesh.Faces),
		4*len(mesh.Faces),
	)

	for _, v := range mesh.Vertices {
		b.addVertex(v.Position)
	}

	for faceIdx := range mesh.Faces {
		p := mesh.FaceCorners(faceIdx)

		v0 := b.addVertex(p[0])
		v1 := b.addVertex(p[1])
		v2 := b.addVertex(p[2])

		m01 := b.addVertex(sphereMidpoint(p[0], p[1]))
		m12 := b.addVertex(sphereMidpoint(p[1], p[2]))
		m20 := b.addVertex(sphereMidpoint(p[2], p[0]))

		b.addFace(v0, m01, m20)
		b.addFace(v1, m12, m01)
		b.addFace(v2, m20, m12)
		b.addFace(m01, m12, m20)
	}

	b.mesh.linkAdjacency()
	return b.mesh
}

// CheckDetailLevel rejects subdivision levels outside [0, MaxDetailLevel]
func CheckDetailLevel(level int) error {
	if level < 0 || level > MaxDetailLevel {
		return fmt.Errorf("%w: detail level %d outside [0, %d]", ErrConfiguration, level, MaxDetailLevel)
	}
	return nil
}

// MakeSphere builds an icosphere refined detailLevel times
func MakeSphere(detailLevel int) (*Mesh, error) {
	if err := CheckDetailLevel(detailLevel); err != nil {
		return nil, err
	}

	mesh := BuildIcosahedron()
	for i := 0; i < detailLevel; i++ {
		mesh = Refine(mesh)
	}
	return mesh, nil
}

// FaceCount returns the number of faces of an icosphere at the given level
func FaceCount(level int) int {
	return 20 << (2 * uint(level))
}

// EdgeCount returns the number of edges of an icosphere at the given level
func EdgeCount(level int) int {
	return 30 << (2 * uint(level))
}

// VertexCount returns the number of vertices of an icosphere at the given level
func VertexCount(level int) int {
	return (10 << (2 * uint(level))) + 2
}

// Validate checks the closed genus-0 invariants: Euler characteristic 2,
// two faces per edge, and face edges that match face vertices.
func (m *Mesh) Validate() error {
	if chi := len(m.Vertices) - len(m.Edges) + len(m.Faces); chi != 2 {
		return fmt.Errorf("%w: euler characteristic %d (V=%d E=%d F=%d)",
			ErrGeometry, chi, len(m.Vertices), len(m.Edges), len(m.Faces))
	}

	for i, e := range m.Edges {
		if len(e.FaceIndices) != 2 {
			return fmt.Errorf("%w: edge %d has %d faces", ErrGeometry, i, len(e.FaceIndices))
		}
		if e.VertexIndices[0] >= e.VertexIndices[1] {
			return fmt.Errorf("%w: edge %d endpoints %v not canonical", ErrGeometry, i, e.VertexIndices)
		}
	}

	for i, f := range m.Faces {
		for j := 0; j < 3; j++ {
			want := newEdge(f.VertexIndices[j], f.VertexIndices[(j+1)%3]).VertexIndices
			if got := m.Edges[f.EdgeIndices[j]].VertexIndices; got != want {
				return fmt.Errorf("%w: face %d edge %d joins %v, want %v", ErrGeometry, i, j, got, want)
			}
		}
	}

	return nil
}
