package core

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Vertex is a mesh corner with its incident edges and faces
type Vertex struct {
	Position    mgl64.Vec3
	EdgeIndices []int
	FaceIndices []int
}

// Edge joins two vertices; a closed mesh has exactly two faces per edge
type Edge struct {
	VertexIndices [2]int
	FaceIndices   []int
}

// Face is a triangle. Edge i runs from vertex i to vertex (i+1)%3.
type Face struct {
	VertexIndices [3]int
	EdgeIndices   [3]int
}

// Mesh is an indexed polyhedron. All cross references are indices into
// the owning slices.
type Mesh struct {
	Vertices []Vertex
	Edges    []Edge
	Faces    []Face
}

func newEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{VertexIndices: [2]int{a, b}}
}

// OtherEnd returns the endpoint of the edge that is not vertexIdx
func (e Edge) OtherEnd(vertexIdx int) int {
	if e.VertexIndices[0] == vertexIdx {
		return e.VertexIndices[1]
	}
	return e.VertexIndices[0]
}

// Neighbors returns the vertices sharing an edge with vertexIdx, in edge order
func (m *Mesh) Neighbors(vertexIdx int) []int {
	v := &m.Vertices[vertexIdx]
	neighbors := make([]int, 0, len(v.EdgeIndices))
	for _, edgeIdx := range v.EdgeIndices {
		neighbors = append(neighbors, m.Edges[edgeIdx].OtherEnd(vertexIdx))
	}
	return neighbors
}

// NeighborTable returns Neighbors for every vertex
func (m *Mesh) NeighborTable() [][]int {
	table := make([][]int, len(m.Vertices))
	for i := range m.Vertices {
		table[i] = m.Neighbors(i)
	}
	return table
}

// EdgeLength returns the chord length of an edge
func (m *Mesh) EdgeLength(edgeIdx int) float64 {
	e := m.Edges[edgeIdx]
	return m.Vertices[e.VertexIndices[0]].Position.Sub(m.Vertices[e.VertexIndices[1]].Position).Len()
}

// FaceCorners returns the three vertex positions of a face
func (m *Mesh) FaceCorners(faceIdx int) [3]mgl64.Vec3 {
	f := m.Faces[faceIdx]
	return [3]mgl64.Vec3{
		m.Vertices[f.VertexIndices[0]].Position,
		m.Vertices[f.VertexIndices[1]].Position,
		m.Vertices[f.VertexIndices[2]].Position,
	}
}

// FaceCentroid returns the mean of the face corners
func (m *Mesh) FaceCentroid(faceIdx int) mgl64.Vec3 {
	c := m.FaceCorners(faceIdx)
	return c[0].Add(c[1]).Add(c[2]).Mul(1.0 / 3.0)
}

// Positions returns a copy of all vertex positions
func (m *Mesh) Positions() []mgl64.Vec3 {
	positions := make([]mgl64.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		positions[i] = v.Position
	}
	return positions
}

// TriangleIndices flattens the face list into a triangle index buffer
func (m *Mesh) TriangleIndices() []uint32 {
	indices := make([]uint32, 0, len(m.Faces)*3)
	for _, f := range m.Faces {
		indices = append(indices, uint32(f.VertexIndices[0]), uint32(f.VertexIndices[1]), uint32(f.VertexIndices[2]))
	}
	return indices
}

// RadiusRange returns the smallest and largest vertex distance from the origin
func (m *Mesh) RadiusRange() (float64, float64) {
	if len(m.Vertices) == 0 {
		return 0, 0
	}
	minR := m.Vertices[0].Position.Len()
	maxR := minR
	for _, v := range m.Vertices[1:] {
		r := v.Position.Len()
		if r < minR {
			minR = r
		}
		if r > maxR {
			maxR = r
		}
	}
	return minR, maxR
}

// Clone returns a deep copy of the mesh
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Vertices: make([]Vertex, len(m.Vertices)),
		Edges:    make([]Edge, len(m.Edges)),
		Faces:    make([]Face, len(m.Faces)),
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = Vertex{
			Position:    v.Position,
			EdgeIndices: append([]int(nil), v.EdgeIndices...),
			FaceIndices: append([]int(nil), v.FaceIndices...),
		}
	}
	for i, e := range m.Edges {
		out.Edges[i] = Edge{
			VertexIndices: e.VertexIndices,
			FaceIndices:   append([]int(nil), e.FaceIndices...),
		}
	}
	copy(out.Faces, m.Faces)
	return out
}

// linkAdjacency fills the vertex and edge incidence lists from the edge and
// face tables. Any existing lists are discarded.
func (m *Mesh) linkAdjacency() {
	for i := range m.Vertices {
		m.Vertices[i].EdgeIndices = m.Vertices[i].EdgeIndices[:0]
		m.Vertices[i].FaceIndices = m.Vertices[i].FaceIndices[:0]
	}
	for i := range m.Edges {
		m.Edges[i].FaceIndices = m.Edges[i].FaceIndices[:0]
	}

	for i, e := range m.Edges {
		for _, vertIdx := range e.VertexIndices {
			m.Vertices[vertIdx].EdgeIndices = append(m.Vertices[vertIdx].EdgeIndices, i)
		}
	}

	for i, f := range m.Faces {
		for _, vertIdx := range f.VertexIndices {
			m.Vertices[vertIdx].FaceIndices = append(m.Vertices[vertIdx].FaceIndices, i)
		}
		for _, edgeIdx := range f.EdgeIndices {
			m.Edges[edgeIdx].FaceIndices = append(m.Edges[edgeIdx].FaceIndices, i)
		}
	}
}
