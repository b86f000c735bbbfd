package server

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"platesphere/palette"
	"platesphere/simulation"
	"platesphere/world"
)

// MeshData is the full planet snapshot sent on connect and after every advance
type MeshData struct {
	Type        string         `json:"type"`
	Vertices    [][3]float64   `json:"vertices"`
	Indices     []uint32       `json:"indices"`
	Heights     []float64      `json:"heights"`
	FacePlates  []int          `json:"facePlates"`
	Colors      [][4]uint8     `json:"colors"`
	PlateColors [][4]uint8     `json:"plateColors"`
	Boundaries  []BoundaryData `json:"boundaries"`
	Steps       int            `json:"steps"`
}

// BoundaryData carries one plate boundary as simulation point positions
type BoundaryData struct {
	Type   string       `json:"type"`
	PlateA int          `json:"plateA"`
	PlateB int          `json:"plateB"`
	Points [][3]float64 `json:"points"`
	Color  string       `json:"color"`
}

// ClientMessage is anything a client sends; Type selects the fields used
type ClientMessage struct {
	Type      string      `json:"type"`
	Origin    *[3]float64 `json:"origin,omitempty"`
	Direction *[3]float64 `json:"direction,omitempty"`
	Steps     int         `json:"steps,omitempty"`
}

// PickResult answers a pick request. Face is null on a miss; Location is the
// face centroid as [lat, lon] in degrees.
type PickResult struct {
	Type      string      `json:"type"`
	Face      *int        `json:"face"`
	Location  *[2]float64 `json:"location,omitempty"`
	Highlight *[4]uint8   `json:"highlight,omitempty"`
}

// ErrorMessage reports a rejected client message
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func toArray(v mgl64.Vec3) [3]float64 {
	return [3]float64{v[0], v[1], v[2]}
}

func toRGBA(c rl.Color) [4]uint8 {
	return [4]uint8{c.R, c.G, c.B, c.A}
}

func toRGBAs(colors []rl.Color) [][4]uint8 {
	out := make([][4]uint8, len(colors))
	for i, c := range colors {
		out[i] = toRGBA(c)
	}
	return out
}

func boundaryColor(t simulation.BoundaryType) string {
	switch t {
	case simulation.Convergent:
		return "#ff0000" // Red
	case simulation.Divergent:
		return "#0000ff" // Blue
	case simulation.Transform:
		return "#ffff00" // Yellow
	default:
		return "#ffffff"
	}
}

func createMeshData(w *world.World) MeshData {
	vertices := make([][3]float64, len(w.Mesh.Vertices))
	heights := make([]float64, len(w.Mesh.Vertices))
	for i, v := range w.Mesh.Vertices {
		vertices[i] = toArray(v.Position)
		heights[i] = v.Position.Len()
	}

	facePlates := w.FacePlates()

	plateBoundaries := w.Sim.Boundaries()
	boundaries := make([]BoundaryData, len(plateBoundaries))
	for i, b := range plateBoundaries {
		points := make([][3]float64, len(b.EdgeVertices))
		for j, idx := range b.EdgeVertices {
			points[j] = toArray(w.Sim.Points[idx].Position)
		}
		boundaries[i] = BoundaryData{
			Type:   b.Type.String(),
			PlateA: b.PlateA,
			PlateB: b.PlateB,
			Points: points,
			Color:  boundaryColor(b.Type),
		}
	}

	return MeshData{
		Type:        "mesh",
		Vertices:    vertices,
		Indices:     w.Mesh.TriangleIndices(),
		Heights:     heights,
		FacePlates:  facePlates,
		Colors:      toRGBAs(palette.ByHeight(w.Mesh)),
		PlateColors: toRGBAs(palette.ByPlate(facePlates, len(w.Sim.Plates))),
		Boundaries:  boundaries,
		Steps:       w.Sim.StepsTaken(),
	}
}
