package palette

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"platesphere/core"
)

// chroma is the saturation of the generated hues
const chroma = 0.5

// highlightShift darkens a picked face
const highlightShift = 0.3

func channel(f float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, f)) * 255))
}

// ForHue maps a hue in sextants, [0, 6), to a half-saturated color
func ForHue(hue float64) rl.Color {
	x := chroma * (1 - math.Abs(math.Mod(hue, 2)-1))

	var r, g, b float64
	switch {
	case hue >= 0 && hue < 1:
		r, g, b = chroma, x, 0
	case hue >= 1 && hue < 2:
		r, g, b = x, chroma, 0
	case hue >= 2 && hue < 3:
		r, g, b = 0, chroma, x
	case hue >= 3 && hue < 4:
		r, g, b = 0, x, chroma
	case hue >= 4 && hue < 5:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}
	return rl.NewColor(channel(r), channel(g), channel(b), 255)
}

// ForHeight colors low ground blue and high ground red
func ForHeight(height, minHeight, maxHeight float64) rl.Color {
	relative := 0.0
	if diff := maxHeight - minHeight; diff > 0 {
		relative = (height - minHeight) / diff
	}
	hue := math.Mod(math.Pi*4/3-relative*2*math.Pi+2*math.Pi, 2*math.Pi)
	return ForHue(hue)
}

// ForIndex spreads count indices evenly around the hue circle
func ForIndex(idx, count int) rl.Color {
	if count <= 0 {
		return ForHue(0)
	}
	return ForHue(6 * float64(idx%count) / float64(count))
}

// Highlight returns c darkened for a selected face
func Highlight(c rl.Color) rl.Color {
	shift := uint8(math.Round(highlightShift * 255))
	sub := func(v uint8) uint8 {
		if v < shift {
			return 0
		}
		return v - shift
	}
	return rl.NewColor(sub(c.R), sub(c.G), sub(c.B), c.A)
}

// ByHeight colors each face by the radius of its centroid relative to the
// mesh's vertex radius range
func ByHeight(mesh *core.Mesh) []rl.Color {
	minR, maxR := mesh.RadiusRange()
	colors := make([]rl.Color, len(mesh.Faces))
	for i := range mesh.Faces {
		colors[i] = ForHeight(mesh.FaceCentroid(i).Len(), minR, maxR)
	}
	return colors
}

// ByPlate colors each face by its plate index
func ByPlate(facePlates []int, plateCount int) []rl.Color {
	colors := make([]rl.Color, len(facePlates))
	for i, plate := range facePlates {
		colors[i] = ForIndex(plate, plateCount)
	}
	return colors
}
