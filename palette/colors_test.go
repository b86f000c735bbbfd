package palette

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/go-cmp/cmp"

	"platesphere/core"
)

func TestForHue(t *testing.T) {
	tests := []struct {
		hue  float64
		want rl.Color
	}{
		{0, rl.NewColor(128, 0, 0, 255)},
		{1, rl.NewColor(128, 128, 0, 255)},
		{2, rl.NewColor(0, 128, 0, 255)},
		{3, rl.NewColor(0, 128, 128, 255)},
		{4, rl.NewColor(0, 0, 128, 255)},
		{5, rl.NewColor(128, 0, 128, 255)},
	}

	for _, tt := range tests {
		if got := ForHue(tt.hue); got != tt.want {
			t.Errorf("ForHue(%v) = %v, want %v", tt.hue, got, tt.want)
		}
	}
}

func TestForHeightFlatRange(t *testing.T) {
	// an empty range is treated as the lowest height
	if got, want := ForHeight(1, 1, 1), ForHeight(0.5, 0.5, 2); got != want {
		t.Errorf("flat range color = %v, want %v", got, want)
	}
}

func TestForIndexDistinct(t *testing.T) {
	seen := make(map[rl.Color]int)
	for i := 0; i < 6; i++ {
		c := ForIndex(i, 6)
		if prev, ok := seen[c]; ok {
			t.Fatalf("index %d shares color %v with index %d", i, c, prev)
		}
		seen[c] = i
	}
	if ForIndex(7, 6) != ForIndex(1, 6) {
		t.Error("indices should wrap around the count")
	}
}

func TestHighlight(t *testing.T) {
	got := Highlight(rl.NewColor(128, 50, 200, 255))
	want := rl.NewColor(51, 0, 123, 255)
	if got != want {
		t.Errorf("Highlight = %v, want %v", got, want)
	}
}

func TestByHeightAndPlate(t *testing.T) {
	mesh, err := core.MakeSphere(1)
	if err != nil {
		t.Fatal(err)
	}

	colors := ByHeight(mesh)
	if len(colors) != len(mesh.Faces) {
		t.Fatalf("got %d colors, want %d", len(colors), len(mesh.Faces))
	}

	plates := []int{0, 1, 2, 1}
	want := []rl.Color{ForIndex(0, 3), ForIndex(1, 3), ForIndex(2, 3), ForIndex(1, 3)}
	if diff := cmp.Diff(want, ByPlate(plates, 3)); diff != "" {
		t.Errorf("ByPlate mismatch (-want +got):\n%s", diff)
	}
}
