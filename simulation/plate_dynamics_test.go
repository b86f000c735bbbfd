package simulation

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"

	"platesphere/core"
)

func TestRotateAboutAxisPreservesLength(t *testing.T) {
	rng := newRand(11)
	for i := 0; i < 500; i++ {
		v := mgl64.Vec3{rng.Float64()*4 - 2, rng.Float64()*4 - 2, rng.Float64()*4 - 2}
		axis, err := randomAxis(rng)
		if err != nil {
			t.Fatal(err)
		}
		angle := rng.Float64()*20 - 10

		got := RotateAboutAxis(v, axis, angle)
		if math.Abs(got.Len()-v.Len()) > 1e-4 {
			t.Fatalf("rotating %v by %f about %v changed length %f -> %f", v, angle, axis, v.Len(), got.Len())
		}
	}
}

func TestRotateAboutAxisQuarterTurn(t *testing.T) {
	got := RotateAboutAxis(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 2}, math.Pi/2)
	if !got.ApproxEqualThreshold(mgl64.Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("got %v, want (0, 1, 0)", got)
	}
	if angle := core.AngleBetween(mgl64.Vec3{1, 0, 0}, got); math.Abs(angle-math.Pi/2) > 1e-12 {
		t.Errorf("swept angle %f, want π/2", angle)
	}
}

func newTestSimulation(t *testing.T, level, plates int, seed uint64, opts ...Option) *PlateSimulation {
	t.Helper()
	sim, err := NewPlateSimulation(mustSphere(t, level), plates, newRand(seed), opts...)
	if err != nil {
		t.Fatalf("NewPlateSimulation: %v", err)
	}
	return sim
}

func TestNewPlateSimulationSeedsSpeeds(t *testing.T) {
	sim := newTestSimulation(t, 2, 10, 42)

	for plateIdx, plate := range sim.Plates {
		for _, idx := range plate.VertexIndices {
			if sim.Points[idx].Speed != plate.Speed {
				t.Errorf("point %d speed %f, want plate speed %f", idx, sim.Points[idx].Speed, plate.Speed)
			}
			if sim.PlateOf(idx) != plateIdx {
				t.Errorf("PlateOf(%d) = %d, want %d", idx, sim.PlateOf(idx), plateIdx)
			}
		}
	}

	mesh := mustSphere(t, 2)
	if sim.InitialEdgeLength() != mesh.EdgeLength(0) {
		t.Errorf("initial edge length %f, want %f", sim.InitialEdgeLength(), mesh.EdgeLength(0))
	}
	if diff := cmp.Diff(mesh.Neighbors(5), sim.Points[5].Neighbors); diff != "" {
		t.Errorf("neighbors of point 5 mismatch (-want +got):\n%s", diff)
	}
}

func TestStepKeepsPointsOnSphere(t *testing.T) {
	sim := newTestSimulation(t, 2, 10, 42)
	sim.Simulate(5)

	if sim.StepsTaken() != 5 {
		t.Errorf("StepsTaken() = %d, want 5", sim.StepsTaken())
	}
	for i, p := range sim.Points {
		if math.Abs(p.Position.Len()-1) > 1e-4 {
			t.Fatalf("point %d drifted to radius %f", i, p.Position.Len())
		}
	}
}

func TestStepDampsSpeedByCloseness(t *testing.T) {
	sim := newTestSimulation(t, 2, 10, 42)
	before := make([]float64, len(sim.Points))
	for i, p := range sim.Points {
		before[i] = p.Speed
	}

	sim.Step()

	closeness := sim.averageCloseness()
	for i, p := range sim.Points {
		want := before[i] * (1 - closeness[i]/sim.InitialEdgeLength())
		if p.Speed != want {
			t.Fatalf("point %d speed %f, want %f", i, p.Speed, want)
		}
		if closeness[i] <= 0 {
			t.Fatalf("point %d closeness %f, want positive (a point is always close to itself)", i, closeness[i])
		}
	}
}

func TestSimulationIsDeterministic(t *testing.T) {
	a := newTestSimulation(t, 2, 10, 42)
	b := newTestSimulation(t, 2, 10, 42)
	a.Simulate(5)
	b.Simulate(5)

	if diff := cmp.Diff(a.Positions(), b.Positions()); diff != "" {
		t.Errorf("positions differ (-a +b):\n%s", diff)
	}
}

func TestParallelStepMatchesSequential(t *testing.T) {
	sequential := newTestSimulation(t, 3, 10, 9)
	parallel := newTestSimulation(t, 3, 10, 9, WithWorkers(4))
	sequential.Simulate(3)
	parallel.Simulate(3)

	if diff := cmp.Diff(sequential.Points, parallel.Points); diff != "" {
		t.Errorf("parallel run differs (-sequential +parallel):\n%s", diff)
	}
}

func TestMotionVectors(t *testing.T) {
	sim := newTestSimulation(t, 1, 4, 1)
	vectors := sim.MotionVectors()
	if len(vectors) != len(sim.Points) {
		t.Fatalf("got %d vectors, want %d", len(vectors), len(sim.Points))
	}

	lastPlate := 0
	for _, v := range vectors {
		if v.Plate < lastPlate {
			t.Fatalf("vectors not grouped by plate: %d after %d", v.Plate, lastPlate)
		}
		lastPlate = v.Plate
		if math.Abs(v.To.Len()-v.From.Len()) > 1e-9 {
			t.Fatalf("motion vector changes radius: %v -> %v", v.From, v.To)
		}
	}
}

func TestNearestPoint(t *testing.T) {
	sim := newTestSimulation(t, 1, 4, 1)
	for i, p := range sim.Points {
		if got := sim.NearestPoint(p.Position); got != i {
			t.Errorf("NearestPoint(point %d) = %d", i, got)
		}
	}
}

func TestBoundaries(t *testing.T) {
	sim := newTestSimulation(t, 2, 6, 4)
	sim.Simulate(2)
	boundaries := sim.Boundaries()
	if len(boundaries) == 0 {
		t.Fatal("no boundaries between 6 plates")
	}

	for i, b := range boundaries {
		if b.PlateA >= b.PlateB {
			t.Errorf("boundary %d plates %d, %d not ordered", i, b.PlateA, b.PlateB)
		}
		if i > 0 {
			prev := boundaries[i-1]
			if prev.PlateA > b.PlateA || (prev.PlateA == b.PlateA && prev.PlateB >= b.PlateB) {
				t.Errorf("boundaries not sorted at %d", i)
			}
		}
		for _, v := range b.EdgeVertices {
			if owner := sim.PlateOf(v); owner != b.PlateA && owner != b.PlateB {
				t.Errorf("boundary %d-%d lists vertex %d of plate %d", b.PlateA, b.PlateB, v, owner)
			}
		}
		if b.Type.String() == "unknown" {
			t.Errorf("boundary %d-%d unclassified", b.PlateA, b.PlateB)
		}
	}
}

func TestClassifyBoundary(t *testing.T) {
	tests := []struct {
		closing float64
		want    BoundaryType
	}{
		{0.01, Convergent},
		{-0.01, Divergent},
		{0, Transform},
		{transformTolerance / 2, Transform},
	}
	for _, tc := range tests {
		if got := classifyBoundary(tc.closing); got != tc.want {
			t.Errorf("classifyBoundary(%f) = %v, want %v", tc.closing, got, tc.want)
		}
	}
}

func TestDampingShrinksSpeedsAtDefaultLevel(t *testing.T) {
	sim := newTestSimulation(t, 2, 10, 42)

	prev := make([]float64, len(sim.Points))
	for i, p := range sim.Points {
		prev[i] = p.Speed
	}
	for step := 1; step <= 5; step++ {
		sim.Step()
		for i, p := range sim.Points {
			if p.Speed <= 0 || p.Speed >= prev[i] {
				t.Fatalf("step %d: point %d speed %f, want in (0, %f)", step, i, p.Speed, prev[i])
			}
			prev[i] = p.Speed
		}
	}
}
