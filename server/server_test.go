package server

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"platesphere/core"
	"platesphere/world"
)

func startTestServer(t *testing.T) (*websocket.Conn, *world.World) {
	t.Helper()
	return startTestServerWith(t, nil)
}

// startTestServerWith lets prepare adjust the world before the simulation
// loop starts
func startTestServerWith(t *testing.T, prepare func(*world.World)) (*websocket.Conn, *world.World) {
	t.Helper()

	params := world.DefaultParams()
	params.WorldDetail = 2
	w, err := world.Generate(params)
	if err != nil {
		t.Fatal(err)
	}
	if prepare != nil {
		prepare(w)
	}

	s := New(w, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	go s.SimulationLoop(ctx)

	srv := httptest.NewServer(s.Handler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		cancel()
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
		cancel()
		srv.Close()
	})
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	return conn, w
}

func readMesh(t *testing.T, conn *websocket.Conn) MeshData {
	t.Helper()
	var mesh MeshData
	if err := conn.ReadJSON(&mesh); err != nil {
		t.Fatalf("read mesh: %v", err)
	}
	if mesh.Type != "mesh" {
		t.Fatalf("message type = %q, want mesh", mesh.Type)
	}
	return mesh
}

func TestInitialMeshSnapshot(t *testing.T) {
	conn, _ := startTestServer(t)
	mesh := readMesh(t, conn)

	if got, want := len(mesh.Vertices), core.VertexCount(2); got != want {
		t.Errorf("vertices = %d, want %d", got, want)
	}
	if got, want := len(mesh.Indices), 3*core.FaceCount(2); got != want {
		t.Errorf("indices = %d, want %d", got, want)
	}
	faces := core.FaceCount(2)
	if len(mesh.Colors) != faces || len(mesh.PlateColors) != faces || len(mesh.FacePlates) != faces {
		t.Errorf("per-face arrays have %d colors, %d plate colors and %d plates",
			len(mesh.Colors), len(mesh.PlateColors), len(mesh.FacePlates))
	}
	if mesh.Steps != 5 {
		t.Errorf("steps = %d, want 5", mesh.Steps)
	}
	if len(mesh.Boundaries) == 0 {
		t.Error("expected plate boundaries")
	}
}

func TestPickRequest(t *testing.T) {
	conn, w := startTestServer(t)
	readMesh(t, conn)

	tests := []struct {
		name      string
		direction [3]float64
		hit       bool
	}{
		{"toward the planet", [3]float64{0, 0, -1}, true},
		{"away from the planet", [3]float64{0, 0, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origin, direction := [3]float64{0, 0, 5}, tt.direction
			if err := conn.WriteJSON(ClientMessage{Type: "pick", Origin: &origin, Direction: &direction}); err != nil {
				t.Fatal(err)
			}

			var result PickResult
			if err := conn.ReadJSON(&result); err != nil {
				t.Fatal(err)
			}
			if result.Type != "pick" {
				t.Fatalf("message type = %q, want pick", result.Type)
			}
			if (result.Face != nil) != tt.hit {
				t.Fatalf("hit = %v, want %v", result.Face != nil, tt.hit)
			}
			if !tt.hit {
				return
			}
			if *result.Face >= len(w.Mesh.Faces) {
				t.Errorf("face %d out of range", *result.Face)
			}
			if result.Location == nil || result.Highlight == nil {
				t.Error("hit without a location or highlight")
			}
		})
	}
}

func TestAdvanceBroadcastsMesh(t *testing.T) {
	conn, _ := startTestServer(t)
	readMesh(t, conn)

	if err := conn.WriteJSON(ClientMessage{Type: "advance", Steps: 2}); err != nil {
		t.Fatal(err)
	}
	if mesh := readMesh(t, conn); mesh.Steps != 7 {
		t.Errorf("steps = %d, want 7", mesh.Steps)
	}
}

func TestRejectedMessages(t *testing.T) {
	conn, _ := startTestServer(t)
	readMesh(t, conn)

	tests := []struct {
		name string
		msg  ClientMessage
	}{
		{"unknown type", ClientMessage{Type: "erode"}},
		{"zero steps", ClientMessage{Type: "advance"}},
		{"pick without ray", ClientMessage{Type: "pick"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := conn.WriteJSON(tt.msg); err != nil {
				t.Fatal(err)
			}
			var reply ErrorMessage
			if err := conn.ReadJSON(&reply); err != nil {
				t.Fatal(err)
			}
			if reply.Type != "error" || reply.Error == "" {
				t.Errorf("reply = %+v, want an error", reply)
			}
		})
	}
}

func TestAdvanceFailureIsBroadcast(t *testing.T) {
	conn, w := startTestServerWith(t, func(w *world.World) {
		// heights reject an elevation above 1, so the next advance fails
		w.Params.Elevation = 5
	})
	readMesh(t, conn)
	before := w.Mesh

	if err := conn.WriteJSON(ClientMessage{Type: "advance", Steps: 1}); err != nil {
		t.Fatal(err)
	}
	var reply ErrorMessage
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatal(err)
	}
	if reply.Type != "error" || !strings.Contains(reply.Error, "advance of 1 steps failed") {
		t.Errorf("reply = %+v, want an advance failure", reply)
	}
	if w.Mesh != before {
		t.Error("failed advance replaced the mesh")
	}
}

func TestQueueStepsSaturates(t *testing.T) {
	params := world.DefaultParams()
	params.WorldDetail = 1
	w, err := world.Generate(params)
	if err != nil {
		t.Fatal(err)
	}
	s := New(w, time.Hour)

	tests := []struct {
		name string
		add  int
		want int
	}{
		{"first request", 600, 600},
		{"second request hits the cap", 600, maxAdvanceSteps},
		{"further requests stay at the cap", maxAdvanceSteps, maxAdvanceSteps},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.queueSteps(tt.add); got != tt.want {
				t.Errorf("queueSteps(%d) = %d, want %d", tt.add, got, tt.want)
			}
		})
	}
}
