// Package server streams a generated world to websocket clients and answers
// pick and advance requests.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"

	"platesphere/palette"
	"platesphere/picking"
	"platesphere/world"
)

// maxAdvanceSteps caps a single advance request and the queued backlog
const maxAdvanceSteps = 1000

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

type Server struct {
	world    *world.World
	worldMu  sync.Mutex
	interval time.Duration

	// steps requested by clients and not yet simulated, at most maxAdvanceSteps
	pending int

	clients      map[*websocket.Conn]*sync.Mutex
	clientsMutex sync.RWMutex
}

// New serves w, running requested steps every interval
func New(w *world.World, interval time.Duration) *Server {
	return &Server{
		world:    w,
		interval: interval,
		clients:  make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Handler routes /ws to the websocket endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// ListenAndServe runs the simulation loop and serves until ctx is done
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Handler(),
	}

	go s.SimulationLoop(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Server starting on http://localhost:%d", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	s.clientsMutex.Lock()
	s.clients[conn] = connMutex
	s.clientsMutex.Unlock()
	defer func() {
		s.clientsMutex.Lock()
		delete(s.clients, conn)
		s.clientsMutex.Unlock()
	}()

	s.worldMu.Lock()
	meshData := createMeshData(s.world)
	s.worldMu.Unlock()
	s.send(conn, connMutex, meshData)

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("WebSocket read error:", err)
			}
			return
		}

		switch msg.Type {
		case "pick":
			s.send(conn, connMutex, s.handlePick(msg))
		case "advance":
			if msg.Steps < 1 || msg.Steps > maxAdvanceSteps {
				s.send(conn, connMutex, ErrorMessage{
					Type:  "error",
					Error: fmt.Sprintf("steps must be in [1, %d]", maxAdvanceSteps),
				})
				continue
			}
			s.queueSteps(msg.Steps)
		default:
			s.send(conn, connMutex, ErrorMessage{Type: "error", Error: fmt.Sprintf("unknown message type %q", msg.Type)})
		}
	}
}

// queueSteps adds n to the pending steps, saturating at maxAdvanceSteps, and
// returns the new total
func (s *Server) queueSteps(n int) int {
	s.worldMu.Lock()
	defer s.worldMu.Unlock()
	s.pending = min(s.pending+n, maxAdvanceSteps)
	return s.pending
}

func (s *Server) handlePick(msg ClientMessage) any {
	if msg.Origin == nil || msg.Direction == nil {
		return ErrorMessage{Type: "error", Error: "pick needs origin and direction"}
	}

	ray := picking.Ray{Origin: mgl64.Vec3(*msg.Origin), Direction: mgl64.Vec3(*msg.Direction)}
	s.worldMu.Lock()
	defer s.worldMu.Unlock()

	result := PickResult{Type: "pick"}
	if face, ok := s.world.Pick(ray); ok {
		loc := s.world.FaceLocation(face)
		result.Face = &face
		result.Location = &[2]float64{mgl64.RadToDeg(loc.Lat), mgl64.RadToDeg(loc.Lon)}
		minR, maxR := s.world.RadiusRange()
		highlight := toRGBA(palette.Highlight(palette.ForHeight(s.world.Mesh.FaceCentroid(face).Len(), minR, maxR)))
		result.Highlight = &highlight
	}
	return result
}

func (s *Server) send(conn *websocket.Conn, mutex *sync.Mutex, v any) {
	mutex.Lock()
	defer mutex.Unlock()
	if err := conn.WriteJSON(v); err != nil {
		log.Println("WebSocket write error:", err)
	}
}

// SimulationLoop runs pending steps once per interval and broadcasts the
// new mesh whenever the world changed
func (s *Server) SimulationLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frameStart := time.Now()
		s.worldMu.Lock()
		steps := s.pending
		s.pending = 0
		if steps == 0 {
			s.worldMu.Unlock()
			continue
		}
		err := s.world.Advance(steps)
		meshData := createMeshData(s.world)
		s.worldMu.Unlock()

		if err != nil {
			log.Printf("Advance failed: %v", err)
			s.broadcast(ErrorMessage{Type: "error", Error: fmt.Sprintf("advance of %d steps failed: %v", steps, err)})
			continue
		}
		s.broadcast(meshData)

		if total := time.Since(frameStart); total > s.interval {
			log.Printf("SLOW FRAME: %d steps took %v", steps, total)
		}
	}
}

func (s *Server) broadcast(v any) {
	s.clientsMutex.RLock()
	clientsToRemove := []*websocket.Conn{}
	for client, mutex := range s.clients {
		mutex.Lock()
		err := client.WriteJSON(v)
		mutex.Unlock()
		if err != nil {
			log.Println("WebSocket write error:", err)
			client.Close()
			clientsToRemove = append(clientsToRemove, client)
		}
	}
	s.clientsMutex.RUnlock()

	if len(clientsToRemove) > 0 {
		s.clientsMutex.Lock()
		for _, client := range clientsToRemove {
			delete(s.clients, client)
		}
		s.clientsMutex.Unlock()
	}
}
