package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"platesphere/config"
	"platesphere/picking"
	"platesphere/server"
	"platesphere/world"
)

func main() {
	var (
		configPath  = flag.String("config", config.DefaultPath, "Settings file")
		seed        = flag.String("seed", "", "Seed text (overrides settings)")
		plateDetail = flag.Int("plate-detail", -1, "Plate simulation sphere level")
		worldDetail = flag.Int("world-detail", -1, "Rendered sphere level")
		plates      = flag.Int("plates", -1, "Number of tectonic plates")
		steps       = flag.Int("steps", -1, "Simulation steps before height mapping")
		elevation   = flag.Float64("elevation", -1, "Height spread in (0, 1]")
		workers     = flag.Int("workers", -1, "Parallel workers (0 runs inline)")
		serve       = flag.Bool("serve", false, "Serve the world over websocket")
		port        = flag.Int("port", 0, "Server port (overrides settings)")
	)
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	// flags left at their sentinel keep the settings value
	if *seed != "" {
		settings.Simulation.Seed = *seed
	}
	if *plateDetail >= 0 {
		settings.Simulation.PlateDetail = *plateDetail
	}
	if *worldDetail >= 0 {
		settings.Simulation.WorldDetail = *worldDetail
	}
	if *plates >= 0 {
		settings.Simulation.PlateCount = *plates
	}
	if *steps >= 0 {
		settings.Simulation.Steps = *steps
	}
	if *elevation >= 0 {
		settings.Simulation.Elevation = *elevation
	}
	if *workers >= 0 {
		settings.Simulation.Workers = *workers
	}
	if *port != 0 {
		settings.Server.Port = *port
	}

	if err := settings.Validate(); err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	fmt.Println("=== Plate Sphere World Generator ===")
	fmt.Printf("Seed: %q\n", settings.Simulation.Seed)
	fmt.Printf("Plates: %d on level %d, world level %d, %d steps\n",
		settings.Simulation.PlateCount, settings.Simulation.PlateDetail,
		settings.Simulation.WorldDetail, settings.Simulation.Steps)

	w, err := world.Generate(settings.WorldParams())
	if err != nil {
		log.Fatalf("Failed to generate world: %v", err)
	}
	if err := w.Mesh.Validate(); err != nil {
		log.Fatalf("Generated mesh is broken: %v", err)
	}

	printSummary(w)

	if !*serve {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	interval := time.Duration(settings.Server.UpdateIntervalMs) * time.Millisecond
	if err := server.New(w, interval).ListenAndServe(ctx, settings.Server.Port); err != nil {
		log.Fatal(err)
	}
}

func printSummary(w *world.World) {
	fmt.Printf("\nMesh: V=%d E=%d F=%d\n", len(w.Mesh.Vertices), len(w.Mesh.Edges), len(w.Mesh.Faces))

	coverage := w.PlateCoverage()
	for i, plate := range w.Sim.Plates {
		pos, drift := w.PlateDrift(i)
		fmt.Printf("Plate %d: %d points, speed %.4f, %.1f%% of surface, centred %.1f°N %.1f°E drifting %.0f°\n",
			i, len(plate.VertexIndices), plate.Speed, coverage[i]*100,
			mgl64.RadToDeg(pos.Lat), mgl64.RadToDeg(pos.Lon), drift.Bearing())
	}

	boundaries := w.Sim.Boundaries()
	counts := map[string]int{}
	for _, b := range boundaries {
		counts[b.Type.String()]++
	}
	fmt.Printf("Boundaries: %d (convergent %d, divergent %d, transform %d)\n",
		len(boundaries), counts["convergent"], counts["divergent"], counts["transform"])

	minR, maxR := w.RadiusRange()
	fmt.Printf("Radius range: %.6f to %.6f\n", minR, maxR)

	if face, ok := w.Pick(picking.TowardsCenter(mgl64.Vec3{0, 0, 5})); ok {
		loc := w.FaceLocation(face)
		fmt.Printf("Camera at +Z sees face %d at %.1f°N %.1f°E, altitude %.4f\n",
			face, mgl64.RadToDeg(loc.Lat), mgl64.RadToDeg(loc.Lon), loc.Alt)
	} else {
		fmt.Println("Camera at +Z sees nothing")
	}
}
