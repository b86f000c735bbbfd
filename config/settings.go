package config

import (
	"encoding/json"
	"fmt"
	"os"

	"platesphere/core"
	"platesphere/world"
)

// DefaultPath is read when no other settings file is named
const DefaultPath = "settings.json"

type Settings struct {
	Simulation SimulationSettings `json:"simulation"`
	Server     ServerSettings     `json:"server"`
}

type SimulationSettings struct {
	Seed        string  `json:"seed"`
	PlateDetail int     `json:"plateDetail"`
	WorldDetail int     `json:"worldDetail"`
	PlateCount  int     `json:"plateCount"`
	Steps       int     `json:"steps"`
	Elevation   float64 `json:"elevation"`
	Workers     int     `json:"workers"`
	Comment     string  `json:"comment"`
}

type ServerSettings struct {
	Port             int `json:"port"`
	UpdateIntervalMs int `json:"updateIntervalMs"`
}

// Defaults returns the reference planet settings
func Defaults() Settings {
	p := world.DefaultParams()
	return Settings{
		Simulation: SimulationSettings{
			Seed:        p.Seed,
			PlateDetail: p.PlateDetail,
			WorldDetail: p.WorldDetail,
			PlateCount:  p.PlateCount,
			Steps:       p.Steps,
			Elevation:   p.Elevation,
			Workers:     p.Workers,
		},
		Server: ServerSettings{
			Port:             8080,
			UpdateIntervalMs: 100,
		},
	}
}

// Load reads settings from path over the defaults. A missing file is not an
// error.
func Load(path string) (Settings, error) {
	settings := Defaults()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("No %s found, using defaults\n", path)
			return settings, nil
		}
		return settings, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&settings); err != nil {
		return settings, fmt.Errorf("%w: error parsing %s: %v", core.ErrConfiguration, path, err)
	}

	fmt.Printf("Loaded settings: world level %d (~%d vertices), plate level %d (~%d vertices)\n",
		settings.Simulation.WorldDetail,
		core.VertexCount(settings.Simulation.WorldDetail),
		settings.Simulation.PlateDetail,
		core.VertexCount(settings.Simulation.PlateDetail))

	return settings, nil
}

// Validate checks every range Generate and the server rely on
func (s Settings) Validate() error {
	sim := s.Simulation
	if sim.Seed == "" {
		return fmt.Errorf("%w: seed must not be empty", core.ErrConfiguration)
	}
	if err := core.CheckDetailLevel(sim.PlateDetail); err != nil {
		return fmt.Errorf("plateDetail: %w", err)
	}
	if err := core.CheckDetailLevel(sim.WorldDetail); err != nil {
		return fmt.Errorf("worldDetail: %w", err)
	}
	// every plate needs a seed face and a distinct seed vertex
	limit := min(core.FaceCount(sim.PlateDetail), core.VertexCount(sim.PlateDetail))
	if sim.PlateCount < 1 || sim.PlateCount > limit {
		return fmt.Errorf("%w: plateCount %d outside [1, %d]", core.ErrConfiguration, sim.PlateCount, limit)
	}
	if sim.Steps < 0 {
		return fmt.Errorf("%w: steps must not be negative", core.ErrConfiguration)
	}
	if sim.Elevation <= 0 || sim.Elevation > 1 {
		return fmt.Errorf("%w: elevation %f outside (0, 1]", core.ErrConfiguration, sim.Elevation)
	}
	if sim.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", core.ErrConfiguration)
	}
	if s.Server.Port < 1 || s.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", core.ErrConfiguration, s.Server.Port)
	}
	if s.Server.UpdateIntervalMs < 1 {
		return fmt.Errorf("%w: updateIntervalMs must be positive", core.ErrConfiguration)
	}
	return nil
}

// WorldParams converts the simulation section for world.Generate
func (s Settings) WorldParams() world.Params {
	return world.Params{
		Seed:        s.Simulation.Seed,
		PlateDetail: s.Simulation.PlateDetail,
		WorldDetail: s.Simulation.WorldDetail,
		PlateCount:  s.Simulation.PlateCount,
		Steps:       s.Simulation.Steps,
		Elevation:   s.Simulation.Elevation,
		Workers:     s.Simulation.Workers,
	}
}
