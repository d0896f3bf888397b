// Package config loads the optional YAML configuration file that carries
// the planner tunables. Flags in cmd/api cover the server settings; the
// file exists so the estimation model (radii, speeds, fare) can be tuned
// without a rebuild.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/holoholo-transit/planner/internal/planner"
)

// PlannerConfig mirrors planner.Config in YAML form.
type PlannerConfig struct {
	DefaultRadiusKm  float64   `yaml:"defaultRadiusKm" validate:"omitempty,gt=0"`
	RadiusLadderKm   []float64 `yaml:"radiusLadderKm" validate:"omitempty,dive,gt=0"`
	MaxStopsPerSide  int       `yaml:"maxStopsPerSide" validate:"omitempty,gt=0"`
	MaxItineraries   int       `yaml:"maxItineraries" validate:"omitempty,gt=0"`
	WalkSpeedMPerMin float64   `yaml:"walkSpeedMetersPerMinute" validate:"omitempty,gt=0"`
	RideSpeedKmh     float64   `yaml:"rideSpeedKmh" validate:"omitempty,gt=0"`
	FareAmount       *float64  `yaml:"fareAmount" validate:"omitempty,gte=0"`
	FareCurrency     string    `yaml:"fareCurrency" validate:"omitempty,len=3"`
}

// FeedConfig points at the static feed and the optional sqlite cache.
type FeedConfig struct {
	StaticSource    string `yaml:"staticSource" validate:"omitempty"`
	SnapshotDBPath  string `yaml:"snapshotDBPath"`
	RefreshInterval string `yaml:"refreshInterval" validate:"omitempty"`
}

// AppConfig is the root of the YAML file.
type AppConfig struct {
	Planner PlannerConfig `yaml:"planner"`
	Feed    FeedConfig    `yaml:"feed"`
}

// Load reads and validates the file at path.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("error parsing config file: %w", err)
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// PlannerConfig converts the YAML form into the matcher's Config. Absent
// fields stay zero and fall back to planner defaults. The fare amount is a
// pointer because zero is meaningful there: omitting fareAmount keeps the
// default fare, while an explicit 0 makes the network free.
func (c AppConfig) PlannerConfig() planner.Config {
	fare := planner.DefaultConfig().FareAmount
	if c.Planner.FareAmount != nil {
		fare = *c.Planner.FareAmount
	}
	return planner.Config{
		DefaultRadiusKm:  c.Planner.DefaultRadiusKm,
		RadiusLadderKm:   c.Planner.RadiusLadderKm,
		MaxStopsPerSide:  c.Planner.MaxStopsPerSide,
		MaxItineraries:   c.Planner.MaxItineraries,
		WalkSpeedMPerMin: c.Planner.WalkSpeedMPerMin,
		RideSpeedKmh:     c.Planner.RideSpeedKmh,
		FareAmount:       fare,
		FareCurrency:     c.Planner.FareCurrency,
	}
}
