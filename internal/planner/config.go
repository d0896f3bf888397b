package planner

import "github.com/holoholo-transit/planner/internal/geo"

// Config carries every tunable of the matcher. Nothing here is hardcoded in
// the matching logic; the hosting application builds one from its own
// configuration. The speed fields are deliberately simple straight-line
// proxies pending real schedule data.
type Config struct {
	// DefaultRadiusKm is the first search radius tried around each
	// endpoint.
	DefaultRadiusKm float64

	// RadiusLadderKm lists the successively larger radii tried for an
	// endpoint that found no stops. Each endpoint expands independently.
	RadiusLadderKm []float64

	// MaxStopsPerSide caps how many nearest stops per endpoint enter the
	// pairwise route intersection.
	MaxStopsPerSide int

	// MaxItineraries caps the number of candidates returned.
	MaxItineraries int

	// WalkSpeedMPerMin is the assumed walking pace in meters per minute.
	WalkSpeedMPerMin float64

	// RideSpeedKmh is the assumed average in-vehicle speed applied to
	// every route.
	RideSpeedKmh float64

	// FareAmount and FareCurrency describe the flat fare attached to
	// every itinerary.
	FareAmount   float64
	FareCurrency string
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		DefaultRadiusKm:  0.8,
		RadiusLadderKm:   []float64{1.5, 2.0},
		MaxStopsPerSide:  5,
		MaxItineraries:   3,
		WalkSpeedMPerMin: geo.DefaultWalkSpeedMPerMin,
		RideSpeedKmh:     geo.DefaultRideSpeedKmh,
		FareAmount:       3.00,
		FareCurrency:     "USD",
	}
}

// withDefaults fills zero-valued fields from DefaultConfig so a partially
// populated Config still behaves sensibly. FareAmount is left untouched;
// a zero fare is a valid setting, and callers with an "absent" notion
// (the YAML loader) resolve it before building the Config.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.DefaultRadiusKm <= 0 {
		c.DefaultRadiusKm = d.DefaultRadiusKm
	}
	if c.RadiusLadderKm == nil {
		c.RadiusLadderKm = d.RadiusLadderKm
	}
	if c.MaxStopsPerSide <= 0 {
		c.MaxStopsPerSide = d.MaxStopsPerSide
	}
	if c.MaxItineraries <= 0 {
		c.MaxItineraries = d.MaxItineraries
	}
	if c.WalkSpeedMPerMin <= 0 {
		c.WalkSpeedMPerMin = d.WalkSpeedMPerMin
	}
	if c.RideSpeedKmh <= 0 {
		c.RideSpeedKmh = d.RideSpeedKmh
	}
	if c.FareCurrency == "" {
		c.FareCurrency = d.FareCurrency
	}
	return c
}
