package planner

import "time"

// LegMode distinguishes walking legs from in-vehicle legs.
type LegMode string

const (
	LegModeWalk LegMode = "WALK"
	LegModeRide LegMode = "RIDE"
)

// Leg is one segment of an itinerary. Walk legs carry a distance; ride legs
// carry the matched route. Endpoint names are display names ("Origin" and
// "Destination" for the query points themselves).
type Leg struct {
	Mode     LegMode
	FromName string
	FromLat  float64
	FromLon  float64
	ToName   string
	ToLat    float64
	ToLon    float64
	Duration time.Duration

	// DistanceMeters is set on walk legs only.
	DistanceMeters float64

	// RouteID and RouteShortName are set on ride legs only.
	RouteID        string
	RouteShortName string
}

// Itinerary is one proposed walk-ride-walk trip. Itineraries are value
// objects built fresh per query and never mutated.
type Itinerary struct {
	// Duration is the end-to-end estimate: both walks plus the ride.
	Duration time.Duration

	// WalkDistanceMeters sums the two walk legs.
	WalkDistanceMeters float64

	// Transfers is always 0: this matcher only finds single-route trips.
	Transfers int

	// FareAmount and FareCurrency are the configured flat fare.
	FareAmount   float64
	FareCurrency string

	// Legs holds exactly three entries: walk, ride, walk.
	Legs []Leg
}
