package models

import (
	"github.com/holoholo-transit/planner/internal/planner"
)

// Leg is the API shape of one itinerary segment. The handler exposes the
// structured fields; turning them into display strings ("Walk 5 min to ...")
// is the caller's presentation concern.
type Leg struct {
	Mode            string  `json:"mode"`
	FromName        string  `json:"fromName"`
	FromLat         float64 `json:"fromLat"`
	FromLon         float64 `json:"fromLon"`
	ToName          string  `json:"toName"`
	ToLat           float64 `json:"toLat"`
	ToLon           float64 `json:"toLon"`
	DurationSeconds int64   `json:"durationSeconds"`
	DistanceMeters  float64 `json:"distanceMeters,omitempty"`
	RouteID         string  `json:"routeId,omitempty"`
	RouteShortName  string  `json:"routeShortName,omitempty"`
}

// Fare is the flat fare attached to an itinerary.
type Fare struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Itinerary is the API shape of one walk-ride-walk trip proposal.
type Itinerary struct {
	DurationSeconds    int64   `json:"durationSeconds"`
	WalkDistanceMeters float64 `json:"walkDistanceMeters"`
	Transfers          int     `json:"transfers"`
	Fare               Fare    `json:"fare"`
	Legs               []Leg   `json:"legs"`
}

// NewItinerary converts a planner itinerary into its API shape.
func NewItinerary(it planner.Itinerary) Itinerary {
	legs := make([]Leg, 0, len(it.Legs))
	for _, l := range it.Legs {
		legs = append(legs, Leg{
			Mode:            string(l.Mode),
			FromName:        l.FromName,
			FromLat:         l.FromLat,
			FromLon:         l.FromLon,
			ToName:          l.ToName,
			ToLat:           l.ToLat,
			ToLon:           l.ToLon,
			DurationSeconds: int64(l.Duration.Seconds()),
			DistanceMeters:  l.DistanceMeters,
			RouteID:         l.RouteID,
			RouteShortName:  l.RouteShortName,
		})
	}

	return Itinerary{
		DurationSeconds:    int64(it.Duration.Seconds()),
		WalkDistanceMeters: it.WalkDistanceMeters,
		Transfers:          it.Transfers,
		Fare:               Fare{Amount: it.FareAmount, Currency: it.FareCurrency},
		Legs:               legs,
	}
}

// NewItineraries converts a planner result list.
func NewItineraries(its []planner.Itinerary) []Itinerary {
	list := make([]Itinerary, 0, len(its))
	for _, it := range its {
		list = append(list, NewItinerary(it))
	}
	return list
}
