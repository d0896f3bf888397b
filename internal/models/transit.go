package models

import (
	"github.com/holoholo-transit/planner/internal/transit"
)

// Stop is the API shape of a transit stop. DistanceKm is request-scoped:
// it is the distance from the query point, not a property of the stop.
type Stop struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	DistanceKm float64  `json:"distanceKm,omitempty"`
	RouteIDs   []string `json:"routeIds"`
}

// NewStop builds a Stop model from a snapshot stop and its served routes.
func NewStop(stop transit.Stop, distanceKm float64, routes []transit.Route) Stop {
	routeIDs := make([]string, 0, len(routes))
	for _, r := range routes {
		routeIDs = append(routeIDs, r.ID)
	}
	return Stop{
		ID:         stop.ID,
		Name:       stop.Name,
		Lat:        stop.Lat,
		Lon:        stop.Lon,
		DistanceKm: distanceKm,
		RouteIDs:   routeIDs,
	}
}

// Route is the API shape of a transit route.
type Route struct {
	ID        string `json:"id"`
	ShortName string `json:"shortName"`
	LongName  string `json:"longName"`
}

// NewRoute builds a Route model from a snapshot route.
func NewRoute(route transit.Route) Route {
	return Route{
		ID:        route.ID,
		ShortName: route.ShortName,
		LongName:  route.LongName,
	}
}
