// Package planner implements the static direct-route matcher: given an
// origin and destination coordinate pair and a transit snapshot, it finds
// walk-ride-walk itineraries on a single shared route. It uses only data
// already resident in the snapshot; there is no schedule or trip-level
// computation, and travel times are the constant-speed proxies from the geo
// package.
package planner

import (
	"fmt"
	"sort"

	"github.com/holoholo-transit/planner/internal/geo"
	"github.com/holoholo-transit/planner/internal/transit"
)

// Matcher finds direct itineraries over an injected snapshot. It is a pure
// computation with no I/O and is safe for concurrent use; the snapshot must
// not be mutated after construction.
type Matcher struct {
	snapshot *transit.Snapshot
	cfg      Config
}

// New builds a Matcher for the given snapshot. Zero-valued Config fields
// fall back to DefaultConfig, except FareAmount, which is taken as-is so
// that an explicit zero means a free fare.
func New(snapshot *transit.Snapshot, cfg Config) *Matcher {
	return &Matcher{snapshot: snapshot, cfg: cfg.withDefaults()}
}

// FindDirectRoutes returns at most cfg.MaxItineraries walk-ride-walk
// itineraries from the origin to the destination, sorted ascending by total
// duration. Coordinates are decimal degrees, latitude first.
//
// An empty result means no direct route was found (no stop coverage at
// either endpoint, or no route serving both sides); that is a normal
// outcome, not an error. An error is returned only for non-finite or
// out-of-range query coordinates.
//
// The same stop pair can appear more than once when several routes serve
// both stops; candidates are not deduplicated.
func (m *Matcher) FindDirectRoutes(originLat, originLon, destLat, destLon float64) ([]Itinerary, error) {
	if !geo.IsValidLatLon(originLat, originLon) {
		return nil, fmt.Errorf("invalid origin coordinates (%v, %v)", originLat, originLon)
	}
	if !geo.IsValidLatLon(destLat, destLon) {
		return nil, fmt.Errorf("invalid destination coordinates (%v, %v)", destLat, destLon)
	}

	originStops := m.nearbyWithExpansion(originLat, originLon)
	destStops := m.nearbyWithExpansion(destLat, destLon)
	if len(originStops) == 0 || len(destStops) == 0 {
		return nil, nil
	}

	if len(originStops) > m.cfg.MaxStopsPerSide {
		originStops = originStops[:m.cfg.MaxStopsPerSide]
	}
	if len(destStops) > m.cfg.MaxStopsPerSide {
		destStops = destStops[:m.cfg.MaxStopsPerSide]
	}

	var candidates []Itinerary
	for _, board := range originStops {
		boardRoutes := m.snapshot.RoutesForStop(board.Stop.ID)
		if len(boardRoutes) == 0 {
			continue
		}
		for _, alight := range destStops {
			for _, route := range sharedRoutes(boardRoutes, m.snapshot.RoutesForStop(alight.Stop.ID)) {
				candidates = append(candidates, m.buildItinerary(
					originLat, originLon, destLat, destLon,
					board, alight, route,
				))
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Duration < candidates[j].Duration
	})
	if len(candidates) > m.cfg.MaxItineraries {
		candidates = candidates[:m.cfg.MaxItineraries]
	}
	return candidates, nil
}

// nearbyWithExpansion searches at the default radius, then walks the
// expansion ladder until any stop turns up. Each endpoint expands on its
// own; a side with coverage at the default radius is never re-searched.
func (m *Matcher) nearbyWithExpansion(lat, lon float64) []transit.StopDistance {
	radii := append([]float64{m.cfg.DefaultRadiusKm}, m.cfg.RadiusLadderKm...)
	for _, r := range radii {
		if stops := m.snapshot.NearbyStops(lat, lon, r); len(stops) > 0 {
			return stops
		}
	}
	return nil
}

// sharedRoutes intersects two route lists. Both inputs are sorted by ID
// (RoutesForStop guarantees that), so the result is deterministic.
func sharedRoutes(a, b []transit.Route) []transit.Route {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	inB := make(map[string]bool, len(b))
	for _, r := range b {
		inB[r.ID] = true
	}
	var shared []transit.Route
	for _, r := range a {
		if inB[r.ID] {
			shared = append(shared, r)
		}
	}
	return shared
}

func (m *Matcher) buildItinerary(originLat, originLon, destLat, destLon float64, board, alight transit.StopDistance, route transit.Route) Itinerary {
	walkToMeters := board.DistanceKm * 1000
	walkFromMeters := alight.DistanceKm * 1000

	walkTo := geo.WalkDuration(walkToMeters, m.cfg.WalkSpeedMPerMin)
	ride := geo.RideDuration(
		geo.DistanceKm(board.Stop.Lat, board.Stop.Lon, alight.Stop.Lat, alight.Stop.Lon),
		m.cfg.RideSpeedKmh,
	)
	walkFrom := geo.WalkDuration(walkFromMeters, m.cfg.WalkSpeedMPerMin)

	return Itinerary{
		Duration:           walkTo + ride + walkFrom,
		WalkDistanceMeters: walkToMeters + walkFromMeters,
		Transfers:          0,
		FareAmount:         m.cfg.FareAmount,
		FareCurrency:       m.cfg.FareCurrency,
		Legs: []Leg{
			{
				Mode:           LegModeWalk,
				FromName:       "Origin",
				FromLat:        originLat,
				FromLon:        originLon,
				ToName:         board.Stop.Name,
				ToLat:          board.Stop.Lat,
				ToLon:          board.Stop.Lon,
				Duration:       walkTo,
				DistanceMeters: walkToMeters,
			},
			{
				Mode:           LegModeRide,
				FromName:       board.Stop.Name,
				FromLat:        board.Stop.Lat,
				FromLon:        board.Stop.Lon,
				ToName:         alight.Stop.Name,
				ToLat:          alight.Stop.Lat,
				ToLon:          alight.Stop.Lon,
				Duration:       ride,
				RouteID:        route.ID,
				RouteShortName: route.ShortName,
			},
			{
				Mode:           LegModeWalk,
				FromName:       alight.Stop.Name,
				FromLat:        alight.Stop.Lat,
				FromLon:        alight.Stop.Lon,
				ToName:         "Destination",
				ToLat:          destLat,
				ToLon:          destLon,
				Duration:       walkFrom,
				DistanceMeters: walkFromMeters,
			},
		},
	}
}
