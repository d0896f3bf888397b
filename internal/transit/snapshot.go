// Package transit holds the static transit network snapshot: stops, routes,
// and the stop-to-routes membership relation, plus a spatial index over the
// stops. A Snapshot is immutable once constructed and safe for concurrent
// readers; refreshing the network is done by building a new Snapshot and
// swapping the pointer, never by mutating one in use.
package transit

import (
	"fmt"
	"math"
	"sort"

	"github.com/tidwall/rtree"

	"github.com/holoholo-transit/planner/internal/geo"
)

// Stop is a fixed boarding/alighting point. Identity is the ID; Lat/Lon are
// decimal degrees.
type Stop struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
}

// Route is a transit line with a rider-facing short code and a long name.
type Route struct {
	ID        string
	ShortName string
	LongName  string
}

// StopDistance pairs a stop with its distance from a query point. The
// distance is request-scoped and never written back into the snapshot.
type StopDistance struct {
	Stop       Stop
	DistanceKm float64
}

// Snapshot is one atomically loaded bundle of stops, routes and membership.
type Snapshot struct {
	stops      []Stop
	stopsByID  map[string]Stop
	routesByID map[string]Route
	membership map[string][]string
	index      *rtree.RTree
}

// NewSnapshot validates and indexes the given network. Records are copied;
// the caller's slices and map may be reused afterwards. Construction fails
// on empty or duplicate identifiers and on non-finite or out-of-range
// coordinates, so malformed feed data surfaces at load time instead of as
// NaNs inside distance math. Membership entries naming unknown routes are
// allowed (see RoutesForStop).
func NewSnapshot(stops []Stop, routes []Route, membership map[string][]string) (*Snapshot, error) {
	s := &Snapshot{
		stops:      make([]Stop, 0, len(stops)),
		stopsByID:  make(map[string]Stop, len(stops)),
		routesByID: make(map[string]Route, len(routes)),
		membership: make(map[string][]string, len(membership)),
		index:      &rtree.RTree{},
	}

	for _, r := range routes {
		if r.ID == "" {
			return nil, fmt.Errorf("route with empty id (short name %q)", r.ShortName)
		}
		if _, dup := s.routesByID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate route id %q", r.ID)
		}
		s.routesByID[r.ID] = r
	}

	for _, st := range stops {
		if st.ID == "" {
			return nil, fmt.Errorf("stop with empty id (name %q)", st.Name)
		}
		if _, dup := s.stopsByID[st.ID]; dup {
			return nil, fmt.Errorf("duplicate stop id %q", st.ID)
		}
		if !geo.IsValidLatLon(st.Lat, st.Lon) {
			return nil, fmt.Errorf("stop %q has invalid coordinates (%v, %v)", st.ID, st.Lat, st.Lon)
		}
		s.stopsByID[st.ID] = st
		s.stops = append(s.stops, st)
		s.index.Insert(
			[2]float64{st.Lat, st.Lon},
			[2]float64{st.Lat, st.Lon},
			st,
		)
	}

	for stopID, routeIDs := range membership {
		s.membership[stopID] = append([]string(nil), routeIDs...)
	}

	return s, nil
}

// Stops returns every stop in the snapshot. The returned slice is shared;
// callers must not modify it.
func (s *Snapshot) Stops() []Stop {
	return s.stops
}

// Routes returns every route, sorted by ID.
func (s *Snapshot) Routes() []Route {
	routes := make([]Route, 0, len(s.routesByID))
	for _, r := range s.routesByID {
		routes = append(routes, r)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].ID < routes[j].ID })
	return routes
}

// StopByID looks up a stop.
func (s *Snapshot) StopByID(id string) (Stop, bool) {
	st, ok := s.stopsByID[id]
	return st, ok
}

// RouteByID looks up a route.
func (s *Snapshot) RouteByID(id string) (Route, bool) {
	r, ok := s.routesByID[id]
	return r, ok
}

// NearbyStops returns every stop within radiusKm of the query point, sorted
// ascending by distance with ties broken by stop ID. The R-tree narrows the
// scan to a bounding box around the point; exact filtering uses haversine
// distance.
func (s *Snapshot) NearbyStops(lat, lon, radiusKm float64) []StopDistance {
	if radiusKm <= 0 {
		return nil
	}

	latDelta := radiusKm / kmPerDegreeLat
	lonDelta := latDelta / math.Max(math.Cos(lat*math.Pi/180), minCosLat)

	var nearby []StopDistance
	collect := func(lonMin, lonMax float64) {
		s.index.Search(
			[2]float64{lat - latDelta, lonMin},
			[2]float64{lat + latDelta, lonMax},
			func(min, max [2]float64, data interface{}) bool {
				st, ok := data.(Stop)
				if !ok {
					return true
				}
				d := geo.DistanceKm(lat, lon, st.Lat, st.Lon)
				if d <= radiusKm {
					nearby = append(nearby, StopDistance{Stop: st, DistanceKm: d})
				}
				return true
			},
		)
	}

	// A box spanning the antimeridian is split in two so stops on the far
	// side of lon ±180 remain candidates. The split halves never overlap
	// when lonDelta < 180, so no stop is visited twice.
	switch lonMin, lonMax := lon-lonDelta, lon+lonDelta; {
	case lonDelta >= 180:
		collect(-180, 180)
	case lonMin < -180:
		collect(-180, lonMax)
		collect(lonMin+360, 180)
	case lonMax > 180:
		collect(lonMin, 180)
		collect(-180, lonMax-360)
	default:
		collect(lonMin, lonMax)
	}

	sort.Slice(nearby, func(i, j int) bool {
		if nearby[i].DistanceKm != nearby[j].DistanceKm {
			return nearby[i].DistanceKm < nearby[j].DistanceKm
		}
		return nearby[i].Stop.ID < nearby[j].Stop.ID
	})
	return nearby
}

// RoutesForStop resolves the routes serving a stop, sorted by ID. Unknown
// stops yield an empty result. Membership entries that name a route missing
// from the snapshot are dropped; partial feed refreshes legitimately leave
// such gaps and must not fail the whole lookup.
func (s *Snapshot) RoutesForStop(stopID string) []Route {
	routeIDs := s.membership[stopID]
	if len(routeIDs) == 0 {
		return nil
	}

	routes := make([]Route, 0, len(routeIDs))
	for _, id := range routeIDs {
		if r, ok := s.routesByID[id]; ok {
			routes = append(routes, r)
		}
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].ID < routes[j].ID })
	return routes
}

const (
	// kmPerDegreeLat is the length of one degree of latitude at the mean
	// Earth radius, used to size the bounding-box prefilter.
	kmPerDegreeLat = geo.EarthRadiusKm * math.Pi / 180

	// minCosLat keeps the longitude delta finite near the poles.
	minCosLat = 0.01
)
