package planner

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holoholo-transit/planner/internal/geo"
	"github.com/holoholo-transit/planner/internal/transit"
)

// latDeg converts a north-south distance in kilometers to degrees of
// latitude, so test fixtures can be laid out in exact distances.
func latDeg(km float64) float64 {
	return km / (geo.EarthRadiusKm * math.Pi / 180)
}

func mustSnapshot(t *testing.T, stops []transit.Stop, routes []transit.Route, membership map[string][]string) *transit.Snapshot {
	t.Helper()
	snap, err := transit.NewSnapshot(stops, routes, membership)
	require.NoError(t, err)
	return snap
}

func TestFindDirectRoutesSingleMatch(t *testing.T) {
	// Two stops 1 km apart on route "7"; origin 100 m south of the first,
	// destination 100 m north of the second.
	stop1 := latDeg(0.1)
	stop2 := stop1 + latDeg(1.0)
	dest := stop2 + latDeg(0.1)

	snap := mustSnapshot(t,
		[]transit.Stop{
			{ID: "S1", Name: "South End", Lat: stop1, Lon: 0},
			{ID: "S2", Name: "North End", Lat: stop2, Lon: 0},
		},
		[]transit.Route{{ID: "R7", ShortName: "7", LongName: "North Line"}},
		map[string][]string{"S1": {"R7"}, "S2": {"R7"}},
	)

	itins, err := New(snap, DefaultConfig()).FindDirectRoutes(0, 0, dest, 0)
	require.NoError(t, err)
	require.Len(t, itins, 1)

	it := itins[0]
	assert.Equal(t, 0, it.Transfers)
	assert.InDelta(t, 200, it.WalkDistanceMeters, 1)

	// walk(100 m) = 1 min, ride(1 km at 25 km/h) = 144 s, walk(100 m) = 1 min.
	assert.InDelta(t, (264 * time.Second).Seconds(), it.Duration.Seconds(), 1)

	require.Len(t, it.Legs, 3)
	assert.Equal(t, LegModeWalk, it.Legs[0].Mode)
	assert.Equal(t, LegModeRide, it.Legs[1].Mode)
	assert.Equal(t, LegModeWalk, it.Legs[2].Mode)
	assert.Equal(t, "7", it.Legs[1].RouteShortName)
	assert.Equal(t, "South End", it.Legs[0].ToName)
	assert.Equal(t, "North End", it.Legs[1].ToName)
	assert.Equal(t, "Destination", it.Legs[2].ToName)
	assert.Equal(t, it.Legs[0].Duration+it.Legs[1].Duration+it.Legs[2].Duration, it.Duration)
}

func TestFindDirectRoutesNoCoverage(t *testing.T) {
	snap := mustSnapshot(t,
		[]transit.Stop{{ID: "S1", Name: "Lonely", Lat: 0, Lon: 0}},
		[]transit.Route{{ID: "A", ShortName: "A", LongName: "Route A"}},
		map[string][]string{"S1": {"A"}},
	)

	// Origin 50 km away from the only stop.
	itins, err := New(snap, DefaultConfig()).FindDirectRoutes(latDeg(50), 0, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, itins)
}

func TestFindDirectRoutesNoSharedRoute(t *testing.T) {
	snap := mustSnapshot(t,
		[]transit.Stop{
			{ID: "S1", Name: "West", Lat: 0, Lon: 0},
			{ID: "S2", Name: "East", Lat: latDeg(1.0), Lon: 0},
		},
		[]transit.Route{
			{ID: "A", ShortName: "A", LongName: "Route A"},
			{ID: "B", ShortName: "B", LongName: "Route B"},
		},
		map[string][]string{"S1": {"A"}, "S2": {"B"}},
	)

	itins, err := New(snap, DefaultConfig()).FindDirectRoutes(0, 0, latDeg(1.0), 0)
	require.NoError(t, err)
	assert.Empty(t, itins)
}

func TestFindDirectRoutesExpansionLadder(t *testing.T) {
	// Origin has coverage at the default radius. The destination's only
	// stop sits 1.2 km out, so only the first ladder expansion finds it.
	// A second origin-side stop 1.0 km out would join the search only if
	// the origin side were re-expanded; the single returned candidate
	// proves it was not.
	destLat := latDeg(10.0)
	snap := mustSnapshot(t,
		[]transit.Stop{
			{ID: "near", Name: "Near Origin", Lat: latDeg(0.5), Lon: 0},
			{ID: "far", Name: "Far From Origin", Lat: latDeg(1.0), Lon: 0},
			{ID: "dest", Name: "Dest Stop", Lat: destLat - latDeg(1.2), Lon: 0},
		},
		[]transit.Route{{ID: "R1", ShortName: "1", LongName: "Line 1"}},
		map[string][]string{"near": {"R1"}, "far": {"R1"}, "dest": {"R1"}},
	)

	itins, err := New(snap, DefaultConfig()).FindDirectRoutes(0, 0, destLat, 0)
	require.NoError(t, err)
	require.Len(t, itins, 1)
	assert.Equal(t, "Near Origin", itins[0].Legs[0].ToName)
	assert.Equal(t, "Dest Stop", itins[0].Legs[1].ToName)
}

func TestFindDirectRoutesSameStopBothSides(t *testing.T) {
	// Origin and destination both resolve to the same stop; the ride leg
	// degenerates to zero duration but the candidate is still valid.
	snap := mustSnapshot(t,
		[]transit.Stop{{ID: "S1", Name: "Plaza", Lat: 0, Lon: 0}},
		[]transit.Route{{ID: "R1", ShortName: "1", LongName: "Loop"}},
		map[string][]string{"S1": {"R1"}},
	)

	itins, err := New(snap, DefaultConfig()).FindDirectRoutes(latDeg(0.1), 0, -latDeg(0.1), 0)
	require.NoError(t, err)
	require.Len(t, itins, 1)
	assert.Zero(t, itins[0].Legs[1].Duration)
	assert.Equal(t, 0, itins[0].Transfers)
}

func TestFindDirectRoutesDuplicateRoutesPerPair(t *testing.T) {
	// Two routes serve both stops: the stop pair yields two candidates.
	snap := mustSnapshot(t,
		[]transit.Stop{
			{ID: "S1", Name: "A", Lat: 0, Lon: 0},
			{ID: "S2", Name: "B", Lat: latDeg(1.0), Lon: 0},
		},
		[]transit.Route{
			{ID: "R1", ShortName: "1", LongName: "Line 1"},
			{ID: "R2", ShortName: "2", LongName: "Line 2"},
		},
		map[string][]string{"S1": {"R1", "R2"}, "S2": {"R1", "R2"}},
	)

	itins, err := New(snap, DefaultConfig()).FindDirectRoutes(latDeg(0.1), 0, latDeg(0.9), 0)
	require.NoError(t, err)
	require.Len(t, itins, 2)
	assert.Equal(t, "R1", itins[0].Legs[1].RouteID)
	assert.Equal(t, "R2", itins[1].Legs[1].RouteID)
}

func TestFindDirectRoutesRankingAndTruncation(t *testing.T) {
	// One boarding stop, four alighting stops at increasing walk distance
	// from the destination: four candidates with distinct durations, of
	// which only the three fastest come back.
	destLat := latDeg(10.0)
	stops := []transit.Stop{{ID: "board", Name: "Board", Lat: 0, Lon: 0}}
	membership := map[string][]string{"board": {"R1"}}
	alightOffsets := []float64{0.2, 0.4, 0.6, 0.7}
	for i, off := range alightOffsets {
		id := string(rune('a' + i))
		stops = append(stops, transit.Stop{
			ID: id, Name: "Alight " + id, Lat: destLat - latDeg(off), Lon: 0,
		})
		membership[id] = []string{"R1"}
	}
	snap := mustSnapshot(t, stops,
		[]transit.Route{{ID: "R1", ShortName: "1", LongName: "Line 1"}},
		membership,
	)

	itins, err := New(snap, DefaultConfig()).FindDirectRoutes(0, 0, destLat, 0)
	require.NoError(t, err)
	require.Len(t, itins, 3)
	for i := 1; i < len(itins); i++ {
		assert.LessOrEqual(t, itins[i-1].Duration, itins[i].Duration)
	}
}

func TestFindDirectRoutesStopPairBound(t *testing.T) {
	// Six stops near each endpoint, all on one route. Only the five
	// nearest per side are examined, so 25 candidates, not 36.
	destLat := latDeg(10.0)
	var stops []transit.Stop
	membership := map[string][]string{}
	for i := 0; i < 6; i++ {
		oid := "o" + string(rune('0'+i))
		did := "d" + string(rune('0'+i))
		stops = append(stops,
			transit.Stop{ID: oid, Name: oid, Lat: latDeg(0.1 * float64(i+1)), Lon: 0},
			transit.Stop{ID: did, Name: did, Lat: destLat - latDeg(0.1*float64(i+1)), Lon: 0},
		)
		membership[oid] = []string{"R1"}
		membership[did] = []string{"R1"}
	}
	snap := mustSnapshot(t, stops,
		[]transit.Route{{ID: "R1", ShortName: "1", LongName: "Line 1"}},
		membership,
	)

	cfg := DefaultConfig()
	cfg.MaxItineraries = 100
	itins, err := New(snap, cfg).FindDirectRoutes(0, 0, destLat, 0)
	require.NoError(t, err)
	assert.Len(t, itins, 25)
}

func TestFindDirectRoutesBoundedOutput(t *testing.T) {
	destLat := latDeg(10.0)
	var stops []transit.Stop
	membership := map[string][]string{}
	for i := 0; i < 5; i++ {
		oid := "o" + string(rune('0'+i))
		did := "d" + string(rune('0'+i))
		stops = append(stops,
			transit.Stop{ID: oid, Name: oid, Lat: latDeg(0.1 * float64(i+1)), Lon: 0},
			transit.Stop{ID: did, Name: did, Lat: destLat - latDeg(0.1*float64(i+1)), Lon: 0},
		)
		membership[oid] = []string{"R1"}
		membership[did] = []string{"R1"}
	}
	snap := mustSnapshot(t, stops,
		[]transit.Route{{ID: "R1", ShortName: "1", LongName: "Line 1"}},
		membership,
	)

	itins, err := New(snap, DefaultConfig()).FindDirectRoutes(0, 0, destLat, 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(itins), 3)
}

func TestFindDirectRoutesInvalidCoordinates(t *testing.T) {
	snap := mustSnapshot(t,
		[]transit.Stop{{ID: "S1", Name: "A", Lat: 0, Lon: 0}},
		nil, nil,
	)
	m := New(snap, DefaultConfig())

	_, err := m.FindDirectRoutes(math.NaN(), 0, 0, 0)
	assert.ErrorContains(t, err, "origin")

	_, err = m.FindDirectRoutes(0, 0, 0, math.Inf(1))
	assert.ErrorContains(t, err, "destination")
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultConfig().DefaultRadiusKm, cfg.DefaultRadiusKm)
	assert.Equal(t, []float64{1.5, 2.0}, cfg.RadiusLadderKm)
	assert.Equal(t, 5, cfg.MaxStopsPerSide)
	assert.Equal(t, 3, cfg.MaxItineraries)

	custom := Config{MaxItineraries: 10, FareAmount: 2.75, FareCurrency: "EUR"}.withDefaults()
	assert.Equal(t, 10, custom.MaxItineraries)
	assert.Equal(t, 2.75, custom.FareAmount)
	assert.Equal(t, "EUR", custom.FareCurrency)
}
