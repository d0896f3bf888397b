// Package gtfs loads a static GTFS feed and converts it into the planner's
// transit snapshot. It is the only package that knows about the feed format;
// everything downstream sees transit.Snapshot.
package gtfs

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	remotegtfs "github.com/jamespfennell/gtfs"

	"github.com/holoholo-transit/planner/internal/transit"
)

// IsLocalSource reports whether the source is a file path rather than a URL.
func IsLocalSource(source string) bool {
	return !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://")
}

func rawFeedData(source string) ([]byte, error) {
	if IsLocalSource(source) {
		b, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("error reading local GTFS file: %w", err)
		}
		return b, nil
	}

	resp, err := http.Get(source)
	if err != nil {
		return nil, fmt.Errorf("error downloading GTFS data: %w", err)
	}
	defer resp.Body.Close() // nolint

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GTFS download returned status %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS data: %w", err)
	}
	return b, nil
}

// LoadSnapshot fetches, parses and converts the feed in one step.
func LoadSnapshot(source string) (*transit.Snapshot, error) {
	b, err := rawFeedData(source)
	if err != nil {
		return nil, err
	}

	staticData, err := remotegtfs.ParseStatic(b, remotegtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("error parsing GTFS data: %w", err)
	}

	return SnapshotFromStatic(staticData)
}

// SnapshotFromStatic converts a parsed feed into a transit snapshot. The
// stop-to-routes membership is derived from the scheduled trips: a route
// serves every stop that appears in any of its trips' stop times. Stops
// without coordinates are skipped; their membership entries become dangling
// references, which the snapshot's tolerant join already handles.
func SnapshotFromStatic(staticData *remotegtfs.Static) (*transit.Snapshot, error) {
	stops := make([]transit.Stop, 0, len(staticData.Stops))
	for _, s := range staticData.Stops {
		if s.Latitude == nil || s.Longitude == nil {
			continue
		}
		stops = append(stops, transit.Stop{
			ID:   s.Id,
			Name: s.Name,
			Lat:  *s.Latitude,
			Lon:  *s.Longitude,
		})
	}

	routes := make([]transit.Route, 0, len(staticData.Routes))
	for _, r := range staticData.Routes {
		routes = append(routes, transit.Route{
			ID:        r.Id,
			ShortName: r.ShortName,
			LongName:  r.LongName,
		})
	}

	membership := make(map[string][]string)
	seen := make(map[string]map[string]bool)
	for _, trip := range staticData.Trips {
		if trip.Route == nil {
			continue
		}
		routeID := trip.Route.Id
		for _, st := range trip.StopTimes {
			if st.Stop == nil {
				continue
			}
			stopID := st.Stop.Id
			if seen[stopID] == nil {
				seen[stopID] = make(map[string]bool)
			}
			if seen[stopID][routeID] {
				continue
			}
			seen[stopID][routeID] = true
			membership[stopID] = append(membership[stopID], routeID)
		}
	}

	return transit.NewSnapshot(stops, routes, membership)
}
