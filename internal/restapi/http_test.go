package restapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/holoholo-transit/planner/internal/app"
	"github.com/holoholo-transit/planner/internal/gtfs"
	"github.com/holoholo-transit/planner/internal/models"
	"github.com/holoholo-transit/planner/internal/planner"
	"github.com/holoholo-transit/planner/internal/transit"
)

// testLatPerKm converts kilometers to degrees of latitude for fixture
// layout.
const testLatPerKm = 1.0 / 111.19492664455873

// createTestApi builds a RestAPI over a small fixed network: three stops in
// a north-south line, two routes, one stop with a dangling route reference.
func createTestApi(t *testing.T) *RestAPI {
	t.Helper()

	snap, err := transit.NewSnapshot(
		[]transit.Stop{
			{ID: "S1", Name: "Harbor Terminal", Lat: 0, Lon: 0},
			{ID: "S2", Name: "Market Street", Lat: 5 * testLatPerKm, Lon: 0},
			{ID: "S3", Name: "Garden Gate", Lat: 5.2 * testLatPerKm, Lon: 0},
		},
		[]transit.Route{
			{ID: "R7", ShortName: "7", LongName: "Harbor - Garden"},
			{ID: "R9", ShortName: "9", LongName: "Crosstown"},
		},
		map[string][]string{
			"S1": {"R7", "R9"},
			"S2": {"R7"},
			"S3": {"R9", "ghost-route"},
		},
	)
	require.NoError(t, err)

	manager := gtfs.NewManagerWithSnapshot(gtfs.Config{StaticSource: "testdata/feed.zip"}, nil, snap)

	application := &app.Application{
		Config: app.Config{
			Env:       "test",
			APIKeys:   []string{"TEST"},
			RateLimit: 100,
		},
		PlannerConfig: planner.DefaultConfig(),
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		Manager:       manager,
	}

	api := NewRestAPI(application)
	t.Cleanup(api.Shutdown)
	return api
}

// serveAndRetrieveEndpoint sets up a test server, makes a request to the
// endpoint, and returns the response and decoded envelope.
func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	server := httptest.NewServer(api.Routes())
	defer server.Close()

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck

	var response models.ResponseModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))

	return resp, response
}
