package restapi

import (
	"net/http"

	"github.com/holoholo-transit/planner/internal/models"
	"github.com/holoholo-transit/planner/internal/utils"
)

// maxStopsForLocation caps the list returned by the stop search endpoint.
const maxStopsForLocation = 100

// stopsForLocationHandler serves GET /api/stops-for-location.json. The
// radius parameter is kilometers; when absent the planner's default search
// radius is used. An explicit radius=0 is honored and matches no stops.
func (api *RestAPI) stopsForLocationHandler(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()

	lat, fieldErrors := utils.RequireFloatParam(queryParams, "lat", nil)
	lon, _ := utils.RequireFloatParam(queryParams, "lon", fieldErrors)
	radiusSet := queryParams.Get("radius") != ""
	radius, _ := utils.ParseFloatParam(queryParams, "radius", fieldErrors)

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	fieldErrors = utils.ValidateCoordinatePair(lat, lon, "lat", "lon", fieldErrors)
	if err := utils.ValidateRadiusKm(radius); err != nil {
		fieldErrors["radius"] = append(fieldErrors["radius"], err.Error())
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	if !radiusSet {
		radius = api.PlannerConfig.DefaultRadiusKm
	}

	snapshot := api.Manager.Snapshot()
	nearby := snapshot.NearbyStops(lat, lon, radius)

	limitExceeded := len(nearby) > maxStopsForLocation
	if limitExceeded {
		nearby = nearby[:maxStopsForLocation]
	}

	results := make([]models.Stop, 0, len(nearby))
	for _, sd := range nearby {
		results = append(results, models.NewStop(sd.Stop, sd.DistanceKm, snapshot.RoutesForStop(sd.Stop.ID)))
	}

	api.sendResponse(w, r, models.NewListResponse(results, limitExceeded))
}
