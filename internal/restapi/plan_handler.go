package restapi

import (
	"fmt"
	"net/http"

	"github.com/holoholo-transit/planner/internal/models"
	"github.com/holoholo-transit/planner/internal/utils"
)

// planTripHandler serves GET /api/plan.json. Coordinates are decimal
// degrees, latitude first: fromLat/fromLon for the origin, toLat/toLon for
// the destination.
//
// An empty list is the "no direct route found" outcome; the caller decides
// how to present that. Errors are reserved for bad input.
func (api *RestAPI) planTripHandler(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()

	fromLat, fieldErrors := utils.RequireFloatParam(queryParams, "fromLat", nil)
	fromLon, _ := utils.RequireFloatParam(queryParams, "fromLon", fieldErrors)
	toLat, _ := utils.RequireFloatParam(queryParams, "toLat", fieldErrors)
	toLon, _ := utils.RequireFloatParam(queryParams, "toLon", fieldErrors)

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	fieldErrors = utils.ValidateCoordinatePair(fromLat, fromLon, "fromLat", "fromLon", fieldErrors)
	fieldErrors = utils.ValidateCoordinatePair(toLat, toLon, "toLat", "toLon", fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	// Coordinates are rounded to ~1 m for the cache key so jittery client
	// GPS fixes share entries.
	cacheKey := fmt.Sprintf("plan:%.5f,%.5f:%.5f,%.5f", fromLat, fromLon, toLat, toLon)
	if cached, err := api.planCache.Get(cacheKey); err == nil {
		if list, ok := cached.([]models.Itinerary); ok {
			api.sendResponse(w, r, models.NewListResponse(list, false))
			return
		}
	}

	itineraries, err := api.Matcher().FindDirectRoutes(fromLat, fromLon, toLat, toLon)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	list := models.NewItineraries(itineraries)
	if err := api.planCache.Set(cacheKey, list); err != nil {
		api.Logger.Warn("failed to cache plan response", "error", err)
	}

	api.sendResponse(w, r, models.NewListResponse(list, false))
}
