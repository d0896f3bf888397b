package restapi

import (
	"net/http"

	"github.com/holoholo-transit/planner/internal/models"
	"github.com/holoholo-transit/planner/internal/utils"
)

// routesForStopHandler serves GET /api/routes-for-stop/{id}. Membership
// entries that point at routes missing from the snapshot are simply absent
// from the list.
func (api *RestAPI) routesForStopHandler(w http.ResponseWriter, r *http.Request) {
	stopID := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateID(stopID); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"id": {err.Error()},
		})
		return
	}

	snapshot := api.Manager.Snapshot()
	stop, ok := snapshot.StopByID(stopID)
	if !ok {
		api.sendNotFound(w, r)
		return
	}

	routes := snapshot.RoutesForStop(stopID)
	routeModels := make([]models.Route, 0, len(routes))
	for _, route := range routes {
		routeModels = append(routeModels, models.NewRoute(route))
	}

	entry := struct {
		Stop   models.Stop    `json:"stop"`
		Routes []models.Route `json:"routes"`
	}{
		Stop:   models.NewStop(stop, 0, routes),
		Routes: routeModels,
	}

	api.sendResponse(w, r, models.NewEntryResponse(entry))
}
