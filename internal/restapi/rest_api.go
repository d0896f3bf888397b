// Package restapi exposes the trip planner over HTTP: the plan endpoint,
// stop and route lookups, and the middleware around them (API keys, rate
// limiting, request logging, response caching).
package restapi

import (
	"net/http"
	"time"

	"github.com/bluele/gcache"
	"github.com/julienschmidt/httprouter"

	"github.com/holoholo-transit/planner/internal/app"
)

// planCacheSize bounds the plan-response cache; entries also expire so a
// snapshot refresh is picked up within planCacheTTL.
const (
	planCacheSize = 1024
	planCacheTTL  = time.Minute
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
	planCache   gcache.Cache
}

// NewRestAPI creates a RestAPI with its rate limiter and plan cache
// initialized.
func NewRestAPI(application *app.Application) *RestAPI {
	return &RestAPI{
		Application: application,
		rateLimiter: NewRateLimitMiddleware(application.Config.RateLimit, time.Second),
		planCache:   gcache.New(planCacheSize).LRU().Expiration(planCacheTTL).Build(),
	}
}

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.IsInvalidAPIKey(r.URL.Query().Get("key")) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// Routes builds the full handler chain: logging and rate limiting wrap the
// router; API-key validation wraps each endpoint.
func (api *RestAPI) Routes() http.Handler {
	router := httprouter.New()

	router.Handler(http.MethodGet, "/api/plan.json", validateAPIKey(api, api.planTripHandler))
	router.Handler(http.MethodGet, "/api/stops-for-location.json", validateAPIKey(api, api.stopsForLocationHandler))
	router.Handler(http.MethodGet, "/api/routes-for-stop/:id", validateAPIKey(api, api.routesForStopHandler))
	router.Handler(http.MethodGet, "/api/current-time.json", validateAPIKey(api, api.currentTimeHandler))

	return api.requestLoggingMiddleware(api.rateLimiter.Handler(router))
}

// Shutdown releases background resources held by the middleware chain.
func (api *RestAPI) Shutdown() {
	api.rateLimiter.Stop()
}
