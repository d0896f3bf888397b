package restapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/holoholo-transit/planner/internal/logging"
)

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// requestLoggingMiddleware assigns each request a UUID, exposes it in the
// X-Request-ID response header, and logs method, path, status and duration
// once the handler returns.
func (api *RestAPI) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		requestLogger := api.Logger.With(slog.String("request_id", requestID))
		ctx := logging.WithLogger(r.Context(), requestLogger)
		next.ServeHTTP(rec, r.WithContext(ctx))

		logging.LogHTTPRequest(
			requestLogger,
			r.Method,
			r.URL.Path,
			rec.status,
			float64(time.Since(start).Microseconds())/1000.0,
		)
	})
}
