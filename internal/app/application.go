// Package app wires the application's dependencies together for the HTTP
// handlers and middleware.
package app

import (
	"log/slog"

	"github.com/holoholo-transit/planner/internal/gtfs"
	"github.com/holoholo-transit/planner/internal/planner"
)

// Application holds the dependencies shared by handlers, helpers and
// middleware: configuration, the logger, and the snapshot manager.
type Application struct {
	Config        Config
	PlannerConfig planner.Config
	Logger        *slog.Logger
	Manager       *gtfs.Manager
}

// Config holds the server-level settings read from command-line flags when
// the application starts.
type Config struct {
	Port      int
	Env       string
	APIKeys   []string
	RateLimit int
}

// Matcher builds a direct-route matcher over the current snapshot. Built
// per request so a snapshot refresh mid-flight never changes the data under
// an in-progress search.
func (app *Application) Matcher() *planner.Matcher {
	return planner.New(app.Manager.Snapshot(), app.PlannerConfig)
}

// IsInvalidAPIKey checks an API key against the configured keys. An empty
// key is always invalid.
func (app *Application) IsInvalidAPIKey(key string) bool {
	if key == "" {
		return true
	}
	for _, validKey := range app.Config.APIKeys {
		if key == validKey {
			return false
		}
	}
	return true
}
