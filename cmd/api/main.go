package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/holoholo-transit/planner/internal/app"
	"github.com/holoholo-transit/planner/internal/config"
	"github.com/holoholo-transit/planner/internal/gtfs"
	"github.com/holoholo-transit/planner/internal/logging"
	"github.com/holoholo-transit/planner/internal/planner"
	"github.com/holoholo-transit/planner/internal/restapi"
	"github.com/holoholo-transit/planner/internal/transit"
	"github.com/holoholo-transit/planner/snapshotdb"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// A .env file is optional; real environments set variables directly.
	_ = godotenv.Load()

	var cfg app.Config
	var apiKeysFlag string
	var configPath string
	var gtfsSource string
	var snapshotDBPath string
	var refreshInterval time.Duration
	var verbose bool

	flag.IntVar(&cfg.Port, "port", 4000, "API server port")
	flag.StringVar(&cfg.Env, "env", "development", "Environment (development|staging|production)")
	flag.StringVar(&apiKeysFlag, "api-keys", "test", "Comma separated API keys")
	flag.IntVar(&cfg.RateLimit, "rate-limit", 100, "Requests per second allowed per API key")
	flag.StringVar(&configPath, "config", envOr("PLANNER_CONFIG", ""), "Path to a YAML planner config file")
	flag.StringVar(&gtfsSource, "gtfs-source", envOr("GTFS_SOURCE", ""), "URL or path of a static GTFS zip file")
	flag.StringVar(&snapshotDBPath, "snapshot-db", envOr("SNAPSHOT_DB", ""), "Path to the sqlite snapshot cache (optional)")
	flag.DurationVar(&refreshInterval, "refresh-interval", gtfs.DefaultRefreshInterval, "How often a remote feed is re-fetched")
	flag.BoolVar(&verbose, "verbose", false, "Verbose logging")
	flag.Parse()

	if apiKeysFlag != "" {
		cfg.APIKeys = strings.Split(apiKeysFlag, ",")
		for i := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(cfg.APIKeys[i])
		}
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := logging.NewStructuredLogger(os.Stdout, level)

	plannerCfg := planner.DefaultConfig()
	if configPath != "" {
		fileCfg, err := config.Load(configPath)
		if err != nil {
			logger.Error("failed to load config file", "error", err, "path", configPath)
			os.Exit(1)
		}
		plannerCfg = fileCfg.PlannerConfig()
		if gtfsSource == "" {
			gtfsSource = fileCfg.Feed.StaticSource
		}
		if snapshotDBPath == "" {
			snapshotDBPath = fileCfg.Feed.SnapshotDBPath
		}
	}

	if gtfsSource == "" {
		logger.Error("no GTFS source configured; set -gtfs-source or the feed.staticSource config field")
		os.Exit(1)
	}

	feedCfg := gtfs.Config{
		StaticSource:    gtfsSource,
		RefreshInterval: refreshInterval,
		Verbose:         verbose,
	}

	snapshot, err := acquireSnapshot(logger, feedCfg, snapshotDBPath, refreshInterval)
	if err != nil {
		logger.Error("failed to load transit snapshot", "error", err)
		os.Exit(1)
	}

	manager := gtfs.NewManagerWithSnapshot(feedCfg, logger, snapshot)
	manager.StartRefresh()
	defer manager.Shutdown()

	application := &app.Application{
		Config:        cfg,
		PlannerConfig: plannerCfg,
		Logger:        logger,
		Manager:       manager,
	}

	api := restapi.NewRestAPI(application)
	defer api.Shutdown()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	logger.Info("starting server",
		"addr", srv.Addr,
		"env", cfg.Env,
		"stops", len(snapshot.Stops()),
		"routes", len(snapshot.Routes()),
	)
	err = srv.ListenAndServe()
	logger.Error(err.Error())
	os.Exit(1)
}

// acquireSnapshot loads the network from the sqlite cache when it is fresh
// enough, falling back to the feed itself. A fetched snapshot is written
// back to the cache for the next restart.
func acquireSnapshot(logger *slog.Logger, feedCfg gtfs.Config, dbPath string, maxAge time.Duration) (*transit.Snapshot, error) {
	if dbPath == "" {
		return gtfs.LoadSnapshot(feedCfg.StaticSource)
	}

	store, err := snapshotdb.Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer store.Close() // nolint:errcheck

	ctx := context.Background()

	savedAt, err := store.SavedAt(ctx)
	if err == nil && !savedAt.IsZero() && time.Since(savedAt) < maxAge {
		snap, loadErr := store.LoadSnapshot(ctx)
		if loadErr == nil {
			logger.Info("loaded transit snapshot from cache", "path", dbPath, "saved_at", savedAt)
			return snap, nil
		}
		logger.Warn("snapshot cache unusable, fetching feed", "error", loadErr)
	}

	snap, err := gtfs.LoadSnapshot(feedCfg.StaticSource)
	if err != nil {
		return nil, err
	}

	if err := store.SaveSnapshot(ctx, snap); err != nil {
		logger.Warn("failed to write snapshot cache", "error", err, "path", dbPath)
	}
	return snap, nil
}
