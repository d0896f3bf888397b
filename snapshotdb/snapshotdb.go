// Package snapshotdb persists a parsed transit snapshot to SQLite so that a
// restart can reload the network without re-downloading and re-parsing the
// feed. The store holds exactly one snapshot; saving replaces it wholesale.
package snapshotdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/holoholo-transit/planner/internal/transit"
)

// Client wraps the SQLite connection.
type Client struct {
	DB *sql.DB
}

// Open opens (or creates) the store at path. Use ":memory:" for tests.
func Open(path string) (*Client, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening snapshot database: %w", err)
	}

	// One connection keeps ":memory:" databases coherent; the store is
	// only touched at startup, so there is no pooling to lose.
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close() // nolint:errcheck
		return nil, err
	}

	return &Client{DB: db}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.DB.Close()
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS stops (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			lat REAL NOT NULL,
			lon REAL NOT NULL
		);
		CREATE TABLE IF NOT EXISTS routes (
			id TEXT PRIMARY KEY,
			short_name TEXT NOT NULL,
			long_name TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS stop_routes (
			stop_id TEXT NOT NULL,
			route_id TEXT NOT NULL,
			PRIMARY KEY (stop_id, route_id)
		);
		CREATE INDEX IF NOT EXISTS idx_stop_routes_stop_id ON stop_routes(stop_id);
	`)
	if err != nil {
		return fmt.Errorf("error creating snapshot tables: %w", err)
	}
	return nil
}

// SaveSnapshot replaces the stored snapshot with snap and records the save
// time.
func (c *Client) SaveSnapshot(ctx context.Context, snap *transit.Snapshot) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	for _, table := range []string{"stops", "routes", "stop_routes"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("error clearing %s: %w", table, err)
		}
	}

	stopStmt, err := tx.PrepareContext(ctx, "INSERT INTO stops (id, name, lat, lon) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stopStmt.Close() // nolint:errcheck

	memberStmt, err := tx.PrepareContext(ctx, "INSERT INTO stop_routes (stop_id, route_id) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer memberStmt.Close() // nolint:errcheck

	for _, s := range snap.Stops() {
		if _, err := stopStmt.ExecContext(ctx, s.ID, s.Name, s.Lat, s.Lon); err != nil {
			return fmt.Errorf("error inserting stop %q: %w", s.ID, err)
		}
		for _, r := range snap.RoutesForStop(s.ID) {
			if _, err := memberStmt.ExecContext(ctx, s.ID, r.ID); err != nil {
				return fmt.Errorf("error inserting membership %q/%q: %w", s.ID, r.ID, err)
			}
		}
	}

	for _, r := range snap.Routes() {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO routes (id, short_name, long_name) VALUES (?, ?, ?)",
			r.ID, r.ShortName, r.LongName,
		); err != nil {
			return fmt.Errorf("error inserting route %q: %w", r.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO meta (key, value) VALUES ('saved_at', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("error recording save time: %w", err)
	}

	return tx.Commit()
}

// LoadSnapshot rebuilds a snapshot from the store. Returns an error if the
// store is empty.
func (c *Client) LoadSnapshot(ctx context.Context) (*transit.Snapshot, error) {
	rows, err := c.DB.QueryContext(ctx, "SELECT id, name, lat, lon FROM stops")
	if err != nil {
		return nil, fmt.Errorf("error reading stops: %w", err)
	}
	defer rows.Close() // nolint:errcheck

	var stops []transit.Stop
	for rows.Next() {
		var s transit.Stop
		if err := rows.Scan(&s.ID, &s.Name, &s.Lat, &s.Lon); err != nil {
			return nil, fmt.Errorf("error scanning stop: %w", err)
		}
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(stops) == 0 {
		return nil, fmt.Errorf("snapshot store is empty")
	}

	routeRows, err := c.DB.QueryContext(ctx, "SELECT id, short_name, long_name FROM routes")
	if err != nil {
		return nil, fmt.Errorf("error reading routes: %w", err)
	}
	defer routeRows.Close() // nolint:errcheck

	var routes []transit.Route
	for routeRows.Next() {
		var r transit.Route
		if err := routeRows.Scan(&r.ID, &r.ShortName, &r.LongName); err != nil {
			return nil, fmt.Errorf("error scanning route: %w", err)
		}
		routes = append(routes, r)
	}
	if err := routeRows.Err(); err != nil {
		return nil, err
	}

	memberRows, err := c.DB.QueryContext(ctx, "SELECT stop_id, route_id FROM stop_routes")
	if err != nil {
		return nil, fmt.Errorf("error reading memberships: %w", err)
	}
	defer memberRows.Close() // nolint:errcheck

	membership := make(map[string][]string)
	for memberRows.Next() {
		var stopID, routeID string
		if err := memberRows.Scan(&stopID, &routeID); err != nil {
			return nil, fmt.Errorf("error scanning membership: %w", err)
		}
		membership[stopID] = append(membership[stopID], routeID)
	}
	if err := memberRows.Err(); err != nil {
		return nil, err
	}

	return transit.NewSnapshot(stops, routes, membership)
}

// SavedAt returns when the stored snapshot was saved, or the zero time if
// the store has never been written.
func (c *Client) SavedAt(ctx context.Context) (time.Time, error) {
	var value string
	err := c.DB.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = 'saved_at'").Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("error reading save time: %w", err)
	}
	return time.Parse(time.RFC3339, value)
}
