package gtfs

import "time"

// Config describes where the static feed comes from and how often a remote
// feed is re-fetched. StaticSource may be an http(s) URL or a local file
// path; local files are never refreshed.
type Config struct {
	StaticSource    string
	RefreshInterval time.Duration
	Verbose         bool
}

// DefaultRefreshInterval is applied when Config.RefreshInterval is zero.
const DefaultRefreshInterval = 24 * time.Hour
