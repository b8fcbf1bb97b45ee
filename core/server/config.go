package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key clients must send in the X-API-Key header.
	// An empty key disables authentication.
	ApiKey string `mapstructure:"api_key" default:""`
	// AllowOrigins is the comma-separated CORS origin whitelist.
	AllowOrigins string `mapstructure:"allow_origins" default:"*"`
	// SnapshotTTLSeconds is the time-to-live for the cached /api/data
	// snapshot. Zero disables the cache.
	SnapshotTTLSeconds int `mapstructure:"snapshot_ttl_seconds" default:"0"`
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return ":" + c.Port
}

// SnapshotTTL returns the snapshot cache TTL as a duration.
func (c Config) SnapshotTTL() time.Duration {
	if c.SnapshotTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.SnapshotTTLSeconds) * time.Second
}
