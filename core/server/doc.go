// Package server holds the HTTP server configuration and constants.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structures and derived values for server settings.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key expected in the
// X-API-Key header, the CORS origin whitelist, and the TTL of the cached
// data snapshot.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings and by the start command to wire middleware.
package server
