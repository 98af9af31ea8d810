// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structure for server settings, such as the listen
// port and the request body cap.
//
// # Configuration
//
// The Config struct defines the HTTP port and the body limit in megabytes.
// The body limit matters here more than in a typical API: artifact uploads
// carry entire table snapshots in one request.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings and by the start command to size the Fiber application.
package server
