package server

// DefaultBodyLimitMB is the request body cap applied when the configured
// value is missing or nonsensical.
const DefaultBodyLimitMB = 64

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// BodyLimitMB caps the request body size in megabytes. Artifact uploads
	// carry whole table snapshots, so the cap sits well above typical API
	// payloads.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"64"`
}

// BodyLimitBytes returns the body cap in bytes, the unit Fiber expects.
// Zero and negative configured values fall back to the default.
func (c Config) BodyLimitBytes() int {
	mb := c.BodyLimitMB
	if mb <= 0 {
		mb = DefaultBodyLimitMB
	}
	return mb * 1024 * 1024
}
