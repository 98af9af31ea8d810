package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum level that gets logged (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format selects the output encoding: json for machines, console for humans.
	Format string `mapstructure:"format" default:"json"`
}
