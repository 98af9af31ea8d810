package backup

// Config holds configuration for the merge engine.
type Config struct {
	// SchemaPath points to the YAML merge schema document. Empty means the
	// built-in DefaultSchema.
	SchemaPath string `mapstructure:"schema_path" default:""`
	// DefaultPolicy is the conflict policy used when a caller supplies none.
	DefaultPolicy Policy `mapstructure:"default_policy" default:"current_wins"`
	// PreserveNewer is the default for the merge_fields timestamp guard.
	PreserveNewer bool `mapstructure:"preserve_newer" default:"false"`
}

// ResolveSchema loads the configured schema document, or the built-in
// schema when no path is configured.
func (c Config) ResolveSchema() (*Schema, error) {
	if c.SchemaPath == "" {
		return DefaultSchema(), nil
	}
	return LoadSchema(c.SchemaPath)
}

// ApplyDefaults substitutes the configured run defaults where opts leaves
// the policy out. The configured PreserveNewer only kicks in alongside the
// default policy; options that pick their own policy say all they mean.
func (c Config) ApplyDefaults(opts Options) Options {
	if opts.Policy == "" {
		opts.Policy = c.DefaultPolicy
		if opts.Policy == "" {
			opts.Policy = PolicyCurrentWins
		}
		if c.PreserveNewer {
			opts.PreserveNewer = true
		}
	}
	return opts
}
