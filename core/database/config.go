package database

// Config holds configuration for the database connection.
type Config struct {
	// Driver is the database driver (mysql, sqlite).
	Driver string `mapstructure:"driver" default:"mysql"`
	// Host is the database host. Ignored for sqlite.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port. Ignored for sqlite.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user. Ignored for sqlite.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password. Ignored for sqlite.
	Password string `mapstructure:"password" default:""`
	// Name is the database name. For sqlite it is the database path,
	// or ":memory:" for an in-memory store.
	Name string `mapstructure:"name" default:"registration"`
	// TimeoutSeconds bounds connection setup and I/O on the wire.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
