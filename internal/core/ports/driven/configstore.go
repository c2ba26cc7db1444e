package driven

// ConfigStore provides access to application configuration.
// Keys use dot notation mirroring the TOML tables ("scan.threshold").
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetFloat retrieves a floating point configuration value.
	// Integer values are converted. Returns false if the key doesn't exist
	// or isn't numeric.
	GetFloat(key string) (float64, bool)

	// GetInt retrieves an integer configuration value.
	// Returns false if the key doesn't exist or isn't an integer.
	GetInt(key string) (int, bool)

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path, empty for in-memory stores.
	Path() string
}
