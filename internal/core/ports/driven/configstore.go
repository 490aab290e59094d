package driven

// ConfigStore provides access to application configuration.
// Keys use dot notation matching the file's tables, e.g. "listen.port".
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	// Values keep the type they were decoded or set with; callers check it.
	Get(key string) (any, bool)

	// Set stores a configuration value and persists it.
	Set(key string, value any) error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
