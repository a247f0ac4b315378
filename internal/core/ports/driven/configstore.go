package driven

// ConfigStore provides persistent key-value application configuration.
type ConfigStore interface {
	// Get retrieves a value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" when absent.
	GetString(key string) string

	// GetBool retrieves a boolean value, or false when absent.
	GetBool(key string) bool

	// GetFloat retrieves a float value, or 0 when absent.
	GetFloat(key string) float64

	// Set stores a value and persists it.
	Set(key string, value any) error

	// Delete removes a key and persists the change.
	Delete(key string) error
}
