package spam

// Config holds the Akismet connection settings.
type Config struct {
	APIKey     string
	Endpoint   string // e.g. https://rest.akismet.com/1.1
	BlogURL    string
	TimeoutMs  int
	MaxRetries int
}

// DefaultConfig returns a Config without a key; callers must supply APIKey
// and BlogURL.
func DefaultConfig() Config {
	return Config{
		Endpoint:   "https://rest.akismet.com/1.1",
		TimeoutMs:  5000,
		MaxRetries: 1,
	}
}
