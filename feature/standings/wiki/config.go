package wiki

// Config holds configuration for the primary (scraped) source.
type Config struct {
	// MedalURL is the page carrying the medal table.
	MedalURL string `mapstructure:"medal_url" default:"https://en.wikipedia.org/wiki/2026_Winter_Olympics_medal_table"`
	// BaseURL is the prefix for per-event article lookups.
	BaseURL string `mapstructure:"base_url" default:"https://en.wikipedia.org/wiki/"`
	// UserAgent identifies the tracker to the source.
	UserAgent string `mapstructure:"user_agent" default:"Mozilla/5.0 (compatible; OlympicsTracker/1.0)"`
	// TimeoutSeconds bounds every HTTP request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
	// MaxRetries bounds retry attempts for transient network failures.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// MaxResultLookups caps per-event article fetches in one refresh cycle.
	MaxResultLookups int `mapstructure:"max_result_lookups" default:"5"`
	// FocusCountry is the IOC code tournament game scores are read against.
	FocusCountry string `mapstructure:"focus_country" default:"USA"`
}
