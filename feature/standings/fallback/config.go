package fallback

// Config holds configuration for the lookup-service fallback.
type Config struct {
	// APIKey is the service credential. When empty the fallback reports
	// itself unavailable without attempting a call.
	APIKey string `mapstructure:"api_key" default:""`
	// APIURL is the messages endpoint.
	APIURL string `mapstructure:"api_url" default:"https://api.anthropic.com/v1/messages"`
	// APIVersion is the service protocol version header.
	APIVersion string `mapstructure:"api_version" default:"2023-06-01"`
	// Model is the lookup model to query.
	Model string `mapstructure:"model" default:"claude-haiku-4-5-20251001"`
	// MaxTokens bounds the response size.
	MaxTokens int `mapstructure:"max_tokens" default:"2000"`
	// TimeoutSeconds bounds the request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// GamesName scopes the query prompt.
	GamesName string `mapstructure:"games_name" default:"2026 Winter Olympics"`
}
