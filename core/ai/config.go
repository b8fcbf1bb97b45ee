package ai

// Config holds configuration for the generative AI provider.
type Config struct {
	// APIKey is the Gemini API key. Empty disables AI-backed features.
	APIKey string `mapstructure:"api_key" default:""`
	// Model is the model used for both text and document calls.
	Model string `mapstructure:"model" default:"gemini-2.0-flash"`
	// TimeoutSeconds bounds a single generation call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
}
