package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// CORSAllowedOrigins lists origins allowed by the CORS middleware.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"gte=0,lte=31"`
}

// LLMConfig contains all LLM integration related settings. Defaults are
// documented here so alternate models and prompts are testable without
// environment mutation.
type LLMConfig struct {
	// GeminiAPIKey authenticates against the Gemini API.
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`

	// ModelName selects the Gemini model. Default: gemini-2.0-flash-001.
	ModelName string `mapstructure:"model_name" validate:"required"`

	// Temperature for generation, 0..2. Default: 0.7.
	Temperature float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`

	// MaxOutputTokens caps the response size. Default: 2048.
	MaxOutputTokens int32 `mapstructure:"max_output_tokens" validate:"gt=0"`

	// RequestTimeoutSeconds bounds one generation call; expiry is treated
	// as a generation failure. Default: 30.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"gt=0"`
}
