package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Cards    CardsConfig    `mapstructure:"cards"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url"            validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
}

// AuthConfig contains the settings for validating upstream-issued tokens.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gte=1"`
}

// LLMConfig selects and configures the card generation provider.
type LLMConfig struct {
	Provider          string   `mapstructure:"provider"            validate:"required,oneof=ollama gemini"`
	GeminiAPIKey      string   `mapstructure:"gemini_api_key"      validate:"required_if=Provider gemini"`
	GeminiModel       string   `mapstructure:"gemini_model"        validate:"required"`
	OllamaEndpoints   []string `mapstructure:"ollama_endpoints"    validate:"required_if=Provider ollama,dive,url"`
	OllamaModel       string   `mapstructure:"ollama_model"        validate:"required"`
	APIKey            string   `mapstructure:"api_key"`
	TimeoutSeconds    int      `mapstructure:"timeout_seconds"     validate:"gte=1"`
	MaxRetries        int      `mapstructure:"max_retries"         validate:"gte=0,lte=10"`
	RetryDelaySeconds int      `mapstructure:"retry_delay_seconds" validate:"gte=0"`
	Temperature       float32  `mapstructure:"temperature"         validate:"gte=0,lte=2"`
	MaxTokens         int      `mapstructure:"max_tokens"          validate:"gte=1"`
}

// CardsConfig bounds AI card generation.
type CardsConfig struct {
	MaxGenerated     int `mapstructure:"max_generated"     validate:"gte=1,lte=100"`
	DefaultGenerated int `mapstructure:"default_generated" validate:"gte=1,ltefield=MaxGenerated"`
}
