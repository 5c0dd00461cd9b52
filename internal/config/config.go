package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	TwilioAccountSID string `envconfig:"TWILIO_ACCOUNT_SID" required:"true"`
	TwilioAuthToken  string `envconfig:"TWILIO_AUTH_TOKEN" required:"true"`
	TwilioFrom       string `envconfig:"TWILIO_WHATSAPP_FROM" required:"true"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY" required:"true"`
	OpenAIModel  string `envconfig:"OPENAI_MODEL" default:"gpt-4.1-mini"`

	HTTPAddr  string `envconfig:"HTTP_ADDR" default:":3000"`
	DBPath    string `envconfig:"DB_PATH" default:""` // empty = in-memory only
	DefaultTZ string `envconfig:"DEFAULT_TZ" default:"America/Sao_Paulo"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
}

// Load reads a local .env file (if any) and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
