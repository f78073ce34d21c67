package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Env         string `env:"ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`

	Auth AuthConfig

	InviteBaseURL       string   `env:"INVITE_BASE_URL" envDefault:"http://localhost:8081"`
	InviteRatePerMinute int      `env:"INVITE_RATE_PER_MINUTE" envDefault:"10"`
	CORSOrigins         []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

type AuthConfig struct {
	URL            string        `env:"AUTH_URL" envDefault:"http://localhost:9999"`
	AnonKey        string        `env:"AUTH_ANON_KEY"`
	ServiceRoleKey string        `env:"AUTH_SERVICE_ROLE_KEY"`
	Timeout        time.Duration `env:"AUTH_TIMEOUT" envDefault:"15s"`
}

type ClientConfig struct {
	Env         string `env:"ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"warn"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	Auth AuthConfig

	SessionStore  string `env:"SESSION_STORE" envDefault:"file"`
	SessionFile   string `env:"SESSION_FILE"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	BootstrapTimeout time.Duration `env:"BOOTSTRAP_TIMEOUT" envDefault:"6s"`
	InviteBaseURL    string        `env:"INVITE_BASE_URL" envDefault:"http://localhost:8081"`
}

// Load reads the API server configuration from the environment, after merging .env if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.InviteBaseURL = strings.TrimRight(cfg.InviteBaseURL, "/")
	return &cfg, nil
}

// LoadClient reads the CLI client configuration.
func LoadClient() (*ClientConfig, error) {
	_ = godotenv.Load()

	var cfg ClientConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.InviteBaseURL = strings.TrimRight(cfg.InviteBaseURL, "/")
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *ClientConfig) IsProduction() bool {
	return c.Env == "production"
}
