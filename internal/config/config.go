package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name    string `envconfig:"APP_NAME" default:"Signify"`
		Port    int    `envconfig:"PORT" default:"8080"`
		BaseURL string `envconfig:"BASE_URL" default:"http://localhost:8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"signify"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		Secret  string        `envconfig:"AUTH_SECRET" default:"dev-secret"`
		LinkTTL time.Duration `envconfig:"SIGN_LINK_TTL" default:"720h"`
	}

	Notify struct {
		Endpoint string `envconfig:"NOTIFY_ENDPOINT"`
		Token    string `envconfig:"NOTIFY_TOKEN"`
	}

	// Owner is the identity used by the local TUI client, which talks to
	// the database directly instead of going through the API's bearer auth.
	Owner struct {
		ID    string `envconfig:"OWNER_ID" default:"local"`
		Name  string `envconfig:"OWNER_NAME"`
		Email string `envconfig:"OWNER_EMAIL"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
