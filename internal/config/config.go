package config

import (
	"encoding/base64"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "RELAY"

type Config struct {
	ServerAddr     string   `envconfig:"SERVER_ADDR" default:":4000"`
	DatabaseDSN    string   `envconfig:"DATABASE_DSN"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
	// Base64SigningKey is optional; when empty the websocket endpoint
	// accepts unauthenticated connections.
	Base64SigningKey string `envconfig:"SIGNING_KEY"`
	SigningKey       []byte `ignored:"true"`
}

func decodeSigningSecret(base64Secret string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(base64Secret)
}

// Load reads configuration from RELAY_-prefixed environment variables.
// The caller applies flag overrides and then calls Validate.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerAddr == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("database DSN cannot be empty")
	}

	if c.Base64SigningKey != "" {
		signingKey, err := decodeSigningSecret(c.Base64SigningKey)
		if err != nil {
			return fmt.Errorf("decode signing secret: %w", err)
		}
		c.SigningKey = signingKey
	}

	return nil
}
