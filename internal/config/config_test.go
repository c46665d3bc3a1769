package config

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RELAY_DATABASE_DSN", "host=localhost dbname=relay sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err, "expected config to load")
	require.NoError(t, cfg.Validate(), "expected config to validate")

	assert.Equal(t, ":4000", cfg.ServerAddr, "expected default server address")
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins, "expected permissive default origins")
	assert.Empty(t, cfg.SigningKey, "expected no signing key by default")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("RELAY_SERVER_ADDR", ":9000")
	t.Setenv("RELAY_DATABASE_DSN", "host=db dbname=relay")
	t.Setenv("RELAY_ALLOWED_ORIGINS", "http://localhost:3000,https://example.com")

	cfg, err := Load()
	require.NoError(t, err, "expected config to load")
	require.NoError(t, cfg.Validate(), "expected config to validate")

	assert.Equal(t, ":9000", cfg.ServerAddr, "expected server address from env")
	assert.Equal(t, "host=db dbname=relay", cfg.DatabaseDSN, "expected DSN from env")
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.AllowedOrigins,
		"expected origins split on comma")
}

func TestValidate(t *testing.T) {
	secret := base64.StdEncoding.EncodeToString([]byte("super-secret"))

	tcases := []struct {
		name        string
		cfg         Config
		expectedErr string
	}{
		{
			name: "valid without signing key",
			cfg: Config{
				ServerAddr:  ":4000",
				DatabaseDSN: "host=localhost",
			},
		},
		{
			name: "valid with signing key",
			cfg: Config{
				ServerAddr:       ":4000",
				DatabaseDSN:      "host=localhost",
				Base64SigningKey: secret,
			},
		},
		{
			name: "missing server address",
			cfg: Config{
				DatabaseDSN: "host=localhost",
			},
			expectedErr: "server address cannot be empty",
		},
		{
			name: "missing DSN",
			cfg: Config{
				ServerAddr: ":4000",
			},
			expectedErr: "database DSN cannot be empty",
		},
		{
			name: "invalid signing key encoding",
			cfg: Config{
				ServerAddr:       ":4000",
				DatabaseDSN:      "host=localhost",
				Base64SigningKey: "not base64!!!",
			},
			expectedErr: "decode signing secret",
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.expectedErr != "" {
				assert.ErrorContains(t, err, tc.expectedErr, "expected validation error")
				return
			}

			assert.NoError(t, err, "expected config to validate")
			if tc.cfg.Base64SigningKey != "" {
				assert.Equal(t, []byte("super-secret"), tc.cfg.SigningKey, "expected decoded signing key")
			}
		})
	}
}
