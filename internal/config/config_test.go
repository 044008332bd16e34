package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "3306", cfg.Database.Port)
	assert.Contains(t, cfg.Database.DSN, "tcp(localhost:3306)/medivault")
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "medivault-api", cfg.JWT.Issuer)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadConfig_Postgres(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Contains(t, cfg.Database.DSN, "host=db")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"JWT_SECRET": ""}},
		{"short secret in production", map[string]string{"JWT_SECRET": "short", "APP_ENV": "production"}},
		{"unknown driver", map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "oracle"}},
		{"memory in production", map[string]string{"JWT_SECRET": "0123456789abcdef0123456789abcdef", "APP_ENV": "production", "DB_DRIVER": "memory"}},
		{"negative expiration", map[string]string{"JWT_SECRET": "s", "JWT_EXPIRATION": "-1h"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
