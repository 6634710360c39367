package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Env:        "development",
			Port:       "8390",
			JWTSecret:  "dev-secret-change-in-production",
			DBPassword: "password",
		}
	}

	t.Run("development defaults pass", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing port fails", func(t *testing.T) {
		c := base()
		c.Port = ""
		assert.Error(t, c.Validate())
	})

	t.Run("missing jwt secret fails", func(t *testing.T) {
		c := base()
		c.JWTSecret = ""
		assert.Error(t, c.Validate())
	})

	t.Run("production rejects default secret", func(t *testing.T) {
		c := base()
		c.Env = "production"
		c.DBPassword = "properly-strong-password"
		assert.Error(t, c.Validate())
	})

	t.Run("production rejects short secret", func(t *testing.T) {
		c := base()
		c.Env = "production"
		c.JWTSecret = "short"
		c.DBPassword = "properly-strong-password"
		assert.Error(t, c.Validate())
	})

	t.Run("production rejects default db password", func(t *testing.T) {
		c := base()
		c.Env = "prod"
		c.JWTSecret = strings.Repeat("s", 40)
		assert.Error(t, c.Validate())
	})

	t.Run("hardened production passes", func(t *testing.T) {
		c := base()
		c.Env = "production"
		c.JWTSecret = strings.Repeat("s", 40)
		c.DBPassword = "properly-strong-password"
		c.DBSSLMode = "require"
		assert.NoError(t, c.Validate())
	})
}

func TestConfig_Production(t *testing.T) {
	assert.True(t, (&Config{Env: "production"}).Production())
	assert.True(t, (&Config{Env: "prod"}).Production())
	assert.False(t, (&Config{Env: "development"}).Production())
	assert.False(t, (&Config{Env: "test"}).Production())
}
