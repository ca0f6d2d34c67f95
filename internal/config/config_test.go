package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:                 "8350",
		MediaRoot:            "./media",
		AutoReplyPollSeconds: 15,
		Env:                  "development",
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	t.Run("missing port", func(t *testing.T) {
		cfg := validConfig()
		cfg.Port = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing media root", func(t *testing.T) {
		cfg := validConfig()
		cfg.MediaRoot = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive poll interval", func(t *testing.T) {
		cfg := validConfig()
		cfg.AutoReplyPollSeconds = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("production requires a real db password", func(t *testing.T) {
		cfg := validConfig()
		cfg.Env = "production"
		cfg.DBPassword = "password"
		assert.Error(t, cfg.Validate())

		cfg.DBPassword = "s3cure-enough"
		assert.NoError(t, cfg.Validate())
	})
}
