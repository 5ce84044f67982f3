package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing DATABASE_URL fails", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("defaults applied", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/taskboard")
		t.Setenv("PORT", "")
		t.Setenv("LOG_LEVEL", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "postgres://localhost:5432/taskboard", cfg.DatabaseURL)
	})

	t.Run("overrides from environment", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/taskboard")
		t.Setenv("PORT", "9090")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("TOKEN_AUTH_SECRET", "env-secret")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.AppPort)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "env-secret", cfg.TokenSecret)
	})

	t.Run("token secret from .env fallback", func(t *testing.T) {
		dir := t.TempDir()
		envFile := "DATABASE_URL=postgres://localhost:5432/taskboard\nTOKEN_AUTH_SECRET=dotenv-secret\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(envFile), 0o600))
		t.Chdir(dir)

		// Register restores, then clear so only .env supplies the values.
		t.Setenv("DATABASE_URL", "")
		t.Setenv("TOKEN_AUTH_SECRET", "")
		require.NoError(t, os.Unsetenv("DATABASE_URL"))
		require.NoError(t, os.Unsetenv("TOKEN_AUTH_SECRET"))

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "dotenv-secret", cfg.TokenSecret)
		assert.Equal(t, "postgres://localhost:5432/taskboard", cfg.DatabaseURL)
	})
}
