package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoad(t *testing.T) {
	t.Setenv("CATALOG_API_BASE_URL", "http://library.local/api")
	t.Setenv("CATALOG_AUTH_MODE", "session")
	t.Setenv("KAFKA_ADDRS", "k1:9092,k2:9092")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(WithTimeout(5 * time.Second))
	require.NoError(t, err)

	require.Equal(t, "http://library.local/api", cfg.API.BaseURL)
	require.Equal(t, AuthSession, cfg.API.AuthMode)
	require.Equal(t, CoverBase64, cfg.API.CoverMode)
	require.Equal(t, 5*time.Second, cfg.API.Timeout)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Addrs)
	require.Equal(t, "catalog-activity", cfg.Kafka.Topic)
	require.Equal(t, zapcore.WarnLevel, cfg.Log.LogLevel)
	require.Equal(t, 100, cfg.API.Breaker.RecordLength)
}

func TestLoad_UnknownAuthMode(t *testing.T) {
	t.Setenv("CATALOG_AUTH_MODE", "basic")

	_, err := Load()
	require.ErrorContains(t, err, `unknown auth mode "basic"`)
}

func TestOptionsOverrideEnv(t *testing.T) {
	t.Setenv("CATALOG_AUTH_MODE", "session")

	cfg, err := Load(WithAuthMode(AuthToken), WithSessionPath(""), WithLogLevel(zapcore.DebugLevel))
	require.NoError(t, err)
	require.Equal(t, AuthToken, cfg.API.AuthMode)
	require.Empty(t, cfg.Session.Path)
	require.Equal(t, zapcore.DebugLevel, cfg.Log.LogLevel)
}

func TestLoad_PasswordPolicy(t *testing.T) {
	t.Setenv("CATALOG_PASSWORD_POLICY", "lenient")

	_, err := Load()
	require.ErrorContains(t, err, `unknown password policy "lenient"`)

	cfg, err := Load(WithPasswordPolicy("legacy"), WithCoverMode(CoverMedia))
	require.NoError(t, err)
	require.Equal(t, "legacy", cfg.Form.PasswordPolicy)
	require.Equal(t, CoverMedia, cfg.API.CoverMode)
}

func TestLoad_DefaultsToSessionAuth(t *testing.T) {
	t.Setenv("CATALOG_AUTH_MODE", "")
	require.NoError(t, os.Unsetenv("CATALOG_AUTH_MODE"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, AuthSession, cfg.API.AuthMode)
}
