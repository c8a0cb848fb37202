package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orioz-inc/member-portal/internal/config"
)

func TestDefaults(t *testing.T) {
	for _, envVar := range []string{
		"PORT", "APP_NAME", "BACKEND_BASE_URL", "REFRESH_PATH",
		"IDLE_TIMEOUT_MINUTES", "RENEWAL_INTERVAL_MINUTES", "REDIS_ADDR",
	} {
		t.Setenv(envVar, "")
	}

	c := config.New()

	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, "ORIOZ Member Portal", c.GetAppName())
	require.Equal(t, "http://localhost:8082", c.GetBackendBaseURL())
	require.Equal(t, "/api/v1/token/refresh", c.GetRefreshPath())
	require.Equal(t, 30*time.Minute, c.GetIdleTimeout())
	require.Equal(t, 5*time.Minute, c.GetRenewalInterval())
	require.Empty(t, c.GetRedisAddr())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BACKEND_BASE_URL", "https://backend.example.org")
	t.Setenv("REFRESH_PATH", "/api/v1/members/auth/refresh")
	t.Setenv("IDLE_TIMEOUT_MINUTES", "10")
	t.Setenv("RENEWAL_INTERVAL_MINUTES", "2")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	c := config.New()
	require.Equal(t, ":9090", c.GetPort())
	require.Equal(t, "https://backend.example.org", c.GetBackendBaseURL())
	require.Equal(t, "/api/v1/members/auth/refresh", c.GetRefreshPath())
	require.Equal(t, 10*time.Minute, c.GetIdleTimeout())
	require.Equal(t, 2*time.Minute, c.GetRenewalInterval())
	require.Equal(t, "localhost:6379", c.GetRedisAddr())
}

func TestInvalidMinutesFallBack(t *testing.T) {
	t.Setenv("IDLE_TIMEOUT_MINUTES", "not-a-number")
	t.Setenv("RENEWAL_INTERVAL_MINUTES", "-3")

	c := config.New()
	require.Equal(t, 30*time.Minute, c.GetIdleTimeout())
	require.Equal(t, 5*time.Minute, c.GetRenewalInterval())
}
