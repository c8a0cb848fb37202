package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	portEnvVar          = "PORT"
	appNameVar          = "APP_NAME"
	backendBaseURLVar   = "BACKEND_BASE_URL"
	refreshPathVar      = "REFRESH_PATH"
	idleTimeoutMinVar   = "IDLE_TIMEOUT_MINUTES"
	renewalIntervalMVar = "RENEWAL_INTERVAL_MINUTES"
	redisAddrVar        = "REDIS_ADDR"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}
var _ SessionConfig = EnvVars{}
var _ BackendConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "ORIOZ Member Portal")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetBackendBaseURL returns the base URL of the backend member service that
// owns all durable state.
func (EnvVars) GetBackendBaseURL() string {
	return GetEnv(backendBaseURLVar, "http://localhost:8082")
}

// GetRefreshPath returns the token refresh endpoint. Some backend deployments
// expose /api/v1/members/auth/refresh instead of the default.
func (EnvVars) GetRefreshPath() string {
	return GetEnv(refreshPathVar, "/api/v1/token/refresh")
}

// GetIdleTimeout returns the inactivity window before automatic logout.
func (EnvVars) GetIdleTimeout() time.Duration {
	return minutesEnv(idleTimeoutMinVar, 30)
}

// GetRenewalInterval returns the proactive token renewal period.
func (EnvVars) GetRenewalInterval() time.Duration {
	return minutesEnv(renewalIntervalMVar, 5)
}

// GetRedisAddr returns the Redis address for the shared credential store, or
// empty to keep credentials in process memory.
func (EnvVars) GetRedisAddr() string {
	return GetEnv(redisAddrVar, "")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func minutesEnv(envVar string, defaultMinutes int) time.Duration {
	if v := os.Getenv(envVar); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			return time.Duration(minutes) * time.Minute
		}
	}
	return time.Duration(defaultMinutes) * time.Minute
}
