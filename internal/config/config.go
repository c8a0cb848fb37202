package config

import "time"

type Config interface {
	EnvConfig
	SessionConfig
	BackendConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type SessionConfig interface {
	GetIdleTimeout() time.Duration
	GetRenewalInterval() time.Duration
	GetRedisAddr() string
}

type BackendConfig interface {
	GetBackendBaseURL() string
	GetRefreshPath() string
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	return mainConfig{}
}
