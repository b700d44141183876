package config

type Config interface {
	EnvConfig
	StorageConfig
	RedisConfig
}

type EnvConfig interface {
	GetAPIBaseURL() string
	GetAppName() string
	GetEnv() string
}

type StorageConfig interface {
	GetAccessTokenKey() string
	GetRefreshTokenKey() string
	GetDataFolder() string
	GetStorageBackend() string
}

type RedisConfig interface {
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	return mainConfig{}
}
