package config

import (
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	appNameVar    = "APP_NAME"
	folderEnvVar  = "FOLDER"
	apiBaseURLVar = "API_BASE_URL"
)

//nolint:gochecknoglobals // one-time .env load
var once sync.Once

func init() {
	once.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Debug().Err(err).Msg("no .env file loaded")
		}
	})
}

type EnvVars struct{}

var _ EnvConfig = EnvVars{}
var _ StorageConfig = EnvVars{}
var _ RedisConfig = EnvVars{}

// GetAPIBaseURL returns the deployment-configured API prefix all endpoints
// hang off (e.g. "https://api.example.com/api/v1").
func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "http://localhost:8080/api/v1")
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Session Client")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetAccessTokenKey returns the storage key the access token is persisted
// under.
func (EnvVars) GetAccessTokenKey() string {
	return GetEnv("ACCESS_TOKEN_KEY", "access_token")
}

// GetRefreshTokenKey returns the storage key the refresh token is persisted
// under.
func (EnvVars) GetRefreshTokenKey() string {
	return GetEnv("REFRESH_TOKEN_KEY", "refresh_token")
}

// GetStorageBackend selects the token storage backend: "file", "memory" or
// "redis".
func (EnvVars) GetStorageBackend() string {
	return GetEnv("STORAGE_BACKEND", "file")
}

func (EnvVars) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (EnvVars) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (EnvVars) GetRedisDB() int {
	db, err := strconv.Atoi(GetEnv("REDIS_DB", "0"))
	if err != nil {
		return 0
	}
	return db
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
