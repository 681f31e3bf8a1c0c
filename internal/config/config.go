package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	env_utils "servicelogs/internal/util/env"
	"servicelogs/internal/util/logger"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

var log = logger.GetLogger()

type EnvVariables struct {
	IsTesting       bool
	EnvMode         env_utils.EnvMode `env:"ENV_MODE"                   env-default:"development"`
	BackendRootPath string            `env:"BACKEND_ROOT_PATH"`
	HttpPort        string            `env:"HTTP_PORT"                  env-default:"4005"`
	// data sources
	PostgresConnectionString  string `env:"POSTGRES_CONNECTION_STRING"`
	SqlServerConnectionString string `env:"SQLSERVER_CONNECTION_STRING"`
	DefaultDataSource         string `env:"DEFAULT_DATA_SOURCE"        env-default:"PostgreSQL"`
	DbMaxRetryCount           int    `env:"DB_MAX_RETRY_COUNT"         env-default:"3"`
	DbRetryDelayMs            int    `env:"DB_RETRY_DELAY_MS"          env-default:"500"`
	DbCommandTimeoutSeconds   int    `env:"DB_COMMAND_TIMEOUT_SECONDS" env-default:"30"`
	DbMaxOpenConns            int    `env:"DB_MAX_OPEN_CONNS"          env-default:"20"`
	// cache
	ValkeyHost     string `env:"VALKEY_HOST"`
	ValkeyPort     string `env:"VALKEY_PORT"`
	ValkeyUsername string `env:"VALKEY_USERNAME"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`
	ValkeyIsSsl    bool   `env:"VALKEY_IS_SSL"`
	// api
	ApiRequestsPerSecond int `env:"API_REQUESTS_PER_SECOND" env-default:"50"`
	// archiving
	ArchiveAfterDays       int `env:"ARCHIVE_AFTER_DAYS"       env-default:"0"`
	ArchiveIntervalMinutes int `env:"ARCHIVE_INTERVAL_MINUTES" env-default:"60"`
	ArchiveBatchSize       int `env:"ARCHIVE_BATCH_SIZE"       env-default:"500"`
}

var (
	env  EnvVariables
	once sync.Once
)

func GetEnv() EnvVariables {
	once.Do(loadEnvVariables)
	return env
}

func (e EnvVariables) IsValkeyConfigured() bool {
	return e.ValkeyHost != "" && e.ValkeyPort != ""
}

func (e EnvVariables) DbRetryDelay() time.Duration {
	return time.Duration(e.DbRetryDelayMs) * time.Millisecond
}

func (e EnvVariables) DbCommandTimeout() time.Duration {
	return time.Duration(e.DbCommandTimeoutSeconds) * time.Second
}

func (e EnvVariables) ArchiveInterval() time.Duration {
	return time.Duration(e.ArchiveIntervalMinutes) * time.Minute
}

func loadEnvVariables() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Warn("could not get current working directory", "error", err)
		cwd = "."
	}

	backendRoot := cwd
	for {
		if _, err := os.Stat(filepath.Join(backendRoot, "go.mod")); err == nil {
			break
		}

		parent := filepath.Dir(backendRoot)
		if parent == backendRoot {
			break
		}

		backendRoot = parent
	}

	envPaths := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(backendRoot, ".env"),
	}

	// .env is optional, the process environment is enough
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Info("Successfully loaded .env", "path", path)
			break
		}
	}

	err = cleanenv.ReadEnv(&env)
	if err != nil {
		log.Error("Configuration could not be loaded", "error", err)
		os.Exit(1)
	}

	if env.BackendRootPath == "" {
		env.BackendRootPath = backendRoot
	}

	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			env.IsTesting = true
			break
		}
	}

	if !env.EnvMode.IsValid() {
		log.Error("ENV_MODE is invalid", "mode", env.EnvMode)
		os.Exit(1)
	}
	log.Info("ENV_MODE loaded", "mode", env.EnvMode)

	if !env.IsTesting &&
		strings.TrimSpace(env.PostgresConnectionString) == "" &&
		strings.TrimSpace(env.SqlServerConnectionString) == "" {
		log.Error("Neither POSTGRES_CONNECTION_STRING nor SQLSERVER_CONNECTION_STRING is set")
		os.Exit(1)
	}

	if env.DbMaxRetryCount < 0 {
		log.Error("DB_MAX_RETRY_COUNT must not be negative", "value", env.DbMaxRetryCount)
		os.Exit(1)
	}

	if env.ArchiveAfterDays < 0 {
		log.Error("ARCHIVE_AFTER_DAYS must not be negative", "value", env.ArchiveAfterDays)
		os.Exit(1)
	}

	if env.ArchiveAfterDays > 0 && (env.ArchiveIntervalMinutes <= 0 || env.ArchiveBatchSize <= 0) {
		log.Error("ARCHIVE_INTERVAL_MINUTES and ARCHIVE_BATCH_SIZE must be positive when archiving is enabled")
		os.Exit(1)
	}

	if env.ValkeyHost != "" && env.ValkeyPort == "" {
		log.Error("VALKEY_PORT is empty while VALKEY_HOST is set")
		os.Exit(1)
	}

	log.Info("Environment variables loaded successfully!")
}
