package config

import (
	"trackforge/pkg/logger"

	"github.com/spf13/viper"
)

type Config struct {
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseDriver       string `mapstructure:"DB_DRIVER"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabasePath         string `mapstructure:"DB_PATH"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset   int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	AuthSecret           string `mapstructure:"AUTH_SECRET"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

var ConfigInstance Config

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	envVars := []string{
		"ENVIRONMENT", "SERVER_PORT",
		"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD", "DB_PATH",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
		"CORS_ALLOW_ORIGINS", "AUTH_SECRET", "SCHEDULER_ENABLED",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	// Fall back to .env files when the environment is not pre-populated
	if viper.IsSet("SERVER_PORT") {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(&config, log); err != nil {
		return Config{}, err
	}

	log.Info("Successfully initialized config",
		"environment", config.Environment,
		"driver", config.DatabaseDriver,
		"port", config.ServerPort,
	)
	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func validateConfig(config *Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.DatabaseDriver == "" {
		config.DatabaseDriver = DriverPostgres
	}

	switch config.DatabaseDriver {
	case DriverPostgres:
		if config.DatabaseHost == "" || config.DatabaseName == "" || config.DatabaseUser == "" {
			return log.Error(
				"Fatal error: postgres driver requires DB_HOST, DB_NAME and DB_USER",
				"host", config.DatabaseHost,
				"name", config.DatabaseName,
			)
		}
	case DriverSQLite:
		if config.DatabasePath == "" {
			return log.Error("Fatal error: sqlite driver requires DB_PATH")
		}
	case DriverMemory:
		// no storage settings needed
	default:
		return log.Error("Fatal error: unknown database driver", "driver", config.DatabaseDriver)
	}

	ConfigInstance = *config
	return nil
}
