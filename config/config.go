package config

import (
	"strings"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

const (
	StoreBackendMemory = "memory"
	StoreBackendSQL    = "sql"

	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	GeneralVersion        string `mapstructure:"GENERAL_VERSION"`
	Environment           string `mapstructure:"ENVIRONMENT"`
	ServerPort            int    `mapstructure:"SERVER_PORT"`
	StoreBackend          string `mapstructure:"STORE_BACKEND"`
	DatabaseDriver        string `mapstructure:"DB_DRIVER"`
	DatabaseHost          string `mapstructure:"DB_HOST"`
	DatabasePort          int    `mapstructure:"DB_PORT"`
	DatabaseName          string `mapstructure:"DB_NAME"`
	DatabaseUser          string `mapstructure:"DB_USER"`
	DatabasePassword      string `mapstructure:"DB_PASSWORD"`
	DatabasePath          string `mapstructure:"DB_PATH"`
	DatabaseCacheAddress  string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort     int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset    int    `mapstructure:"DB_CACHE_RESET"`
	LookupCacheTTLMinutes int    `mapstructure:"LOOKUP_CACHE_TTL_MINUTES"`
	CorsAllowOrigins      string `mapstructure:"CORS_ALLOW_ORIGINS"`
	SchedulerEnabled      bool   `mapstructure:"SCHEDULER_ENABLED"`
	LookupFactories       string `mapstructure:"LOOKUP_FACTORIES"`
	LookupStatuses        string `mapstructure:"LOOKUP_STATUSES"`
	LookupPersonnel       string `mapstructure:"LOOKUP_PERSONNEL"`
}

var ConfigInstance Config

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "STORE_BACKEND",
	"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD", "DB_PATH",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET", "LOOKUP_CACHE_TTL_MINUTES",
	"CORS_ALLOW_ORIGINS", "SCHEDULER_ENABLED",
	"LOOKUP_FACTORIES", "LOOKUP_STATUSES", "LOOKUP_PERSONNEL",
}

func InitConfig() (Config, error) {
	log := logger.New("config").Function("InitConfig")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	viper.SetDefault("STORE_BACKEND", StoreBackendSQL)
	viper.SetDefault("DB_DRIVER", DriverMySQL)
	viper.SetDefault("DB_CACHE_RESET", -1)
	viper.SetDefault("LOOKUP_CACHE_TTL_MINUTES", 60)
	viper.SetDefault("CORS_ALLOW_ORIGINS", "*")

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	envVarsSet := viper.IsSet("SERVER_PORT")

	if envVarsSet {
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

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info(
		"Successfully initialized config",
		"environment", config.Environment,
		"storeBackend", config.StoreBackend,
		"driver", config.DatabaseDriver,
	)
	return config, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func (c Config) IsMemoryStore() bool {
	return c.StoreBackend == StoreBackendMemory
}

func (c Config) CacheEnabled() bool {
	return c.DatabaseCacheAddress != "" && c.DatabaseCachePort > 0
}

func (c Config) Factories() []string {
	return splitList(c.LookupFactories)
}

func (c Config) Statuses() []string {
	return splitList(c.LookupStatuses)
}

func (c Config) Personnel() []string {
	return splitList(c.LookupPersonnel)
}

func splitList(raw string) []string {
	values := []string{}
	for _, part := range strings.Split(raw, ",") {
		if value := strings.TrimSpace(part); value != "" {
			values = append(values, value)
		}
	}
	return values
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	switch config.StoreBackend {
	case StoreBackendMemory:
	case StoreBackendSQL:
		if err := validateDatabase(config, log); err != nil {
			return err
		}
	default:
		return log.Error(
			"Fatal error: unknown store backend",
			"storeBackend", config.StoreBackend,
		)
	}

	if config.DatabaseCacheAddress != "" && config.DatabaseCachePort <= 0 {
		return log.Error(
			"Fatal error: DB_CACHE_PORT required when DB_CACHE_ADDRESS is set",
			"port", config.DatabaseCachePort,
		)
	}

	ConfigInstance = config
	return nil
}

func validateDatabase(config Config, log logger.Logger) error {
	switch config.DatabaseDriver {
	case DriverSQLite:
		if config.DatabasePath == "" {
			return log.Error("Fatal error: DB_PATH required for the sqlite driver")
		}
	case DriverMySQL, DriverPostgres:
		if config.DatabaseHost == "" || config.DatabaseName == "" || config.DatabaseUser == "" {
			return log.Error(
				"Fatal error: DB_HOST, DB_NAME and DB_USER are required",
				"driver", config.DatabaseDriver,
			)
		}
		if config.DatabasePort <= 0 {
			return log.Error("Fatal error: invalid database port", "port", config.DatabasePort)
		}
	default:
		return log.Error("Fatal error: unknown database driver", "driver", config.DatabaseDriver)
	}
	return nil
}
