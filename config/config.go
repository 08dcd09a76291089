package config

import (
	"errors"
	"strings"
	"time"

	"github.com/securex/securex/internal"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// We're bootstrapping so avoid any imports from other packages
var log = logrus.New()

var ErrPostgresDSNNotSet = errors.New("store.postgres.dsn must be set when store.type is postgres")

// DefaultEntities is the entity list requested from the recognizer when none is configured.
var DefaultEntities = []string{
	"PERSON",
	"LOCATION",
	"ORGANIZATION",
	"DATE_TIME",
	"NRP",
	"PHONE_NUMBER",
	"EMAIL_ADDRESS",
	"IN_AADHAAR",
	"IN_PAN",
	"IN_VEHICLE_REGISTRATION",
	"IN_PASSPORT",
	"CREDIT_CARD",
	"IP_ADDRESS",
}

func defaultConfig() Config {
	return Config{
		Log:    LogConfig{Level: "info"},
		Server: ServerConfig{Host: "0.0.0.0", Port: 8000},
		Recognizer: RecognizerConfig{
			Type:           "presidio",
			URL:            "http://localhost:5002/analyze",
			Timeout:        10 * time.Second,
			Language:       "en",
			ScoreThreshold: 0.35,
			Entities:       append([]string(nil), DefaultEntities...),
		},
		Store: StoreConfig{Type: "memory"},
	}
}

// LoadConfig loads the config file and ENV variables into a Config struct.
// A missing config file is tolerated when no explicit path is given.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}

	v.SetConfigType("yaml")

	v.SetEnvPrefix("SECUREX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// zero values can't be merged as defaults, they are indistinguishable from unset
	v.SetDefault("tasks.document_analyzer.enabled", true)
	v.SetDefault("store.purge_every", 60)
	v.SetDefault("recognizer.max_retries", 3)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, err
		}
		log.Warn("config file not found, using defaults and environment")
	}

	// Environment variables take precedence over config file
	loadDotEnv()

	for key, env := range map[string]string{
		"crypto.key":         "SECUREX_CRYPTO_KEY",
		"auth.secret":        "SECUREX_AUTH_SECRET",
		"auth.required":      "SECUREX_AUTH_REQUIRED",
		"store.type":         "SECUREX_STORE_TYPE",
		"store.postgres.dsn": "SECUREX_STORE_POSTGRES_DSN",
		"recognizer.type":    "SECUREX_RECOGNIZER_TYPE",
		"recognizer.url":     "SECUREX_RECOGNIZER_URL",
		"server.port":        "SECUREX_SERVER_PORT",
		"log.level":          "SECUREX_LOG_LEVEL",
	} {
		if err := v.BindEnv(key, env); err != nil {
			log.Fatalf("Error binding environment variable: %s", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := mergo.Merge(&cfg, defaultConfig()); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks a loaded Config.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}
	if cfg.Store.Type == "postgres" && cfg.Store.Postgres.DSN == "" {
		return ErrPostgresDSNNotSet
	}
	return nil
}

// loadDotEnv loads environment variables from .env file
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Debug(".env file not found or unable to load")
	}
}

// SetLogLevel sets the log level based on the config file. Defaults to INFO if not set or invalid
func SetLogLevel(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	internal.SetLogLevel(level)
	log.Info("Log level set to: ", level)
}
