package config

import "time"

// Config holds the configuration of the application
// Use config.LoadConfig to create a new instance
type Config struct {
	Log        LogConfig        `mapstructure:"log"        yaml:"log"`
	Server     ServerConfig     `mapstructure:"server"     yaml:"server"`
	Auth       AuthConfig       `mapstructure:"auth"       yaml:"auth"`
	Crypto     CryptoConfig     `mapstructure:"crypto"     yaml:"crypto"`
	Recognizer RecognizerConfig `mapstructure:"recognizer" yaml:"recognizer"`
	Store      StoreConfig      `mapstructure:"store"      yaml:"store"`
	Tasks      TasksConfig      `mapstructure:"tasks"      yaml:"tasks"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port" validate:"min=1,max=65535"`
}

type AuthConfig struct {
	// Secret is loaded from ENV not config file.
	Secret   string `mapstructure:"secret"   yaml:"-"`
	Required bool   `mapstructure:"required" yaml:"required"`
}

type CryptoConfig struct {
	// Key is the AES key used to encrypt anonymized record fields. It is loaded
	// from ENV and must be 16, 24 or 32 bytes long.
	Key string `mapstructure:"key" yaml:"-" validate:"required,len=16|len=24|len=32"`
}

type RecognizerConfig struct {
	Type           string        `mapstructure:"type"            yaml:"type"            validate:"oneof=presidio pattern composite"`
	URL            string        `mapstructure:"url"             yaml:"url"             validate:"required_unless=Type pattern"`
	Timeout        time.Duration `mapstructure:"timeout"         yaml:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries"     yaml:"max_retries"     validate:"gte=0"`
	Language       string        `mapstructure:"language"        yaml:"language"`
	ScoreThreshold float64       `mapstructure:"score_threshold" yaml:"score_threshold" validate:"gte=0,lte=1"`
	Entities       []string      `mapstructure:"entities"        yaml:"entities"`
}

type StoreConfig struct {
	Type     string         `mapstructure:"type"     yaml:"type"     validate:"oneof=postgres memory"`
	Postgres PostgresConfig `mapstructure:"postgres" yaml:"postgres"`
	// PurgeEvery is the interval in minutes at which soft deleted rows are
	// removed from postgres. 0 disables purging.
	PurgeEvery int `mapstructure:"purge_every" yaml:"purge_every" validate:"gte=0"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn" yaml:"-"`
}

type TasksConfig struct {
	DocumentAnalyzer TaskConfig `mapstructure:"document_analyzer" yaml:"document_analyzer"`
}

type TaskConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}
