package testutils

import (
	"crypto/rand"
	"math/big"
	"os"
	"time"

	"github.com/oiime/logrusbun"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"github.com/securex/securex/config"
)

// TestCryptoKey is a valid AES-128 key for tests only.
const TestCryptoKey = "WmZq4t7w!z%C&F)J"

// PostgresDSNEnv names the variable that enables postgres-backed tests.
const PostgresDSNEnv = "SECUREX_TEST_POSTGRES_DSN"

// GetDSN returns the test postgres DSN, or "" when postgres tests should be skipped.
func GetDSN() string {
	return os.Getenv(PostgresDSNEnv)
}

// NewTestConfig returns a config for tests using the pattern recognizer and
// the memory store.
func NewTestConfig() *config.Config {
	return &config.Config{
		Log:    config.LogConfig{Level: "debug"},
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8000},
		Auth:   config.AuthConfig{Secret: "test-secret-of-reasonable-length", Required: false},
		Crypto: config.CryptoConfig{Key: TestCryptoKey},
		Recognizer: config.RecognizerConfig{
			Type:           "pattern",
			Timeout:        5 * time.Second,
			MaxRetries:     0,
			Language:       "en",
			ScoreThreshold: 0.35,
			Entities:       append([]string(nil), config.DefaultEntities...),
		},
		Store: config.StoreConfig{Type: "memory"},
		Tasks: config.TasksConfig{DocumentAnalyzer: config.TaskConfig{Enabled: true}},
	}
}

// SetUpDBLogging logs every query of db at info level.
func SetUpDBLogging(db *bun.DB, log logrus.FieldLogger) {
	db.AddQueryHook(logrusbun.NewQueryHook(logrusbun.QueryHookOptions{
		LogSlow:         time.Second,
		Logger:          log,
		QueryLevel:      logrus.InfoLevel,
		ErrorLevel:      logrus.ErrorLevel,
		SlowLevel:       logrus.WarnLevel,
		MessageTemplate: "{{.Operation}}[{{.Duration}}]: {{.Query}}",
		ErrorTemplate:   "{{.Operation}}[{{.Duration}}]: {{.Query}}: {{.Error}}",
	}))
}

const charset = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomString returns a random alphanumeric string.
func GenerateRandomString(length int) string {
	b := make([]byte, length)
	for i := range b {
		bigInt, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		b[i] = charset[bigInt.Int64()]
	}
	return string(b)
}
