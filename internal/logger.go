package internal

import (
	"os"
	"sync"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

var (
	once   sync.Once
	logger *logrus.Logger
)

// GetLogger returns the process logger. It starts at WARN so nothing noisy is
// printed before config.SetLogLevel runs.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		logger.Out = os.Stdout
		logger.SetLevel(logrus.WarnLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			PadLevelText:  true,
		})
	})

	return logger
}

func SetLogLevel(level logrus.Level) {
	GetLogger().SetLevel(level)
}

var _ retryablehttp.LeveledLogger = &ComponentLogger{}

// ComponentLogger writes key/value logging calls, such as those made by the
// recognizer's retryablehttp client, as logrus fields tagged with a component.
type ComponentLogger struct {
	entry *logrus.Entry
}

func NewComponentLogger(l *logrus.Logger, component string) *ComponentLogger {
	return &ComponentLogger{entry: l.WithField("component", component)}
}

func (l *ComponentLogger) with(keysAndValues []interface{}) *logrus.Entry {
	if len(keysAndValues) < 2 {
		return l.entry
	}
	fields := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return l.entry.WithFields(fields)
}

func (l *ComponentLogger) Error(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Error(msg)
}

func (l *ComponentLogger) Info(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Info(msg)
}

func (l *ComponentLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Warn(msg)
}

func (l *ComponentLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Debug(msg)
}
