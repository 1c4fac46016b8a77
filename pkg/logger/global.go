package logger

import (
	"os"
	"sync"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// GetLogger returns the global logger instance, creating one from the
// environment on first use when SetGlobalLogger has not been called.
func GetLogger() *Logger {
	once.Do(func() {
		if globalLogger == nil {
			level := "info"
			if os.Getenv("DEBUG") == "true" {
				level = "debug"
			} else if v := os.Getenv("LOG_LEVEL"); v != "" {
				level = v
			}

			globalLogger = New(Config{
				Level:  level,
				Format: "json",
				Output: "stdout",
			})
		}
	})
	return globalLogger
}

// WithField adds a field to the global logger.
func WithField(key string, value interface{}) *Logger {
	return GetLogger().WithField(key, value)
}

// WithError adds an error to the global logger.
func WithError(err error) *Logger {
	return GetLogger().WithError(err)
}
