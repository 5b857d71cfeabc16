// Package logger provides package-level leveled logging for the tutorial
// binaries. Output goes to stderr so it never interleaves with the menu.
package logger

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = newLogger(zerolog.WarnLevel)
)

func newLogger(level zerolog.Level) zerolog.Logger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// SetVerbose enables or disables debug output.
func SetVerbose(verbose bool) {
	mu.Lock()
	defer mu.Unlock()

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log = newLogger(level)
}

// Debug logs a formatted message at debug level.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Debug().Msgf(format, args...)
}

// Warn logs a formatted message at warn level.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Warn().Msgf(format, args...)
}

// Error logs a formatted message at error level.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Error().Msgf(format, args...)
}
