// Package logger exposes the process-wide structured logger.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the shared logger instance. Packages log through it directly:
//
//	logger.Logger.Warn().Err(err).Msg("failed to publish frame")
var Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Init reconfigures the shared logger with the given level. Unknown levels
// fall back to info.
func Init(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	Logger = zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
