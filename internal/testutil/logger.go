package testutil

import (
	"io"

	"github.com/dtroode/chirp-server/internal/logger"
)

// MakeNoopLogger returns a logger that discards everything.
func MakeNoopLogger() *logger.Logger {
	return logger.New(0, logger.WithOutput(io.Discard))
}
