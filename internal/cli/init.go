package cli

import (
	"io"
	"log/slog"

	"github.com/joho/godotenv"
)

// SetupLogger installs a text slog handler on w as the default logger.
// Only warnings and errors are shown unless verbose is set.
func SetupLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads a .env file from the working directory if one exists.
// Variables already set in the environment are left untouched.
func LoadEnvFile() {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env")
	}
}
