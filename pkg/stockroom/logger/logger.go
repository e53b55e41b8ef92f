package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON slog logger; debug level when env is "dev".
func New(env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
