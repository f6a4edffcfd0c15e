package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide JSON logger shared by the api and
// worker binaries. Debug level in dev so cache and queue fallbacks show
// up while developing; info elsewhere.
func NewLogger(env string) *slog.Logger {
	level := slog.LevelInfo

	if env == "dev" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(handler)
}
