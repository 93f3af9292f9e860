package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger: JSON to stdout, info level. Services
// receive it through their WithLogger option.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
