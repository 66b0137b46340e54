package logger

import (
	"log/slog"
	"os"
)

var std *slog.Logger

// Init configures the process-wide logger. Production gets JSON output,
// everything else gets text at debug level.
func Init(environment string) {
	var handler slog.Handler
	if environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	std = slog.New(handler)
	slog.SetDefault(std)
}

func get() *slog.Logger {
	if std == nil {
		Init("development")
	}
	return std
}

func Info(msg string, args ...any) {
	get().Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	get().Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	get().Error(msg, normalize(args)...)
}

func Fatal(msg string, args ...any) {
	get().Error(msg, normalize(args)...)
	os.Exit(1)
}

// normalize accepts the loose call styles used across the codebase:
// key-value pairs, bare errors, slog.Attr, or any leftover value.
func normalize(args []any) []any {
	out := make([]any, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case slog.Attr:
			out = append(out, v)
		case error:
			out = append(out, slog.Any("error", v))
		case string:
			if i+1 < len(args) {
				out = append(out, v, args[i+1])
				i++
			} else {
				out = append(out, slog.String("detail", v))
			}
		default:
			out = append(out, slog.Any("detail", v))
		}
	}
	return out
}
