package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Log is the global logger instance
var Log *slog.Logger

// Init sets the default logger.
// Development: text to stdout at debug level.
// Production: JSON to stdout at info level.
// With a Sentry DSN, error records are also sent to Sentry.
func Init(isDev bool, sentryDSN string) {
	handlers := []slog.Handler{stdoutHandler(os.Stdout, isDev)}

	if sentryDSN != "" {
		environment := "production"
		if isDev {
			environment = "development"
		}

		err := sentry.Init(sentry.ClientOptions{
			Dsn:         sentryDSN,
			Environment: environment,
		})
		if err != nil {
			slog.Warn("sentry disabled", "error", err)
		} else {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	Log = slog.New(combine(handlers))
	slog.SetDefault(Log)
}

// Flush waits for buffered Sentry events. Safe to call when Sentry is off.
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}

func stdoutHandler(w io.Writer, isDev bool) slog.Handler {
	if isDev {
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
}

// combine uses a fanout only when there is more than one handler.
func combine(handlers []slog.Handler) slog.Handler {
	if len(handlers) > 1 {
		return slogmulti.Fanout(handlers...)
	}
	return handlers[0]
}
