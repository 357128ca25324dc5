// Package report sends faults to Sentry when a DSN is configured. Without
// one every function is a no-op.
package report

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

type Options struct {
	DSN         string
	Environment string
	Release     string
}

func Init(opts Options, log *slog.Logger) error {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         opts.DSN,
		Environment: opts.Environment,
		Release:     opts.Release,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			event.User = sentry.User{}
			return event
		},
	})
	if err != nil {
		return fmt.Errorf("report: init sentry: %w", err)
	}

	if opts.DSN == "" {
		log.Info("Sentry DSN is empty, error reporting disabled")
	} else {
		log.Info("Sentry initialized", slog.String("environment", opts.Environment))
	}
	return nil
}

func Flush() { sentry.Flush(2 * time.Second) }

func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// Tags formats arbitrary event data as Sentry tags.
func Tags(data map[string]any) map[string]string {
	tags := make(map[string]string, len(data))
	for k, v := range data {
		tags[k] = fmt.Sprint(v)
	}
	return tags
}
