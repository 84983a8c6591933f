// Package report forwards crashes to Sentry when a DSN is configured.
package report

import (
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
)

const flushTimeout = 5 * time.Second

// Init configures the global Sentry client. An empty dsn leaves reporting
// disabled; the returned flush func is always safe to defer.
func Init(dsn, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:     dsn,
		Release: release,
	}); err != nil {
		return func() {}, fmt.Errorf("report: init sentry: %w", err)
	}
	return func() { sentry.Flush(flushTimeout) }, nil
}

// Recover reports a panic with tags and re-panics. Use it as
// `defer report.Recover(tags)` at the top of a goroutine or main.
func Recover(tags map[string]string) {
	err := recover()
	if err == nil {
		return
	}
	log.Printf("report: panic: %v", err)

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
	})
	hub.Recover(err)
	hub.Flush(flushTimeout)
	panic(err)
}
