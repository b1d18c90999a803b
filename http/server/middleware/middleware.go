// Package middleware provides fiber middlewares that report request failures to ErrorBot.
//
// Execution order, by priority:
//
//   - Recovery (1000): recovers panics and reports them as unhandled exceptions
//   - MetaInject (700): stores trace id, service info and operation in the request context
//   - Alerting (600): reports internal errors returned by handlers
//
// Usage:
//
//	app := fiber.New()
//	server.ApplyMiddlewares(app, []server.Middleware{
//		middleware.NewRecoveryMW(log, reporter),
//		middleware.NewMetaInjectMW("billing", "1.4.0"),
//		middleware.NewAlertingMW(log, reporter),
//	})
package middleware

import (
	"context"

	"github.com/rise-and-shine/errorbot/observability/errorbot"
)

// Reporter is the part of *errorbot.Reporter the middlewares use.
type Reporter interface {
	ReportError(ctx context.Context, message string, opts ...errorbot.ReportOption)
}
