package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/errorbot/http/server"
	"github.com/rise-and-shine/errorbot/meta"
	"github.com/rise-and-shine/errorbot/observability/tracing"
)

const headerRequestID = "X-Request-ID"

// NewMetaInjectMW stores request metadata in the user context so reports and
// logs made while handling the request carry the same trace id.
// An incoming X-Request-ID header is reused; otherwise one is derived.
// The id is echoed back in the response.
func NewMetaInjectMW(serviceName, serviceVersion string) server.Middleware {
	return server.Middleware{
		Priority: 700,
		Handler: func(c *fiber.Ctx) error {
			ctx := c.UserContext()

			traceID := c.Get(headerRequestID)
			if traceID == "" {
				traceID = tracing.RequestID(ctx)
			}

			ctx = meta.InjectMetaToContext(ctx, map[meta.ContextKey]string{
				meta.TraceID:        traceID,
				meta.ServiceName:    serviceName,
				meta.ServiceVersion: serviceVersion,
				meta.IPAddress:      c.IP(),
				meta.UserAgent:      c.Get(fiber.HeaderUserAgent),
				meta.Operation:      c.Method() + " " + c.Path(),
			})
			c.SetUserContext(ctx)
			c.Set(headerRequestID, traceID)

			return c.Next()
		},
	}
}
