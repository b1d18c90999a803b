package middleware

import (
	"context"
	"fmt"
	"runtime"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/errorbot/http/server"
	"github.com/rise-and-shine/errorbot/observability/logger"
)

const codePanicRecovered = "PANIC_RECOVERED"

// NewRecoveryMW recovers panics raised while handling a request, reports
// them as unhandled exceptions and turns them into an internal errx error
// so the request still gets a 500 response.
func NewRecoveryMW(log logger.Logger, rep Reporter) server.Middleware {
	log = log.Named("middleware.recovery")

	return server.Middleware{
		Priority: 1000,
		Handler: func(c *fiber.Ctx) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				stackTrace := make([]byte, 4096) // 4KB
				stackTrace = stackTrace[:runtime.Stack(stackTrace, false)]

				ctx := c.UserContext()
				operation := c.Method() + " " + c.Path()

				log.WithContext(ctx).
					With("stack_trace", string(stackTrace)).
					With("panic_value", fmt.Sprintf("%v", r)).
					Error("recovered from panic")

				rep.ReportError(context.WithoutCancel(ctx), fmt.Sprintf("Unhandled exception: %v (%s)", r, operation))

				err = errx.New("panic recovered",
					errx.WithCode(codePanicRecovered),
					errx.WithType(errx.T_Internal),
					errx.WithDetails(errx.D{
						"stack_trace": string(stackTrace),
						"panic_value": fmt.Sprintf("%v", r),
						"operation":   operation,
					}),
				)
			}()

			return c.Next()
		},
	}
}
