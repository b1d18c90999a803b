package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/errorbot/http/server"
	"github.com/rise-and-shine/errorbot/observability/logger"
)

// NewAlertingMW reports errors of type errx.T_Internal returned by handlers.
// Routing errors produced by fiber itself (404, 405, ...) are not reported.
// The error is passed on unchanged.
func NewAlertingMW(log logger.Logger, rep Reporter) server.Middleware {
	log = log.Named("middleware.alerting")

	return server.Middleware{
		Priority: 600,
		Handler: func(c *fiber.Ctx) error {
			err := c.Next()
			if err == nil {
				return nil
			}

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return err
			}

			e := errx.AsErrorX(err)
			if e.Type() != errx.T_Internal {
				return err
			}

			ctx := c.UserContext()
			operation := c.Method() + " " + c.Path()

			log.WithContext(ctx).Debugf("reporting internal error from %s", operation)
			rep.ReportError(context.WithoutCancel(ctx), fmt.Sprintf("%s: %s", operation, e.Error()))

			return err
		},
	}
}
