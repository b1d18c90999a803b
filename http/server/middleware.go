// Package server holds the shared fiber middleware type and its registration order.
package server

import (
	"sort"

	"github.com/gofiber/fiber/v2"
)

// Middleware is a fiber handler with a priority; higher priorities run first.
type Middleware struct {
	Priority int
	Handler  fiber.Handler
}

// ByOrder implements sort.Interface for []Middleware based on the Priority field.
type ByOrder []Middleware

func (b ByOrder) Len() int { return len(b) }

func (b ByOrder) Swap(i, j int) { b[i], b[j] = b[j], b[i] }

func (b ByOrder) Less(i, j int) bool { return b[i].Priority > b[j].Priority }

// ApplyMiddlewares registers middlewares on app in descending priority. Nil handlers are skipped.
func ApplyMiddlewares(app *fiber.App, middlewares []Middleware) {
	sorted := append([]Middleware(nil), middlewares...)
	sort.Stable(ByOrder(sorted))
	for _, mw := range sorted {
		if mw.Handler == nil {
			continue
		}
		app.Use(mw.Handler)
	}
}
