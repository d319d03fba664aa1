package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"ride-service/src/pkg/log"
)

// NewLogger logs one line per request with method, path, status and latency.
func NewLogger() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		logger := log.GetLogger()
		logger.Info("http",
			fmt.Sprintf("%s %s -> %d (%s)", ctx.Method(), ctx.Path(), ctx.Response().StatusCode(), time.Since(start)),
			"request", ctx.IP())
		return err
	}
}
