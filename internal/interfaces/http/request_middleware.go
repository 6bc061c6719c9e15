package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Vendas-api/pkg/logger"
)

// RequestLogger registra cada petición con su request id (lo pone el middleware requestid)
// y deja el logger en el contexto de usuario para los handlers.
func RequestLogger(log *logger.Logger) fiber.Handler {
	base := log.Zerolog()
	return func(c *fiber.Ctx) error {
		start := time.Now()
		zl := base.With().Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).Logger()
		c.SetUserContext(zl.WithContext(c.UserContext()))

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		ev := zl.Info()
		switch {
		case status >= 500:
			ev = zl.Error().Err(err)
		case status >= 400:
			ev = zl.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}

// RequestTimeout acota el contexto que reciben los casos de uso (y con él las consultas a Postgres).
func RequestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if d <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
