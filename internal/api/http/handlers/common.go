package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/club-access-service/internal/auth"
	"github.com/spec-kit/club-access-service/internal/service"
)

// requestContext is the request's context tagged with the calling operator.
func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if principal, ok := auth.PrincipalFromContext(c); ok {
		ctx = service.WithOperator(ctx, principal.OperatorID())
	}
	return ctx
}

// deviceIDFrom reads device_id from the body value, falling back to the query.
func deviceIDFrom(c *fiber.Ctx, body string) string {
	if deviceID := strings.TrimSpace(body); deviceID != "" {
		return deviceID
	}
	return strings.TrimSpace(c.Query("device_id"))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
