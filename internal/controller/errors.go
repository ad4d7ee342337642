package controller

import (
	"errors"

	"ai-journaling-be/internal/pkg/serverutils"
	"ai-journaling-be/internal/service"
	"ai-journaling-be/pkg/emotion"

	"github.com/gofiber/fiber/v2"
)

// statusOf maps domain errors to HTTP statuses. Unknown errors fall
// through to the error middleware as 500s.
var statusOf = []struct {
	err  error
	code int
}{
	{service.ErrEmailTaken, fiber.StatusConflict},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{service.ErrAccountBlocked, fiber.StatusForbidden},
	{service.ErrNotAdmin, fiber.StatusForbidden},
	{service.ErrInvalidOTP, fiber.StatusBadRequest},
	{service.ErrEmailDelivery, fiber.StatusBadGateway},
	{service.ErrUserNotFound, fiber.StatusNotFound},
	{service.ErrIncorrectPassword, fiber.StatusBadRequest},
	{service.ErrSamePassword, fiber.StatusBadRequest},
	{service.ErrInvalidTone, fiber.StatusBadRequest},
	{service.ErrEntryNotFound, fiber.StatusNotFound},
	{service.ErrInvalidDateRange, fiber.StatusBadRequest},
	{service.ErrModifySelf, fiber.StatusBadRequest},
	{service.ErrInvalidStatus, fiber.StatusBadRequest},
	{emotion.ErrEmptyInput, fiber.StatusBadRequest},
	{emotion.ErrModelUnavailable, fiber.StatusServiceUnavailable},
}

func mapServiceError(err error) error {
	for _, m := range statusOf {
		if errors.Is(err, m.err) {
			return fiber.NewError(m.code, m.err.Error())
		}
	}
	return err
}

// bind parses and validates a request body.
func bind(ctx *fiber.Ctx, req any) error {
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return serverutils.ValidateRequest(req)
}
