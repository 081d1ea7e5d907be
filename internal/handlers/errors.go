package handlers

import (
	"errors"
	"strconv"

	"inventory/internal/apperrors"
	"inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler renders every error returned by a handler as {"detail": "..."}.
// Causes of server errors are logged and never sent to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	detail := "Internal server error"

	code := apperrors.CodeInternal

	var fiberErr *fiber.Error
	if appErr, ok := apperrors.As(err); ok {
		status = appErr.StatusCode
		detail = appErr.Message
		code = appErr.Code
	} else if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		detail = fiberErr.Message
		code = "HTTP_" + strconv.Itoa(fiberErr.Code)
	}

	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("code", code),
		zap.Error(err),
	}
	log := logger.FromCtx(c)
	if status >= fiber.StatusInternalServerError {
		log.Error("Request failed", fields...)
	} else {
		log.Debug("Request rejected", fields...)
	}

	return c.Status(status).JSON(fiber.Map{
		"detail": detail,
	})
}
