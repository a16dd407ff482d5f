package serverutils

import (
	"errors"

	"image-processing-be/internal/apperror"
	"image-processing-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error to the HTTP status it is reported with.
func StatusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	if errors.Is(err, apperror.ErrPayloadTooLarge) {
		return fiber.StatusRequestEntityTooLarge
	}

	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindNotAuthenticated:
		return fiber.StatusUnauthorized
	case apperror.KindNoImageUploaded:
		return fiber.StatusConflict
	case apperror.KindSourceMissing, apperror.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// NewErrorHandler renders every error returned by a handler in the standard
// envelope. Server-side failures are logged; client errors are not.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := StatusFor(err)
		if code >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err.Error(),
			})
		}
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}
