package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"credit-assess-be/internal/pkg/apperror"
)

// ErrorHandlerMiddleware translates errors bubbling out of handlers into the
// uniform error envelope. Workflow error kinds map to transport status:
// not-found 404, precondition 409, feedback processing 422, generation 500,
// agent timeout 504.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError
		errorType := ""

		var appErr *apperror.Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			status = statusForKind(appErr.Kind)
			errorType = string(appErr.Kind)
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
		}

		return ctx.Status(status).JSON(ErrorResponse{
			Success:   false,
			Code:      status,
			Message:   err.Error(),
			ErrorType: errorType,
		})
	}
}

func statusForKind(kind apperror.Kind) int {
	switch kind {
	case apperror.KindSessionNotFound:
		return fiber.StatusNotFound
	case apperror.KindPreconditionFailed:
		return fiber.StatusConflict
	case apperror.KindFeedbackProcessing:
		return fiber.StatusUnprocessableEntity
	case apperror.KindGenerationTimeout:
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}
