// internal/common/errors/handler.go
package errors

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
)

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// NewFiberErrorHandler renders every error returned by a route as a
// StandardError JSON body.
func NewFiberErrorHandler(logger Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		stdErr, status := fromError(err)
		stdErr.RequestID = c.GetRespHeader(fiber.HeaderXRequestID)

		logError(logger, c, stdErr, status)

		return c.Status(status).JSON(stdErr)
	}
}

func fromError(err error) (*StandardError, int) {
	var fiberErr *fiber.Error
	if stderrors.As(err, &fiberErr) {
		return fromFiberError(fiberErr), fiberErr.Code
	}

	stdErr := Normalize(err)
	return stdErr, HTTPStatus(stdErr.Code)
}

// fromFiberError covers routing failures raised by fiber itself.
func fromFiberError(fiberErr *fiber.Error) *StandardError {
	switch fiberErr.Code {
	case fiber.StatusNotFound:
		return NewNotFoundError(fiberErr.Message)
	case fiber.StatusMethodNotAllowed:
		return NewMethodNotAllowedError(fiberErr.Message)
	case fiber.StatusBadRequest:
		return NewBadRequestError(fiberErr.Message)
	default:
		return NewInternalError(fiberErr)
	}
}

func logError(logger Logger, c *fiber.Ctx, stdErr *StandardError, status int) {
	fields := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"status":        status,
		"method":        c.Method(),
		"path":          c.Path(),
		"requestId":     stdErr.RequestID,
	}
	if status >= fiber.StatusInternalServerError {
		logger.Error("request failed", fields)
		return
	}
	logger.Warn("request rejected", fields)
}
