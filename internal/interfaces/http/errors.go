package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/paws-pos/internal/application/dto"
	"github.com/jhoicas/paws-pos/internal/domain"
)

// Códigos de error devueltos en ErrorResponse.Code.
const (
	CodeConflict          = "CONFLICT"
	CodeNotFound          = "NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInactiveUser      = "INACTIVE_USER"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeValidation        = "VALIDATION"
	CodeForbidden         = "FORBIDDEN"
	CodeInvalidBody       = "INVALID_BODY"
	CodeBadRequest        = "BAD_REQUEST"
	CodeInternal          = "INTERNAL"
)

// errInvalidBody cuerpo o query que no se pudo decodificar.
var errInvalidBody = fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido")

// ErrorHandler traduce los errores de dominio a status y ErrorResponse.
// Los errores no clasificados se registran y se responden con un mensaje genérico.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := mapError(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		}
		return c.Status(status).JSON(body)
	}
}

func mapError(err error) (int, dto.ErrorResponse) {
	var (
		verr     *domain.ValidationError
		stockErr *domain.StockError
		fiberErr *fiber.Error
	)
	switch {
	case errors.As(err, &verr):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{
			Code: CodeValidation, Message: "datos de entrada inválidos", Details: verr.Violations,
		}
	case errors.As(err, &stockErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeInsufficientStock, Message: stockErr.Error()}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeInsufficientStock, Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: CodeConflict, Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: CodeUnauthorized, Message: err.Error()}
	case errors.Is(err, domain.ErrInactiveUser):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeInactiveUser, Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: CodeForbidden, Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: CodeValidation, Message: err.Error()}
	case errors.As(err, &fiberErr):
		code := CodeInternal
		switch {
		case fiberErr == errInvalidBody:
			code = CodeInvalidBody
		case fiberErr.Code == fiber.StatusNotFound:
			code = CodeNotFound
		case fiberErr.Code < fiber.StatusInternalServerError:
			code = CodeBadRequest
		}
		return fiberErr.Code, dto.ErrorResponse{Code: code, Message: fiberErr.Message}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: CodeInternal, Message: "error interno del servidor"}
}
