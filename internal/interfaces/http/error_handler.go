package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

// Mensajes "detail" de los errores que no pertenecen a un campo.
const (
	msgNotAuthenticated   = "las credenciales de autenticación no se proveyeron o no son válidas."
	msgInvalidCredentials = "no se encontró una cuenta activa con las credenciales indicadas."
	msgNotFound           = "no encontrado."
	msgInvalidPage        = "página inválida."
	msgInternal           = "error interno del servidor"
)

// NewErrorHandler devuelve el ErrorHandler de Fiber que traduce errores de
// dominio a status HTTP y cuerpo {campo: [mensajes]}. Los errores inesperados
// se registran y se responden como 500 sin exponer el detalle.
func NewErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := resolveError(err)
		if status == fiber.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("error no controlado")
		}
		if status == fiber.StatusUnauthorized {
			c.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="api"`)
		}
		return c.Status(status).JSON(body)
	}
}

func resolveError(err error) (int, dto.ErrorResponse) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return fiber.StatusBadRequest, dto.ErrorResponse(ve.Fields)
	}
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return fiber.StatusUnauthorized, detail(msgNotAuthenticated)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, detail(msgInvalidCredentials)
	case errors.Is(err, domain.ErrInvalidPage):
		return fiber.StatusNotFound, detail(msgInvalidPage)
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, detail(msgNotFound)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, detail(fe.Message)
	}
	return fiber.StatusInternalServerError, detail(msgInternal)
}

func detail(msg string) dto.ErrorResponse {
	return dto.ErrorResponse{domain.FieldDetail: {msg}}
}
