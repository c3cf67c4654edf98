package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/domain"
)

// respondError traduce la taxonomía de errores del dominio a HTTP. La
// aplicación parcial se distingue del resto: el asiento quedó escrito pero la
// proyección diverge para algunos SKUs y hay que reconciliar (rebuild), no
// reintentar.
func respondError(c *fiber.Ctx, err error) error {
	var partial *domain.PartialApplicationError
	switch {
	case errors.As(err, &partial):
		return c.Status(fiber.StatusMultiStatus).JSON(dto.ErrorResponse{
			Code:       "PARTIAL_APPLICATION",
			Message:    "movimiento registrado pero el stock quedó inconsistente; ejecute la reconstrucción",
			FailedSKUs: partial.FailedSKUs,
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrMovementReferenced):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "REFERENCED", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
