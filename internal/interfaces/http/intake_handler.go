package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/application/ledger"
)

// IntakeHandler maneja la cola de entradas pendientes (protegido).
type IntakeHandler struct {
	uc *ledger.IntakeUseCase
}

// NewIntakeHandler construye el handler.
func NewIntakeHandler(uc *ledger.IntakeUseCase) *IntakeHandler {
	return &IntakeHandler{uc: uc}
}

// Enqueue godoc
// @Summary      Encolar borrador de entrada
// @Tags         intakes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EnqueueIntakeRequest  true  "supplier, document_date, draft_items"
// @Success      201   {object}  dto.IntakeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/intakes [post]
func (h *IntakeHandler) Enqueue(c *fiber.Ctx) error {
	var in dto.EnqueueIntakeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Enqueue(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar borradores por estado
// @Tags         intakes
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Pendiente (defecto) o Aprobado"
// @Success      200  {array}  dto.IntakeResponse
// @Router       /api/intakes [get]
func (h *IntakeHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar un borrador como Entrada
// @Description  Solo si el movimiento de Entrada se registra con éxito el
// @Description  borrador pasa a Aprobado; si falla, queda intacto.
// @Tags         intakes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del borrador"
// @Param        body  body  dto.ApproveIntakeRequest  true  "ítems finales y palets"
// @Success      200   {object}  dto.ApproveIntakeResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/intakes/{id}/approve [post]
func (h *IntakeHandler) Approve(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.ApproveIntakeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Approve(c.Context(), GetUserID(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
