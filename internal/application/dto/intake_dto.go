package dto

import "time"

// EnqueueIntakeRequest alta de un borrador de entrada (captura documental externa).
type EnqueueIntakeRequest struct {
	Supplier     string            `json:"supplier"`
	DocumentDate string            `json:"document_date"` // YYYY-MM-DD
	DraftItems   []MovementItemDTO `json:"draft_items"`
}

// ApproveIntakeRequest aprobación: ítems finales revisados por el operario.
type ApproveIntakeRequest struct {
	Items   []MovementItemDTO `json:"items"`
	Pallets int64             `json:"pallets"`
	Comment string            `json:"comment"`
}

// IntakeResponse borrador de entrada pendiente o aprobado.
type IntakeResponse struct {
	ID           string            `json:"id"`
	Supplier     string            `json:"supplier"`
	DocumentDate time.Time         `json:"document_date"`
	Status       string            `json:"status"`
	DraftItems   []MovementItemDTO `json:"draft_items"`
	CreatedAt    time.Time         `json:"created_at"`
}

// ApproveIntakeResponse referencia al movimiento de Entrada creado.
type ApproveIntakeResponse struct {
	IntakeID   string `json:"intake_id"`
	MovementID string `json:"movement_id"`
}
