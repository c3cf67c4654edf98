package entity

import "time"

// Estados de un borrador de entrada pendiente.
const (
	IntakeStatusPendiente = "Pendiente"
	IntakeStatusAprobado  = "Aprobado"
)

// PendingIntake es un albarán capturado externamente que espera aprobación
// humana antes de convertirse en un movimiento de Entrada.
type PendingIntake struct {
	ID           string
	Supplier     string
	DocumentDate time.Time
	Status       string
	DraftItems   []MovementItem
	CreatedAt    time.Time
}
