package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario.
const (
	MovementKindEntrada        = "Entrada"
	MovementKindSalida         = "Salida"
	MovementKindAjuste         = "Ajuste"
	MovementKindRecuentoManual = "Recuento Manual"
	MovementKindEliminacion    = "Eliminación"
)

// ValidMovementKind indica si kind es uno de los tipos conocidos.
func ValidMovementKind(kind string) bool {
	switch kind {
	case MovementKindEntrada, MovementKindSalida, MovementKindAjuste,
		MovementKindRecuentoManual, MovementKindEliminacion:
		return true
	}
	return false
}

// AbsoluteKind indica si el tipo fija un valor absoluto de stock
// (Ajuste / Recuento Manual) en lugar de aplicar un delta.
func AbsoluteKind(kind string) bool {
	return kind == MovementKindAjuste || kind == MovementKindRecuentoManual
}

// Movement es un registro inmutable del libro. Solo la anulación explícita
// (reversal) puede eliminarlo; no existe "editar movimiento".
// El orden de replay es (CreatedAt, ID).
type Movement struct {
	ID           string
	Kind         string
	OrderDate    time.Time
	DeliveryDate time.Time
	Pallets      int64
	Comment      string
	Items        []MovementItem
	CreatedAt    time.Time
	CreatedBy    string
}

// MovementItem es una línea de un movimiento. Quantity es siempre positiva;
// el signo lo decide el tipo del movimiento. Para Ajuste/Recuento Manual,
// PriorQuantity/NewQuantity guardan el valor absoluto observado/fijado —
// imprescindible para la anulación por replay.
type MovementItem struct {
	SKU           string           `json:"sku"`
	Quantity      decimal.Decimal  `json:"quantity"`
	Description   string           `json:"description"`
	PriorQuantity *decimal.Decimal `json:"prior_quantity,omitempty"`
	NewQuantity   *decimal.Decimal `json:"new_quantity,omitempty"`
}
