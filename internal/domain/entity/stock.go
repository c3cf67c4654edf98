package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry es la fila materializada de stock actual por SKU.
// Siempre derivable del fold del historial de movimientos (invariante I1);
// nunca se edita a mano fuera de ese fold.
type StockEntry struct {
	SKU       string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
