package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementItemDTO línea de un movimiento. Quantity siempre positiva y entera;
// el signo lo decide el tipo. Prior/New solo aplican a Ajuste/Recuento Manual.
type MovementItemDTO struct {
	SKU           string           `json:"sku"`
	Quantity      decimal.Decimal  `json:"quantity"`
	Description   string           `json:"description"`
	PriorQuantity *decimal.Decimal `json:"prior_quantity,omitempty"`
	NewQuantity   *decimal.Decimal `json:"new_quantity,omitempty"`
}

// RegisterMovementRequest registro de un movimiento (Entrada/Salida).
// Las fechas llegan como "YYYY-MM-DD".
type RegisterMovementRequest struct {
	Kind         string            `json:"kind"`
	OrderDate    string            `json:"order_date"`
	DeliveryDate string            `json:"delivery_date"`
	Pallets      int64             `json:"pallets"`
	Comment      string            `json:"comment"`
	Items        []MovementItemDTO `json:"items"`
}

// ManualCountRequest recuento físico: cantidad observada por SKU.
type ManualCountRequest struct {
	Counts map[string]decimal.Decimal `json:"counts"`
	Reason string                     `json:"reason"`
}

// ManualCountResponse resultado del recuento. NoOp indica que el recuento
// coincidía con la proyección y no se escribió ningún movimiento.
type ManualCountResponse struct {
	NoOp       bool   `json:"no_op"`
	MovementID string `json:"movement_id,omitempty"`
	Changed    int    `json:"changed"`
}

// MovementResponse movimiento del historial.
type MovementResponse struct {
	ID           string            `json:"id"`
	Kind         string            `json:"kind"`
	OrderDate    time.Time         `json:"order_date"`
	DeliveryDate time.Time         `json:"delivery_date"`
	Pallets      int64             `json:"pallets"`
	Comment      string            `json:"comment"`
	Items        []MovementItemDTO `json:"items"`
	CreatedAt    time.Time         `json:"created_at"`
	CreatedBy    string            `json:"created_by,omitempty"`
}

// MovementListResponse historial paginado (más reciente primero).
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StockResponse proyección actual {sku -> cantidad}.
type StockResponse struct {
	Stock map[string]decimal.Decimal `json:"stock"`
}

// RebuildStockResponse resultado de la reconstrucción de la proyección.
type RebuildStockResponse struct {
	SKUs     int `json:"skus"`
	Repaired int `json:"repaired"`
}
