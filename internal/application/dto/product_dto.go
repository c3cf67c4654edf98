package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de un material de embalaje.
type CreateProductRequest struct {
	SKU             string          `json:"sku"`
	Description     string          `json:"description"`
	UnitsPerPallet  int64           `json:"units_per_pallet"`
	ImageRef        *string         `json:"image_ref,omitempty"`
	InitialQuantity decimal.Decimal `json:"initial_quantity"`
}

// UpdateProductRequest solo los campos mutables del producto.
type UpdateProductRequest struct {
	UnitsPerPallet *int64  `json:"units_per_pallet,omitempty"`
	ImageRef       *string `json:"image_ref,omitempty"`
}

// ProductResponse producto del catálogo con su stock actual.
type ProductResponse struct {
	SKU            string          `json:"sku"`
	Description    string          `json:"description"`
	UnitsPerPallet int64           `json:"units_per_pallet"`
	ImageRef       *string         `json:"image_ref,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductListResponse listado del catálogo.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}
