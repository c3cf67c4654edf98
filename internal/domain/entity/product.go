package entity

import "time"

// Product es un material de embalaje del catálogo. El SKU es la clave primaria
// y la descripción también es única. Solo UnitsPerPallet e ImageRef son
// mutables después de la creación; el stock se maneja vía movimientos.
type Product struct {
	SKU            string
	Description    string
	UnitsPerPallet int64 // unidades base por palet, >= 1
	ImageRef       *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
