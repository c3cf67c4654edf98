package repository

import "github.com/tu-usuario/almacen-api/internal/domain/entity"

// MovementRepository define el puerto de persistencia del libro de movimientos.
// El libro es append-only: no hay update, solo Create y Delete (anulación).
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	// ListAll devuelve el historial completo en orden de replay (created_at, id).
	ListAll() ([]*entity.Movement, error)
	// ListBySKU devuelve, en orden de replay, los movimientos con algún ítem del SKU.
	ListBySKU(sku string) ([]*entity.Movement, error)
	// List pagina el historial en orden inverso (más reciente primero) para la UI.
	List(limit, offset int) ([]*entity.Movement, error)
	// ExistsForSKU indica si algún movimiento referencia el SKU (guarda referencial).
	ExistsForSKU(sku string) (bool, error)
	Delete(id string) error
}
