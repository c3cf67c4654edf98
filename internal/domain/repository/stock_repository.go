package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// StockRepository define el puerto sobre la proyección materializada de stock.
// IncrementQuantity es el único camino de mutación seguro ante escritores
// concurrentes: se ejecuta como un paso atómico en el servidor, nunca como
// read-modify-write desde el cliente.
type StockRepository interface {
	Get(sku string) (*entity.StockEntry, error)
	GetMap() (map[string]decimal.Decimal, error)
	// IncrementQuantity suma delta (con signo) a la cantidad del SKU de forma
	// atómica en el servidor y devuelve el valor resultante. Crea la fila en 0
	// si no existe.
	IncrementQuantity(sku string, delta decimal.Decimal) (decimal.Decimal, error)
	// SetQuantity fija la cantidad del SKU de forma incondicional (upsert).
	SetQuantity(sku string, quantity decimal.Decimal) error
	Delete(sku string) error
}
