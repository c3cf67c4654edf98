package repository

import "github.com/tu-usuario/almacen-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia del catálogo.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetBySKU(sku string) (*entity.Product, error)
	GetByDescription(description string) (*entity.Product, error)
	Update(product *entity.Product) error
	List() ([]*entity.Product, error)
	Delete(sku string) error
}
