package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (sku, description, units_per_pallet, image_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		product.SKU, product.Description, product.UnitsPerPallet, product.ImageRef,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	return r.getByField("sku", sku)
}

// GetByDescription obtiene un producto por descripción (comparación exacta).
func (r *ProductRepo) GetByDescription(description string) (*entity.Product, error) {
	return r.getByField("description", description)
}

func (r *ProductRepo) getByField(field, value string) (*entity.Product, error) {
	query := fmt.Sprintf(`
		SELECT sku, description, units_per_pallet, image_ref, created_at, updated_at
		FROM products WHERE %s = $1`, field)
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, value).Scan(
		&p.SKU, &p.Description, &p.UnitsPerPallet, &p.ImageRef, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update actualiza los campos mutables del producto (units_per_pallet e image_ref).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET units_per_pallet = $2, image_ref = $3, updated_at = $4
		WHERE sku = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.SKU, product.UnitsPerPallet, product.ImageRef, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// List devuelve el catálogo completo ordenado por descripción.
func (r *ProductRepo) List() ([]*entity.Product, error) {
	query := `
		SELECT sku, description, units_per_pallet, image_ref, created_at, updated_at
		FROM products ORDER BY description`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.SKU, &p.Description, &p.UnitsPerPallet, &p.ImageRef, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Delete elimina un producto por SKU.
func (r *ProductRepo) Delete(sku string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE sku = $1`, sku)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
