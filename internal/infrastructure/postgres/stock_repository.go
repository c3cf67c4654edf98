package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene la fila de stock de un SKU. Devuelve nil si no existe.
func (r *StockRepo) Get(sku string) (*entity.StockEntry, error) {
	query := `SELECT sku, quantity, updated_at FROM stock WHERE sku = $1`
	var s entity.StockEntry
	err := r.q.QueryRow(context.Background(), query, sku).Scan(&s.SKU, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetMap devuelve la proyección completa {sku -> cantidad}.
func (r *StockRepo) GetMap() (map[string]decimal.Decimal, error) {
	rows, err := r.q.Query(context.Background(), `SELECT sku, quantity FROM stock`)
	if err != nil {
		return nil, fmt.Errorf("get stock map: %w", err)
	}
	defer rows.Close()
	result := make(map[string]decimal.Decimal)
	for rows.Next() {
		var sku string
		var qty decimal.Decimal
		if err := rows.Scan(&sku, &qty); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		result[sku] = qty
	}
	return result, rows.Err()
}

// IncrementQuantity suma delta a la cantidad del SKU como un único paso
// atómico en el servidor (upsert incremental) y devuelve el valor resultante.
// Es el único camino de mutación seguro ante escritores concurrentes: nunca
// read-modify-write desde el cliente.
func (r *StockRepo) IncrementQuantity(sku string, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		INSERT INTO stock (sku, quantity, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (sku)
		DO UPDATE SET quantity = stock.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING quantity`
	var newQty decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, sku, delta).Scan(&newQty); err != nil {
		return decimal.Zero, fmt.Errorf("increment stock: %w", err)
	}
	return newQty, nil
}

// SetQuantity fija la cantidad del SKU de forma incondicional (upsert).
func (r *StockRepo) SetQuantity(sku string, quantity decimal.Decimal) error {
	query := `
		INSERT INTO stock (sku, quantity, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (sku)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(context.Background(), query, sku, quantity); err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	return nil
}

// Delete elimina la fila de stock de un SKU.
func (r *StockRepo) Delete(sku string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM stock WHERE sku = $1`, sku); err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	return nil
}
