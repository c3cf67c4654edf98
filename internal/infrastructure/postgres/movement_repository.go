package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL.
// Los ítems se guardan como JSONB en la misma fila: un movimiento es un
// documento inmutable, no una relación.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, kind, order_date, delivery_date, pallets, comment, items, created_at, created_by`

// Create persiste un movimiento (append-only).
func (r *MovementRepo) Create(movement *entity.Movement) error {
	items, err := json.Marshal(movement.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	query := `
		INSERT INTO movements (id, kind, order_date, delivery_date, pallets, comment, items, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err = r.q.Exec(context.Background(), query,
		movement.ID, movement.Kind, movement.OrderDate, movement.DeliveryDate,
		movement.Pallets, movement.Comment, items, movement.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. Devuelve nil si no existe.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := r.scanRow(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListAll devuelve el historial completo en orden de replay (created_at, id).
func (r *MovementRepo) ListAll() ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements ORDER BY created_at, id`
	return r.list(query)
}

// ListBySKU devuelve, en orden de replay, los movimientos con algún ítem del
// SKU. El filtro usa el operador de contención JSONB sobre la columna items.
func (r *MovementRepo) ListBySKU(sku string) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE items @> jsonb_build_array(jsonb_build_object('sku', $1::text))
		ORDER BY created_at, id`
	return r.list(query, sku)
}

// List pagina el historial en orden inverso (más reciente primero) para la UI.
func (r *MovementRepo) List(limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

// ExistsForSKU indica si algún movimiento referencia el SKU.
func (r *MovementRepo) ExistsForSKU(sku string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM movements
			WHERE items @> jsonb_build_array(jsonb_build_object('sku', $1::text))
		)`
	var exists bool
	if err := r.q.QueryRow(context.Background(), query, sku).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists for sku: %w", err)
	}
	return exists, nil
}

// Delete borra un movimiento (anulación). No queda tombstone.
func (r *MovementRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM movements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	return nil
}

func (r *MovementRepo) list(query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var result []*entity.Movement
	for rows.Next() {
		m, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *MovementRepo) scanRow(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var items []byte
	var createdBy *string
	if err := row.Scan(&m.ID, &m.Kind, &m.OrderDate, &m.DeliveryDate, &m.Pallets,
		&m.Comment, &items, &m.CreatedAt, &createdBy); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &m.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
