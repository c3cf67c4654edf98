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

var _ repository.PendingIntakeRepository = (*PendingIntakeRepo)(nil)

// PendingIntakeRepo implementación de la cola de entradas pendientes sobre PostgreSQL.
type PendingIntakeRepo struct {
	q Querier
}

// NewPendingIntakeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPendingIntakeRepository(q Querier) *PendingIntakeRepo {
	return &PendingIntakeRepo{q: q}
}

// Create persiste un borrador de entrada.
func (r *PendingIntakeRepo) Create(intake *entity.PendingIntake) error {
	items, err := json.Marshal(intake.DraftItems)
	if err != nil {
		return fmt.Errorf("marshal draft items: %w", err)
	}
	query := `
		INSERT INTO pending_intakes (id, supplier, document_date, status, draft_items, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.q.Exec(context.Background(), query,
		intake.ID, intake.Supplier, intake.DocumentDate, intake.Status, items, intake.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create pending intake: %w", err)
	}
	return nil
}

// GetByID obtiene un borrador por ID. Devuelve nil si no existe.
func (r *PendingIntakeRepo) GetByID(id string) (*entity.PendingIntake, error) {
	query := `
		SELECT id, supplier, document_date, status, draft_items, created_at
		FROM pending_intakes WHERE id = $1`
	var i entity.PendingIntake
	var items []byte
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&i.ID, &i.Supplier, &i.DocumentDate, &i.Status, &items, &i.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pending intake: %w", err)
	}
	if err := json.Unmarshal(items, &i.DraftItems); err != nil {
		return nil, fmt.Errorf("unmarshal draft items: %w", err)
	}
	return &i, nil
}

// ListByStatus lista borradores por estado, más reciente primero.
func (r *PendingIntakeRepo) ListByStatus(status string) ([]*entity.PendingIntake, error) {
	query := `
		SELECT id, supplier, document_date, status, draft_items, created_at
		FROM pending_intakes WHERE status = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, status)
	if err != nil {
		return nil, fmt.Errorf("list pending intakes: %w", err)
	}
	defer rows.Close()
	var list []*entity.PendingIntake
	for rows.Next() {
		var i entity.PendingIntake
		var items []byte
		if err := rows.Scan(&i.ID, &i.Supplier, &i.DocumentDate, &i.Status, &items, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending intake: %w", err)
		}
		if err := json.Unmarshal(items, &i.DraftItems); err != nil {
			return nil, fmt.Errorf("unmarshal draft items: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado de un borrador.
func (r *PendingIntakeRepo) UpdateStatus(id, status string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE pending_intakes SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update intake status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update intake status: no existe %s", id)
	}
	return nil
}

// Delete elimina un borrador.
func (r *PendingIntakeRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM pending_intakes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete pending intake: %w", err)
	}
	return nil
}
