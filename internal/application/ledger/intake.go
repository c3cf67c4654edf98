package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// IntakeUseCase gestiona la cola de entradas pendientes: borradores capturados
// externamente que esperan aprobación humana antes de convertirse en Entradas.
type IntakeUseCase struct {
	intakeRepo repository.PendingIntakeRepository
	ledger     *LedgerUseCase
}

// NewIntakeUseCase construye el caso de uso.
func NewIntakeUseCase(intakeRepo repository.PendingIntakeRepository, ledger *LedgerUseCase) *IntakeUseCase {
	return &IntakeUseCase{intakeRepo: intakeRepo, ledger: ledger}
}

// Enqueue da de alta un borrador pendiente.
func (uc *IntakeUseCase) Enqueue(ctx context.Context, in dto.EnqueueIntakeRequest) (*dto.IntakeResponse, error) {
	if in.Supplier == "" || len(in.DraftItems) == 0 {
		return nil, fmt.Errorf("%w: proveedor y artículos son requeridos", domain.ErrInvalidInput)
	}
	docDate, _, err := parseDates(in.DocumentDate, "")
	if err != nil {
		return nil, err
	}
	items := make([]entity.MovementItem, 0, len(in.DraftItems))
	for _, it := range in.DraftItems {
		items = append(items, entity.MovementItem{
			SKU:         it.SKU,
			Quantity:    it.Quantity,
			Description: it.Description,
		})
	}
	intake := &entity.PendingIntake{
		ID:           uuid.New().String(),
		Supplier:     in.Supplier,
		DocumentDate: docDate,
		Status:       entity.IntakeStatusPendiente,
		DraftItems:   items,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.intakeRepo.Create(intake); err != nil {
		return nil, fmt.Errorf("persistir borrador: %w", err)
	}
	return toIntakeResponse(intake), nil
}

// List devuelve los borradores por estado (por defecto, pendientes).
func (uc *IntakeUseCase) List(ctx context.Context, status string) ([]dto.IntakeResponse, error) {
	if status == "" {
		status = entity.IntakeStatusPendiente
	}
	list, err := uc.intakeRepo.ListByStatus(status)
	if err != nil {
		return nil, fmt.Errorf("listar borradores: %w", err)
	}
	out := make([]dto.IntakeResponse, 0, len(list))
	for _, intake := range list {
		out = append(out, *toIntakeResponse(intake))
	}
	return out, nil
}

// Approve convierte un borrador en un movimiento de Entrada. Solo si el
// movimiento se registra con éxito se marca el borrador como Aprobado; si el
// registro falla, el borrador queda intacto — nunca puede existir una entrada
// "aprobada" sin el asiento correspondiente en el libro.
func (uc *IntakeUseCase) Approve(ctx context.Context, userID, intakeID string, in dto.ApproveIntakeRequest) (*dto.ApproveIntakeResponse, error) {
	intake, err := uc.intakeRepo.GetByID(intakeID)
	if err != nil {
		return nil, fmt.Errorf("leer borrador: %w", err)
	}
	if intake == nil {
		return nil, domain.ErrNotFound
	}
	if intake.Status != entity.IntakeStatusPendiente {
		return nil, domain.ErrConflict
	}

	// Los ítems finales revisados sustituyen al borrador; si no se envían,
	// se aprueba tal cual llegó de la captura documental.
	items := in.Items
	if len(items) == 0 {
		items = make([]dto.MovementItemDTO, 0, len(intake.DraftItems))
		for _, it := range intake.DraftItems {
			items = append(items, dto.MovementItemDTO{
				SKU:         it.SKU,
				Quantity:    it.Quantity,
				Description: it.Description,
			})
		}
	}

	movement, err := uc.ledger.Register(ctx, userID, dto.RegisterMovementRequest{
		Kind:         entity.MovementKindEntrada,
		DeliveryDate: intake.DocumentDate.Format(dateLayout),
		Pallets:      in.Pallets,
		Comment:      approveComment(intake.Supplier, in.Comment),
		Items:        items,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.intakeRepo.UpdateStatus(intakeID, entity.IntakeStatusAprobado); err != nil {
		// El movimiento ya existe y es válido; el estado del borrador se
		// reconcilia a mano. Se reporta sin deshacer la entrada.
		return nil, fmt.Errorf("marcar borrador como aprobado (la entrada %s ya quedó registrada): %w", movement.ID, err)
	}
	return &dto.ApproveIntakeResponse{IntakeID: intakeID, MovementID: movement.ID}, nil
}

func approveComment(supplier, comment string) string {
	if comment != "" {
		return comment
	}
	return "Albarán de " + supplier
}

func toIntakeResponse(i *entity.PendingIntake) *dto.IntakeResponse {
	items := make([]dto.MovementItemDTO, 0, len(i.DraftItems))
	for _, it := range i.DraftItems {
		items = append(items, dto.MovementItemDTO{
			SKU:         it.SKU,
			Quantity:    it.Quantity,
			Description: it.Description,
		})
	}
	return &dto.IntakeResponse{
		ID:           i.ID,
		Supplier:     i.Supplier,
		DocumentDate: i.DocumentDate,
		Status:       i.Status,
		DraftItems:   items,
		CreatedAt:    i.CreatedAt,
	}
}
