package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// ManualCount compara el recuento físico con la proyección actual y, si hay
// diferencias, escribe UN movimiento de Ajuste con los pares prior/new por
// SKU y fija cada cantidad de forma absoluta. Los SKUs cuyo recuento coincide
// con la proyección se descartan; si no queda ninguno, no se escribe nada y
// se informa como no-op (idempotencia del recuento).
func (uc *LedgerUseCase) ManualCount(ctx context.Context, userID string, in dto.ManualCountRequest) (*dto.ManualCountResponse, error) {
	if len(in.Counts) == 0 {
		return nil, fmt.Errorf("%w: recuento vacío", domain.ErrInvalidInput)
	}
	for sku, qty := range in.Counts {
		if !qty.IsInteger() || qty.IsNegative() {
			return nil, fmt.Errorf("%w: cantidad inválida para %s", domain.ErrInvalidInput, sku)
		}
	}

	current, err := uc.stockRepo.GetMap()
	if err != nil {
		return nil, fmt.Errorf("leer proyección: %w", err)
	}

	// Orden estable por SKU para que los ítems del ajuste sean deterministas.
	skus := make([]string, 0, len(in.Counts))
	for sku := range in.Counts {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	var items []entity.MovementItem
	for _, sku := range skus {
		counted := in.Counts[sku]
		prior, ok := current[sku]
		if !ok {
			prior = decimal.Zero
		}
		if counted.Equal(prior) {
			continue
		}
		p, n := prior, counted
		items = append(items, entity.MovementItem{
			SKU:           sku,
			Quantity:      n.Sub(p).Abs(),
			Description:   in.Reason,
			PriorQuantity: &p,
			NewQuantity:   &n,
		})
	}
	if len(items) == 0 {
		return &dto.ManualCountResponse{NoOp: true}, nil
	}

	movement := &entity.Movement{
		ID:        uuid.New().String(),
		Kind:      entity.MovementKindAjuste,
		Comment:   in.Reason,
		Items:     items,
		CreatedAt: time.Now().UTC(),
		CreatedBy: userID,
	}
	if err := uc.movementRepo.Create(movement); err != nil {
		return nil, fmt.Errorf("persistir ajuste: %w", err)
	}
	if err := uc.applyToProjection(movement); err != nil {
		return nil, err
	}
	return &dto.ManualCountResponse{MovementID: movement.ID, Changed: len(items)}, nil
}
