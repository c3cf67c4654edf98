package ledger

import (
	"context"
	"fmt"

	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	ledgerfold "github.com/tu-usuario/almacen-api/internal/domain/ledger"
)

// Reverse anula un movimiento restaurando la consistencia de la proyección.
//
//   - Eliminación: borrar el asiento es una edición pura de auditoría, el
//     stock no se toca.
//   - Entrada/Salida sin ningún Ajuste/Recuento posterior sobre el SKU:
//     compensación aditiva (delta opuesto vía incremento atómico) y después
//     borrado del asiento. El atajo solo es válido porque la suma es
//     conmutativa mientras nada absoluto intervenga después.
//   - Resto de casos (Ajuste/Recuento siempre; Entrada/Salida con un absoluto
//     posterior): borrar primero el asiento y, por cada SKU afectado, re-leer
//     el historial restante y reescribir el fold de forma absoluta. El valor
//     de un Ajuste depende de su posición en el historial, no solo de su
//     propio contenido, así que no hay compensación local posible.
//
// El replay tolera inserciones concurrentes durante sus re-lecturas; el
// riesgo de consistencia eventual se asume en lugar de bloquear el libro.
func (uc *LedgerUseCase) Reverse(ctx context.Context, movementID string) error {
	movement, err := uc.movementRepo.GetByID(movementID)
	if err != nil {
		return fmt.Errorf("leer movimiento: %w", err)
	}
	if movement == nil {
		return domain.ErrNotFound
	}

	if movement.Kind == entity.MovementKindEliminacion {
		if err := uc.movementRepo.Delete(movementID); err != nil {
			return fmt.Errorf("borrar movimiento: %w", err)
		}
		return nil
	}

	if !entity.AbsoluteKind(movement.Kind) {
		replaySKUs, err := uc.skusNeedingReplay(movement)
		if err != nil {
			return err
		}
		if len(replaySKUs) == 0 {
			return uc.reverseAdditive(movement)
		}
		return uc.reverseByReplay(movement)
	}
	return uc.reverseByReplay(movement)
}

// skusNeedingReplay devuelve los SKUs del movimiento con algún Ajuste o
// Recuento posterior en el historial; para esos la compensación aditiva
// produciría un valor incorrecto.
func (uc *LedgerUseCase) skusNeedingReplay(m *entity.Movement) ([]string, error) {
	var skus []string
	for _, item := range m.Items {
		history, err := uc.movementRepo.ListBySKU(item.SKU)
		if err != nil {
			return nil, fmt.Errorf("leer historial de %s: %w", item.SKU, err)
		}
		if ledgerfold.HasAbsoluteAfter(history, item.SKU, m) {
			skus = append(skus, item.SKU)
		}
	}
	return skus, nil
}

// reverseAdditive aplica el delta opuesto por ítem y después borra el asiento.
func (uc *LedgerUseCase) reverseAdditive(m *entity.Movement) error {
	for _, item := range m.Items {
		delta := item.Quantity
		if m.Kind == entity.MovementKindEntrada {
			delta = delta.Neg() // anular una entrada resta
		}
		if _, err := uc.stockRepo.IncrementQuantity(item.SKU, delta); err != nil {
			return &domain.PartialApplicationError{MovementID: m.ID, FailedSKUs: []string{item.SKU}, Err: err}
		}
	}
	if err := uc.movementRepo.Delete(m.ID); err != nil {
		return fmt.Errorf("borrar movimiento: %w", err)
	}
	return nil
}

// reverseByReplay borra primero el asiento y reconstruye cada SKU afectado
// con el fold del historial restante.
func (uc *LedgerUseCase) reverseByReplay(m *entity.Movement) error {
	if err := uc.movementRepo.Delete(m.ID); err != nil {
		return fmt.Errorf("borrar movimiento: %w", err)
	}
	var failed []string
	var lastErr error
	for _, item := range m.Items {
		remaining, err := uc.movementRepo.ListBySKU(item.SKU)
		if err != nil {
			failed = append(failed, item.SKU)
			lastErr = err
			continue
		}
		qty := ledgerfold.RebuildSKU(remaining, item.SKU)
		if err := uc.stockRepo.SetQuantity(item.SKU, qty); err != nil {
			failed = append(failed, item.SKU)
			lastErr = err
		}
	}
	if len(failed) > 0 {
		return &domain.PartialApplicationError{MovementID: m.ID, FailedSKUs: failed, Err: lastErr}
	}
	return nil
}
