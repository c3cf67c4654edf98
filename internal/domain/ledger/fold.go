// Package ledger contiene el motor puro de reconciliación de inventario:
// la regla de fold por tipo de movimiento y el replay del historial completo.
// Es la única fuente de verdad para reparar la proyección materializada y
// la base de la anulación por replay.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// Apply aplica la regla de fold de un ítem sobre la cantidad actual:
// Entrada suma, Salida resta, Ajuste/Recuento Manual fijan el valor absoluto
// (NewQuantity manda sobre todo el historial anterior) y Eliminación no tiene
// efecto sobre el stock — solo documenta un desecho a posteriori.
func Apply(current decimal.Decimal, kind string, item entity.MovementItem) decimal.Decimal {
	switch kind {
	case entity.MovementKindEntrada:
		return current.Add(item.Quantity)
	case entity.MovementKindSalida:
		return current.Sub(item.Quantity)
	case entity.MovementKindAjuste, entity.MovementKindRecuentoManual:
		if item.NewQuantity != nil {
			return *item.NewQuantity
		}
		return current
	}
	return current
}

// sortByReplayOrder ordena movimientos por (CreatedAt, ID), el orden canónico
// de replay. El ID desempata inserciones con la misma marca de tiempo.
func sortByReplayOrder(movements []*entity.Movement) []*entity.Movement {
	sorted := make([]*entity.Movement, len(movements))
	copy(sorted, movements)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// Rebuild recalcula la proyección completa {sku -> cantidad} desde cero:
// inicializa en 0 todo SKU referenciado y aplica los movimientos en orden de
// replay. Función pura; no toca el almacén.
func Rebuild(movements []*entity.Movement) map[string]decimal.Decimal {
	result := make(map[string]decimal.Decimal)
	for _, m := range movements {
		for _, item := range m.Items {
			if _, ok := result[item.SKU]; !ok {
				result[item.SKU] = decimal.Zero
			}
		}
	}
	for _, m := range sortByReplayOrder(movements) {
		for _, item := range m.Items {
			result[item.SKU] = Apply(result[item.SKU], m.Kind, item)
		}
	}
	return result
}

// RebuildSKU ejecuta el fold restringido a un SKU, desde cero. Se usa en la
// anulación por replay: tras borrar el movimiento objetivo, la cantidad
// correcta es el fold del historial restante.
func RebuildSKU(movements []*entity.Movement, sku string) decimal.Decimal {
	qty := decimal.Zero
	for _, m := range sortByReplayOrder(movements) {
		for _, item := range m.Items {
			if item.SKU == sku {
				qty = Apply(qty, m.Kind, item)
			}
		}
	}
	return qty
}

// HasAbsoluteAfter indica si existe un Ajuste o Recuento Manual sobre sku
// posterior (en orden de replay) al movimiento after. Si existe,
// la compensación aditiva de una Entrada/Salida anterior ya no es válida y
// hay que hacer replay.
func HasAbsoluteAfter(movements []*entity.Movement, sku string, after *entity.Movement) bool {
	for _, m := range movements {
		if m.ID == after.ID {
			continue
		}
		if m.CreatedAt.Before(after.CreatedAt) {
			continue
		}
		if m.CreatedAt.Equal(after.CreatedAt) && m.ID < after.ID {
			continue
		}
		if !entity.AbsoluteKind(m.Kind) {
			continue
		}
		for _, item := range m.Items {
			if item.SKU == sku {
				return true
			}
		}
	}
	return false
}
