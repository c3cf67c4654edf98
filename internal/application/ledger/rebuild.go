package ledger

import (
	"context"
	"fmt"

	"github.com/tu-usuario/almacen-api/internal/application/dto"
	ledgerfold "github.com/tu-usuario/almacen-api/internal/domain/ledger"
)

// RebuildStock reconstruye la proyección materializada desde el historial
// completo y reescribe cada SKU divergente. Es la herramienta de reparación
// designada tras una aplicación parcial; nunca es el camino de lectura vivo.
func (uc *LedgerUseCase) RebuildStock(ctx context.Context) (*dto.RebuildStockResponse, error) {
	movements, err := uc.movementRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("leer historial: %w", err)
	}
	computed := ledgerfold.Rebuild(movements)

	current, err := uc.stockRepo.GetMap()
	if err != nil {
		return nil, fmt.Errorf("leer proyección: %w", err)
	}

	repaired := 0
	for sku, qty := range computed {
		if existing, ok := current[sku]; ok && existing.Equal(qty) {
			continue
		}
		if err := uc.stockRepo.SetQuantity(sku, qty); err != nil {
			return nil, fmt.Errorf("reescribir stock de %s: %w", sku, err)
		}
		repaired++
	}
	if uc.log != nil {
		uc.log.Info().Int("skus", len(computed)).Int("repaired", repaired).Msg("proyección reconstruida")
	}
	return &dto.RebuildStockResponse{SKUs: len(computed), Repaired: repaired}, nil
}

// GetStock devuelve la proyección actual {sku -> cantidad}.
func (uc *LedgerUseCase) GetStock(ctx context.Context) (*dto.StockResponse, error) {
	stock, err := uc.stockRepo.GetMap()
	if err != nil {
		return nil, fmt.Errorf("leer proyección: %w", err)
	}
	return &dto.StockResponse{Stock: stock}, nil
}

// History devuelve el historial paginado, más reciente primero.
func (uc *LedgerUseCase) History(ctx context.Context, limit, offset int) (*dto.MovementListResponse, error) {
	movements, err := uc.movementRepo.List(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("leer historial: %w", err)
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}
