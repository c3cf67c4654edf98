package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
	"github.com/tu-usuario/almacen-api/pkg/logger"
)

// ProductUseCase casos de uso del catálogo de materiales. El stock se maneja
// vía movimientos; aquí solo se siembra la fila inicial al crear el producto.
type ProductUseCase struct {
	productRepo  repository.ProductRepository
	stockRepo    repository.StockRepository
	movementRepo repository.MovementRepository
	log          *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	movementRepo repository.MovementRepository,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		log:          log,
	}
}

// Create da de alta un producto y siembra su fila de stock. SKU y descripción
// deben ser únicos (comparación exacta). Si la siembra de stock falla después
// de crear el producto, el alta se retrae: es el único punto del sistema con
// rollback compensatorio explícito, porque aún no existe ningún asiento del
// libro contra el que auditar.
//
// Con cantidad inicial distinta de cero se escribe además un Recuento Manual
// (0 -> inicial): así la fila sembrada sigue siendo derivable del fold del
// historial y el rebuild no la pisa.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Description == "" {
		return nil, fmt.Errorf("%w: sku y description son requeridos", domain.ErrInvalidInput)
	}
	if in.UnitsPerPallet < 1 {
		return nil, fmt.Errorf("%w: units_per_pallet debe ser >= 1", domain.ErrInvalidInput)
	}
	if !in.InitialQuantity.IsInteger() || in.InitialQuantity.IsNegative() {
		return nil, fmt.Errorf("%w: initial_quantity inválida", domain.ErrInvalidInput)
	}
	if existing, _ := uc.productRepo.GetBySKU(in.SKU); existing != nil {
		return nil, fmt.Errorf("%w: el SKU ya existe", domain.ErrDuplicate)
	}
	if existing, _ := uc.productRepo.GetByDescription(in.Description); existing != nil {
		return nil, fmt.Errorf("%w: la descripción ya existe", domain.ErrDuplicate)
	}

	now := time.Now().UTC()
	product := &entity.Product{
		SKU:            in.SKU,
		Description:    in.Description,
		UnitsPerPallet: in.UnitsPerPallet,
		ImageRef:       in.ImageRef,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}

	if err := uc.stockRepo.SetQuantity(in.SKU, in.InitialQuantity); err != nil {
		if delErr := uc.productRepo.Delete(in.SKU); delErr != nil && uc.log != nil {
			uc.log.Error().Err(delErr).Str("sku", in.SKU).Msg("no se pudo retraer el alta de producto")
		}
		return nil, fmt.Errorf("sembrar stock inicial: %w", err)
	}

	if !in.InitialQuantity.IsZero() {
		prior := decimal.Zero
		initial := in.InitialQuantity
		seed := &entity.Movement{
			ID:        uuid.New().String(),
			Kind:      entity.MovementKindRecuentoManual,
			Comment:   "Stock inicial",
			CreatedAt: now,
			CreatedBy: userID,
			Items: []entity.MovementItem{{
				SKU:           in.SKU,
				Quantity:      initial,
				Description:   in.Description,
				PriorQuantity: &prior,
				NewQuantity:   &initial,
			}},
		}
		if err := uc.movementRepo.Create(seed); err != nil {
			// La fila de stock ya refleja el valor correcto; sin el asiento
			// semilla el rebuild daría otro resultado, así que se reporta.
			return nil, &domain.PartialApplicationError{MovementID: seed.ID, FailedSKUs: []string{in.SKU}, Err: err}
		}
	}

	return uc.toResponse(product)
}

// Update modifica los únicos campos mutables: units_per_pallet e image_ref.
func (uc *ProductUseCase) Update(ctx context.Context, sku string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetBySKU(sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.UnitsPerPallet != nil {
		if *in.UnitsPerPallet < 1 {
			return nil, fmt.Errorf("%w: units_per_pallet debe ser >= 1", domain.ErrInvalidInput)
		}
		product.UnitsPerPallet = *in.UnitsPerPallet
	}
	if in.ImageRef != nil {
		product.ImageRef = in.ImageRef
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return uc.toResponse(product)
}

// GetBySKU obtiene un producto con su stock actual.
func (uc *ProductUseCase) GetBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetBySKU(sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return uc.toResponse(product)
}

// List devuelve el catálogo completo con el stock actual por SKU.
func (uc *ProductUseCase) List(ctx context.Context) (*dto.ProductListResponse, error) {
	products, err := uc.productRepo.List()
	if err != nil {
		return nil, err
	}
	stock, err := uc.stockRepo.GetMap()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		qty := decimal.Zero
		if q, ok := stock[p.SKU]; ok {
			qty = q
		}
		items = append(items, dto.ProductResponse{
			SKU:            p.SKU,
			Description:    p.Description,
			UnitsPerPallet: p.UnitsPerPallet,
			ImageRef:       p.ImageRef,
			Quantity:       qty,
			CreatedAt:      p.CreatedAt,
			UpdatedAt:      p.UpdatedAt,
		})
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}, nil
}

// Delete elimina un producto y su fila de stock. Se rechaza mientras algún
// movimiento referencie el SKU (guarda referencial). Si el stock era distinto
// de cero, antes de borrar se escribe un movimiento de Eliminación con la
// cantidad desechada: rastro de auditoría distinto de "el stock llegó a cero
// por Salidas".
func (uc *ProductUseCase) Delete(ctx context.Context, userID, sku string) error {
	product, err := uc.productRepo.GetBySKU(sku)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	referenced, err := uc.movementRepo.ExistsForSKU(sku)
	if err != nil {
		return fmt.Errorf("comprobar referencias: %w", err)
	}
	if referenced {
		return domain.ErrMovementReferenced
	}

	stock, err := uc.stockRepo.Get(sku)
	if err != nil {
		return err
	}
	if stock != nil && !stock.Quantity.IsZero() {
		disposal := &entity.Movement{
			ID:        uuid.New().String(),
			Kind:      entity.MovementKindEliminacion,
			Comment:   "Baja de producto: " + product.Description,
			CreatedAt: time.Now().UTC(),
			CreatedBy: userID,
			Items: []entity.MovementItem{{
				SKU:         sku,
				Quantity:    stock.Quantity.Abs(),
				Description: product.Description,
			}},
		}
		if err := uc.movementRepo.Create(disposal); err != nil {
			return fmt.Errorf("registrar eliminación: %w", err)
		}
	}

	if err := uc.stockRepo.Delete(sku); err != nil {
		return fmt.Errorf("borrar stock: %w", err)
	}
	if err := uc.productRepo.Delete(sku); err != nil {
		return fmt.Errorf("borrar producto: %w", err)
	}
	return nil
}

func (uc *ProductUseCase) toResponse(p *entity.Product) (*dto.ProductResponse, error) {
	qty := decimal.Zero
	if stock, err := uc.stockRepo.Get(p.SKU); err == nil && stock != nil {
		qty = stock.Quantity
	}
	return &dto.ProductResponse{
		SKU:            p.SKU,
		Description:    p.Description,
		UnitsPerPallet: p.UnitsPerPallet,
		ImageRef:       p.ImageRef,
		Quantity:       qty,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}, nil
}
