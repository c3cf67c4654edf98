// Package ledger contiene los casos de uso del libro de movimientos:
// registro, recuento manual, anulación y reconstrucción de la proyección.
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
	"github.com/tu-usuario/almacen-api/pkg/logger"
)

// LedgerUseCase registra movimientos y mantiene la proyección de stock
// consistente con el libro. No usa transacciones entre tablas: el asiento del
// libro se escribe primero y, si la proyección falla después, el asiento se
// conserva y el fallo se reporta como aplicación parcial (auditoría manda
// sobre consistencia).
type LedgerUseCase struct {
	movementRepo repository.MovementRepository
	stockRepo    repository.StockRepository
	notifRepo    repository.NotificationRepository
	log          *logger.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	movementRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	notifRepo repository.NotificationRepository,
	log *logger.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		movementRepo: movementRepo,
		stockRepo:    stockRepo,
		notifRepo:    notifRepo,
		log:          log,
	}
}

const dateLayout = "2006-01-02"

// Register valida y persiste un movimiento y aplica su efecto a la proyección.
//  1. Validación local: sin efecto en el almacén si falla.
//  2. Asiento del libro primero; si falla, se aborta sin tocar stock.
//  3. Efecto por ítem vía incremento atómico / set absoluto del servidor.
//     Un fallo aquí deja el asiento escrito y devuelve PartialApplicationError.
func (uc *LedgerUseCase) Register(ctx context.Context, userID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	items, err := validateItems(in.Kind, in.Items)
	if err != nil {
		return nil, err
	}

	orderDate, deliveryDate, err := parseDates(in.OrderDate, in.DeliveryDate)
	if err != nil {
		return nil, err
	}

	movement := &entity.Movement{
		ID:           uuid.New().String(),
		Kind:         in.Kind,
		OrderDate:    orderDate,
		DeliveryDate: deliveryDate,
		Pallets:      in.Pallets,
		Comment:      in.Comment,
		Items:        items,
		CreatedAt:    time.Now().UTC(),
		CreatedBy:    userID,
	}
	if err := uc.movementRepo.Create(movement); err != nil {
		return nil, fmt.Errorf("persistir movimiento: %w", err)
	}

	if err := uc.applyToProjection(movement); err != nil {
		return nil, err
	}

	uc.notify(userID, movement)
	return toMovementResponse(movement), nil
}

// applyToProjection aplica el efecto de cada ítem según el tipo. Los ítems se
// aplican de forma independiente (el almacén no ofrece transacciones entre
// filas): un fallo en el ítem N deja los anteriores aplicados y se reporta
// como aplicación parcial, nunca se reintenta en silencio.
func (uc *LedgerUseCase) applyToProjection(m *entity.Movement) error {
	var failed []string
	var lastErr error
	for _, item := range m.Items {
		var err error
		switch m.Kind {
		case entity.MovementKindEntrada:
			_, err = uc.stockRepo.IncrementQuantity(item.SKU, item.Quantity)
		case entity.MovementKindSalida:
			_, err = uc.stockRepo.IncrementQuantity(item.SKU, item.Quantity.Neg())
		case entity.MovementKindAjuste, entity.MovementKindRecuentoManual:
			err = uc.stockRepo.SetQuantity(item.SKU, *item.NewQuantity)
		case entity.MovementKindEliminacion:
			// Sin efecto sobre stock: solo documenta el desecho.
		}
		if err != nil {
			failed = append(failed, item.SKU)
			lastErr = err
		}
	}
	if len(failed) > 0 {
		return &domain.PartialApplicationError{MovementID: m.ID, FailedSKUs: failed, Err: lastErr}
	}
	return nil
}

// notify emite un aviso por entradas y salidas. Un fallo aquí nunca hace
// fallar el movimiento: se registra y se sigue.
func (uc *LedgerUseCase) notify(userID string, m *entity.Movement) {
	if uc.notifRepo == nil || userID == "" {
		return
	}
	var msg string
	switch m.Kind {
	case entity.MovementKindEntrada:
		msg = fmt.Sprintf("Entrada registrada con %d artículo(s)", len(m.Items))
	case entity.MovementKindSalida:
		msg = fmt.Sprintf("Salida registrada con %d artículo(s)", len(m.Items))
	default:
		return
	}
	n := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Message:   msg,
		Type:      "success",
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.notifRepo.Create(n); err != nil && uc.log != nil {
		uc.log.Warn().Err(err).Str("movement_id", m.ID).Msg("no se pudo crear la notificación")
	}
}

// validateItems aplica las reglas previas al asiento: tipo conocido, lista no
// vacía, sin SKU duplicado (I2), cantidades enteras y positivas y, para tipos
// absolutos, NewQuantity presente.
func validateItems(kind string, in []dto.MovementItemDTO) ([]entity.MovementItem, error) {
	if !entity.ValidMovementKind(kind) {
		return nil, fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrInvalidInput, kind)
	}
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: el movimiento no tiene artículos", domain.ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(in))
	items := make([]entity.MovementItem, 0, len(in))
	for _, it := range in {
		if it.SKU == "" {
			return nil, fmt.Errorf("%w: artículo sin SKU", domain.ErrInvalidInput)
		}
		if _, dup := seen[it.SKU]; dup {
			return nil, fmt.Errorf("%w: SKU duplicado en el movimiento: %s", domain.ErrInvalidInput, it.SKU)
		}
		seen[it.SKU] = struct{}{}
		if !it.Quantity.IsInteger() || it.Quantity.IsNegative() {
			return nil, fmt.Errorf("%w: cantidad inválida para %s", domain.ErrInvalidInput, it.SKU)
		}
		if entity.AbsoluteKind(kind) {
			if it.NewQuantity == nil {
				return nil, fmt.Errorf("%w: %s requiere new_quantity en %s", domain.ErrInvalidInput, kind, it.SKU)
			}
		} else if it.Quantity.IsZero() {
			return nil, fmt.Errorf("%w: cantidad cero para %s", domain.ErrInvalidInput, it.SKU)
		}
		items = append(items, entity.MovementItem{
			SKU:           it.SKU,
			Quantity:      it.Quantity,
			Description:   it.Description,
			PriorQuantity: it.PriorQuantity,
			NewQuantity:   it.NewQuantity,
		})
	}
	return items, nil
}

func parseDates(order, delivery string) (time.Time, time.Time, error) {
	var orderDate, deliveryDate time.Time
	var err error
	if order != "" {
		orderDate, err = time.Parse(dateLayout, order)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: order_date debe ser YYYY-MM-DD", domain.ErrInvalidInput)
		}
	}
	if delivery != "" {
		deliveryDate, err = time.Parse(dateLayout, delivery)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: delivery_date debe ser YYYY-MM-DD", domain.ErrInvalidInput)
		}
	}
	return orderDate, deliveryDate, nil
}

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	items := make([]dto.MovementItemDTO, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, dto.MovementItemDTO{
			SKU:           it.SKU,
			Quantity:      it.Quantity,
			Description:   it.Description,
			PriorQuantity: it.PriorQuantity,
			NewQuantity:   it.NewQuantity,
		})
	}
	return &dto.MovementResponse{
		ID:           m.ID,
		Kind:         m.Kind,
		OrderDate:    m.OrderDate,
		DeliveryDate: m.DeliveryDate,
		Pallets:      m.Pallets,
		Comment:      m.Comment,
		Items:        items,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}
}
