package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// NotificationUseCase avisos efímeros por usuario. Los avisos los crea el
// libro al registrar entradas y salidas; aquí solo se consultan y marcan.
type NotificationUseCase struct {
	repo repository.NotificationRepository
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(repo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo}
}

// List devuelve los avisos del usuario, más reciente primero, purgando antes
// los que tienen más de 24 horas.
func (uc *NotificationUseCase) List(ctx context.Context, userID string) (*dto.NotificationListResponse, error) {
	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	if err := uc.repo.DeleteOlderThan(userID, cutoff); err != nil {
		return nil, fmt.Errorf("purgar notificaciones: %w", err)
	}
	list, err := uc.repo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("listar notificaciones: %w", err)
	}
	items := make([]dto.NotificationResponse, 0, len(list))
	unread := 0
	for _, n := range list {
		if !n.Read {
			unread++
		}
		items = append(items, dto.NotificationResponse{
			ID:        n.ID,
			Message:   n.Message,
			Type:      n.Type,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return &dto.NotificationListResponse{Items: items, Unread: unread}, nil
}

// MarkRead marca un aviso como leído.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, id string) error {
	return uc.repo.MarkRead(id, userID)
}

// MarkAllRead marca todos los avisos del usuario como leídos.
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) error {
	return uc.repo.MarkAllRead(userID)
}
