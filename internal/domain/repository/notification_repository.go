package repository

import (
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// NotificationRepository define el puerto de avisos efímeros por usuario.
type NotificationRepository interface {
	Create(n *entity.Notification) error
	ListByUser(userID string) ([]*entity.Notification, error)
	MarkRead(id, userID string) error
	MarkAllRead(userID string) error
	DeleteOlderThan(userID string, cutoff time.Time) error
}
