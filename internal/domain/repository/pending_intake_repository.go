package repository

import "github.com/tu-usuario/almacen-api/internal/domain/entity"

// PendingIntakeRepository define el puerto de la cola de entradas pendientes.
type PendingIntakeRepository interface {
	Create(intake *entity.PendingIntake) error
	GetByID(id string) (*entity.PendingIntake, error)
	ListByStatus(status string) ([]*entity.PendingIntake, error)
	UpdateStatus(id, status string) error
	Delete(id string) error
}
