package entity

import "time"

// Notification aviso efímero para el usuario (entradas/salidas registradas).
// Las notificaciones con más de 24 horas se purgan al listar.
type Notification struct {
	ID        string
	UserID    string
	Message   string
	Type      string // info, success, warning, error
	Read      bool
	CreatedAt time.Time
}
