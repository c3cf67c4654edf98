package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrMovementReferenced = errors.New("el producto tiene movimientos asociados")
	ErrNoChanges          = errors.New("sin cambios respecto al stock actual")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// PartialApplicationError: el movimiento quedó persistido pero la proyección
// de stock falló para algunos SKUs. Nunca se revierte el asiento del libro;
// la recuperación es re-ejecutar el rebuild de stock.
type PartialApplicationError struct {
	MovementID string
	FailedSKUs []string
	Err        error
}

func (e *PartialApplicationError) Error() string {
	return fmt.Sprintf("aplicación parcial del movimiento %s (SKUs fallidos: %s): %v",
		e.MovementID, strings.Join(e.FailedSKUs, ", "), e.Err)
}

func (e *PartialApplicationError) Unwrap() error { return e.Err }
