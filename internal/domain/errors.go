package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrInvalidQuantityOrPrice = errors.New("cantidad o precio inválido")
	ErrConcurrencyConflict    = errors.New("conflicto de concurrencia al asignar el número de orden")
	ErrClientHasOrders        = errors.New("el cliente tiene órdenes asociadas")
)
