package entity

import "github.com/shopspring/decimal"

// OrderItem representa una línea de servicio dentro de una orden.
// ServiceID puede quedar vacío (línea libre o servicio eliminado del catálogo);
// Description es editable y por defecto toma el nombre del servicio.
// Subtotal siempre se deriva de Quantity × UnitPrice, nunca se edita directo.
type OrderItem struct {
	ID          string
	OrderID     string
	ServiceID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	Position    int
}
