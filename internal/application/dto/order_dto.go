package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemInput línea de servicio al crear o editar una orden.
// Si ServiceID está presente y UnitPrice viene en cero, se toma el precio
// base del catálogo; Description por defecto es el nombre del servicio.
type OrderItemInput struct {
	ServiceID   string          `json:"service_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest alta de orden.
// Number solo se acepta para importar órdenes históricas ya numeradas; si
// viene vacío el correlativo se asigna automáticamente al guardar.
type CreateOrderRequest struct {
	Number     string           `json:"number"`
	ClientID   string           `json:"client_id"`
	ReceivedAt *time.Time       `json:"received_at"`
	DeliveryAt *time.Time       `json:"delivery_at"`
	Paid       decimal.Decimal  `json:"paid"`
	Notes      string           `json:"notes"`
	Items      []OrderItemInput `json:"items"`
}

// UpdateOrderRequest edición de orden. El correlativo nunca se toca; los
// items reemplazan por completo a los existentes y los totales se recalculan.
type UpdateOrderRequest struct {
	ReceivedAt *time.Time       `json:"received_at"`
	DeliveryAt *time.Time       `json:"delivery_at"`
	Paid       decimal.Decimal  `json:"paid"`
	Notes      string           `json:"notes"`
	Items      []OrderItemInput `json:"items"`
}

// UpdateOrderStatusRequest cambio de estado.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// RegisterPaymentRequest abono a una orden.
type RegisterPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// OrderItemResponse línea en respuestas.
type OrderItemResponse struct {
	ID          string          `json:"id"`
	ServiceID   string          `json:"service_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse orden completa en respuestas.
type OrderResponse struct {
	ID         string              `json:"id"`
	Number     string              `json:"number"`
	ClientID   string              `json:"client_id"`
	ClientName string              `json:"client_name,omitempty"`
	ReceivedAt time.Time           `json:"received_at"`
	DeliveryAt *time.Time          `json:"delivery_at,omitempty"`
	Status     string              `json:"status"`
	Total      decimal.Decimal     `json:"total"`
	Paid       decimal.Decimal     `json:"paid"`
	Balance    decimal.Decimal     `json:"balance"`
	Notes      string              `json:"notes,omitempty"`
	Items      []OrderItemResponse `json:"items"`
}

// OrderListRequest filtros de listado de órdenes.
type OrderListRequest struct {
	ClientID string `query:"client_id"`
	Status   string `query:"status"`
	PageRequest
}
