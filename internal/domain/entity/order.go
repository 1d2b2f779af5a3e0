package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de servicio.
const (
	OrderStatusRecibido  = "recibido"
	OrderStatusEnProceso = "en_proceso"
	OrderStatusListo     = "listo"
	OrderStatusEntregado = "entregado"
	OrderStatusCancelado = "cancelado"
)

// Order representa una orden de servicio de la lavandería.
//
// Number es el correlativo de 6 dígitos con ceros a la izquierda ("000001");
// se asigna una sola vez al crear la orden y nunca cambia. Total y Balance
// son campos derivados: se recalculan completos desde los items y Paid antes
// de cada persistencia (ver internal/domain/pricing).
type Order struct {
	ID       string
	Number   string
	ClientID string
	// ClientName es derivado: lo llenan las lecturas (join con clients),
	// no se persiste en orders.
	ClientName string
	ReceivedAt time.Time
	DeliveryAt *time.Time
	Status     string
	Total      decimal.Decimal
	Paid       decimal.Decimal
	Balance    decimal.Decimal
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Items []*OrderItem
}

// ValidOrderStatus indica si el estado es uno de los soportados.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusRecibido, OrderStatusEnProceso, OrderStatusListo,
		OrderStatusEntregado, OrderStatusCancelado:
		return true
	}
	return false
}
