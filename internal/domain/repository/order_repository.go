package repository

import (
	"context"

	"github.com/lavamatic/lavanderia-api/internal/domain/entity"
)

// OrderFilter criterios de listado de órdenes.
type OrderFilter struct {
	ClientID string
	Status   string
	Limit    int
	Offset   int
}

// OrderRepository define el puerto de persistencia para Order y sus items.
//
// AllocateNumber implementa la sección crítica del correlativo: debe
// ejecutarse dentro de la misma transacción que Create, con exclusión mutua
// frente a cualquier otra asignación concurrente, de modo que dos creaciones
// simultáneas nunca observen el mismo máximo. Si la sección crítica no puede
// adquirirse, la creación completa falla; el componente no reintenta.
type OrderRepository interface {
	AllocateNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, order *entity.Order) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	DeleteItems(ctx context.Context, orderID string) error
	Delete(ctx context.Context, id string) error
	CountByClient(ctx context.Context, clientID string) (int, error)
}
