package orders

import (
	"context"

	"github.com/lavamatic/lavanderia-api/internal/domain/entity"
	"github.com/lavamatic/lavanderia-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, con un OrderRepository atado
// a ella. La asignación del correlativo y la inserción de la orden con sus
// items ocurren dentro de la misma transacción: si algo falla no queda orden
// parcial ni correlativo asignado a medias.
type TxRunner interface {
	Run(ctx context.Context, fn func(orderRepo repository.OrderRepository) error) error
}

// TicketGenerator genera el comprobante PDF de una orden (puerto hacia la
// infraestructura de PDF).
type TicketGenerator interface {
	GenerateTicket(ctx context.Context, order *entity.Order, client *entity.Client, info BusinessInfo) ([]byte, error)
}

// BusinessInfo datos del negocio impresos en el comprobante.
type BusinessInfo struct {
	Name     string
	Address  string
	Phone    string
	Currency string // símbolo para montos, ej. "Q"
}
