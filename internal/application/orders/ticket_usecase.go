package orders

import (
	"context"

	"github.com/lavamatic/lavanderia-api/internal/domain"
	"github.com/lavamatic/lavanderia-api/internal/domain/repository"
)

// TicketUseCase genera el comprobante PDF que se entrega al cliente al
// recibir su ropa.
type TicketUseCase struct {
	orderRepo  repository.OrderRepository
	clientRepo repository.ClientRepository
	generator  TicketGenerator
	business   BusinessInfo
}

// NewTicketUseCase construye el caso de uso.
func NewTicketUseCase(
	orderRepo repository.OrderRepository,
	clientRepo repository.ClientRepository,
	generator TicketGenerator,
	business BusinessInfo,
) *TicketUseCase {
	return &TicketUseCase{
		orderRepo:  orderRepo,
		clientRepo: clientRepo,
		generator:  generator,
		business:   business,
	}
}

// GenerateTicket devuelve los bytes del PDF del comprobante de la orden.
func (uc *TicketUseCase) GenerateTicket(ctx context.Context, orderID string) ([]byte, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.orderRepo.GetItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	client, err := uc.clientRepo.GetByID(order.ClientID)
	if err != nil {
		return nil, err
	}

	return uc.generator.GenerateTicket(ctx, order, client, uc.business)
}
