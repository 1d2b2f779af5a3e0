package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lavamatic/lavanderia-api/internal/application/dto"
	"github.com/lavamatic/lavanderia-api/internal/domain"
	"github.com/lavamatic/lavanderia-api/internal/domain/entity"
	"github.com/lavamatic/lavanderia-api/internal/domain/numbering"
	"github.com/lavamatic/lavanderia-api/internal/domain/pricing"
	"github.com/lavamatic/lavanderia-api/internal/domain/repository"
)

// OrderUseCase casos de uso de órdenes de servicio.
//
// Disciplina de totales: cada mutación de items o del abono pasa por
// pricing.Recalculate antes de persistir; total y balance nunca se editan
// directo. Disciplina del correlativo: se asigna una sola vez, dentro de la
// transacción de creación, y solo si el caller no trae número (importación
// de órdenes históricas).
type OrderUseCase struct {
	txRunner    TxRunner
	orderRepo   repository.OrderRepository
	clientRepo  repository.ClientRepository
	serviceRepo repository.ServiceRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	clientRepo repository.ClientRepository,
	serviceRepo repository.ServiceRepository,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:    txRunner,
		orderRepo:   orderRepo,
		clientRepo:  clientRepo,
		serviceRepo: serviceRepo,
	}
}

// Create crea una orden con sus items y asigna el correlativo.
func (uc *OrderUseCase) Create(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.ClientID == "" {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if in.Number != "" {
		// Número preexistente (importación): debe ser un correlativo válido.
		if _, err := numbering.Parse(in.Number); err != nil {
			return nil, err
		}
	}
	if in.Paid.IsNegative() {
		return nil, domain.ErrInvalidQuantityOrPrice
	}

	items, err := uc.buildItems(in.Items)
	if err != nil {
		return nil, err
	}
	totals, err := pricing.Recalculate(items, in.Paid)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	receivedAt := now
	if in.ReceivedAt != nil {
		receivedAt = *in.ReceivedAt
	}
	order := &entity.Order{
		ID:         uuid.New().String(),
		Number:     in.Number,
		ClientID:   in.ClientID,
		ClientName: client.Name,
		ReceivedAt: receivedAt,
		DeliveryAt: in.DeliveryAt,
		Status:     entity.OrderStatusRecibido,
		Total:      totals.Total,
		Paid:       in.Paid.Round(pricing.Scale),
		Balance:    totals.Balance,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
		Items:      items,
	}

	// Correlativo e inserción en la misma transacción: dos creaciones
	// concurrentes nunca observan el mismo máximo (sección crítica en
	// AllocateNumber) y un fallo deja la base sin rastro de la orden.
	err = uc.txRunner.Run(ctx, func(orderRepo repository.OrderRepository) error {
		if order.Number == "" {
			number, err := orderRepo.AllocateNumber(ctx)
			if err != nil {
				return err
			}
			order.Number = number
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}
		for i, item := range order.Items {
			item.ID = uuid.New().String()
			item.OrderID = order.ID
			item.Position = i
			if err := orderRepo.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// Colisión sobre un número traído por el caller: no es transitoria,
		// reintentar la importación no puede prosperar.
		if in.Number != "" && errors.Is(err, domain.ErrConcurrencyConflict) {
			return nil, domain.ErrDuplicate
		}
		return nil, err
	}
	return uc.toResponse(order), nil
}

// GetByID obtiene una orden completa.
func (uc *OrderUseCase) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(order), nil
}

// List lista órdenes filtrando por cliente y estado.
func (uc *OrderUseCase) List(ctx context.Context, in dto.OrderListRequest) ([]*dto.OrderResponse, error) {
	if in.Status != "" && !entity.ValidOrderStatus(in.Status) {
		return nil, domain.ErrInvalidInput
	}
	in.DefaultPage()
	list, err := uc.orderRepo.List(ctx, repository.OrderFilter{
		ClientID: in.ClientID,
		Status:   in.Status,
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrderResponse, 0, len(list))
	for _, order := range list {
		out = append(out, uc.toResponse(order))
	}
	return out, nil
}

// Update edita fechas, notas, abono e items de una orden. Los items nuevos
// reemplazan por completo a los existentes y los totales se recalculan desde
// cero; el correlativo no se toca.
func (uc *OrderUseCase) Update(ctx context.Context, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	order, err := uc.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Paid.IsNegative() {
		return nil, domain.ErrInvalidQuantityOrPrice
	}
	items, err := uc.buildItems(in.Items)
	if err != nil {
		return nil, err
	}
	totals, err := pricing.Recalculate(items, in.Paid)
	if err != nil {
		return nil, err
	}

	if in.ReceivedAt != nil {
		order.ReceivedAt = *in.ReceivedAt
	}
	order.DeliveryAt = in.DeliveryAt
	order.Paid = in.Paid.Round(pricing.Scale)
	order.Notes = in.Notes
	order.Total = totals.Total
	order.Balance = totals.Balance
	order.UpdatedAt = time.Now()
	order.Items = items

	err = uc.txRunner.Run(ctx, func(orderRepo repository.OrderRepository) error {
		if err := orderRepo.Update(ctx, order); err != nil {
			return err
		}
		if err := orderRepo.DeleteItems(ctx, order.ID); err != nil {
			return err
		}
		for i, item := range order.Items {
			item.ID = uuid.New().String()
			item.OrderID = order.ID
			item.Position = i
			if err := orderRepo.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(order), nil
}

// UpdateStatus cambia el estado de la orden.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.OrderResponse, error) {
	if !entity.ValidOrderStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	return uc.toResponse(order), nil
}

// RegisterPayment suma un abono y recalcula el saldo.
func (uc *OrderUseCase) RegisterPayment(ctx context.Context, id string, amount decimal.Decimal) (*dto.OrderResponse, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidQuantityOrPrice
	}
	order, err := uc.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Paid = order.Paid.Add(amount).Round(pricing.Scale)
	totals, err := pricing.Recalculate(order.Items, order.Paid)
	if err != nil {
		return nil, err
	}
	order.Total = totals.Total
	order.Balance = totals.Balance
	order.UpdatedAt = time.Now()
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	return uc.toResponse(order), nil
}

// Delete elimina una orden y sus items (cascade en la base). El correlativo
// que tenía no se recicla jamás.
func (uc *OrderUseCase) Delete(ctx context.Context, id string) error {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	return uc.orderRepo.Delete(ctx, id)
}

// buildItems valida las líneas de entrada y completa descripción y precio
// desde el catálogo cuando el item referencia un servicio. El precio que
// llega (o el base del catálogo) es autoritativo; aquí no se consulta nada
// más.
func (uc *OrderUseCase) buildItems(inputs []dto.OrderItemInput) ([]*entity.OrderItem, error) {
	items := make([]*entity.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		if in.Quantity.IsNegative() || in.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidQuantityOrPrice
		}
		description := in.Description
		unitPrice := in.UnitPrice
		if in.ServiceID != "" {
			service, err := uc.serviceRepo.GetByID(in.ServiceID)
			if err != nil {
				return nil, err
			}
			if service == nil {
				return nil, domain.ErrNotFound
			}
			if description == "" {
				description = service.Name
			}
			if unitPrice.IsZero() {
				unitPrice = service.BasePrice
			}
		}
		if description == "" {
			return nil, domain.ErrInvalidInput
		}
		items = append(items, &entity.OrderItem{
			ServiceID:   in.ServiceID,
			Description: description,
			Quantity:    in.Quantity,
			UnitPrice:   unitPrice.Round(pricing.Scale),
		})
	}
	return items, nil
}

// loadOrder trae la orden con sus items o ErrNotFound.
func (uc *OrderUseCase) loadOrder(ctx context.Context, id string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.orderRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (uc *OrderUseCase) toResponse(order *entity.Order) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:         order.ID,
		Number:     order.Number,
		ClientID:   order.ClientID,
		ClientName: order.ClientName,
		ReceivedAt: order.ReceivedAt,
		DeliveryAt: order.DeliveryAt,
		Status:     order.Status,
		Total:      order.Total,
		Paid:       order.Paid,
		Balance:    order.Balance,
		Notes:      order.Notes,
		Items:      make([]dto.OrderItemResponse, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:          item.ID,
			ServiceID:   item.ServiceID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	return resp
}
