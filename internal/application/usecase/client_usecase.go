package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lavamatic/lavanderia-api/internal/application/dto"
	"github.com/lavamatic/lavanderia-api/internal/domain"
	"github.com/lavamatic/lavanderia-api/internal/domain/entity"
	"github.com/lavamatic/lavanderia-api/internal/domain/repository"
)

// ClientUseCase casos de uso del directorio de clientes.
type ClientUseCase struct {
	repo      repository.ClientRepository
	orderRepo repository.OrderRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, orderRepo repository.OrderRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo, orderRepo: orderRepo}
}

// Create crea un nuevo cliente.
func (uc *ClientUseCase) Create(in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Phone:     in.Phone,
		Address:   in.Address,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// GetByID obtiene un cliente por ID.
func (uc *ClientUseCase) GetByID(id string) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return toClientResponse(client), nil
}

// List lista clientes con búsqueda por nombre y paginación.
func (uc *ClientUseCase) List(search string, page dto.PageRequest) ([]*dto.ClientResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(search, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}

// Update actualiza un cliente existente.
func (uc *ClientUseCase) Update(id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	client.Name = in.Name
	client.Phone = in.Phone
	client.Address = in.Address
	client.Notes = in.Notes
	client.UpdatedAt = time.Now()
	if err := uc.repo.Update(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Delete elimina un cliente sin órdenes asociadas. Las órdenes son el
// historial del negocio: un cliente con órdenes no se borra.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if client == nil {
		return domain.ErrNotFound
	}
	count, err := uc.orderRepo.CountByClient(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrClientHasOrders
	}
	return uc.repo.Delete(id)
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:      c.ID,
		Name:    c.Name,
		Phone:   c.Phone,
		Address: c.Address,
		Notes:   c.Notes,
	}
}
