package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/lavamatic/lavanderia-api/internal/application/dto"
	"github.com/lavamatic/lavanderia-api/internal/domain"
	"github.com/lavamatic/lavanderia-api/internal/domain/entity"
	"github.com/lavamatic/lavanderia-api/internal/domain/repository"
)

// ServiceUseCase casos de uso del catálogo de servicios.
type ServiceUseCase struct {
	repo repository.ServiceRepository
}

// NewServiceUseCase construye el caso de uso.
func NewServiceUseCase(repo repository.ServiceRepository) *ServiceUseCase {
	return &ServiceUseCase{repo: repo}
}

// Create crea un servicio del catálogo.
func (uc *ServiceUseCase) Create(in dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	if in.Name == "" || !entity.ValidUnit(in.Unit) {
		return nil, domain.ErrInvalidInput
	}
	if in.BasePrice.IsNegative() {
		return nil, domain.ErrInvalidQuantityOrPrice
	}
	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	now := time.Now()
	service := &entity.Service{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Unit:      in.Unit,
		BasePrice: in.BasePrice.Round(2),
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(service); err != nil {
		return nil, err
	}
	return toServiceResponse(service), nil
}

// GetByID obtiene un servicio por ID.
func (uc *ServiceUseCase) GetByID(id string) (*dto.ServiceResponse, error) {
	service, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, domain.ErrNotFound
	}
	return toServiceResponse(service), nil
}

// List lista servicios; con onlyActive solo los ofertables.
func (uc *ServiceUseCase) List(onlyActive bool, page dto.PageRequest) ([]*dto.ServiceResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(onlyActive, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ServiceResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toServiceResponse(s))
	}
	return out, nil
}

// Update actualiza un servicio del catálogo. El cambio de precio base no
// afecta órdenes existentes: cada item conserva su precio pactado.
func (uc *ServiceUseCase) Update(id string, in dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	if in.Name == "" || !entity.ValidUnit(in.Unit) {
		return nil, domain.ErrInvalidInput
	}
	if in.BasePrice.IsNegative() {
		return nil, domain.ErrInvalidQuantityOrPrice
	}
	service, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, domain.ErrNotFound
	}
	service.Name = in.Name
	service.Unit = in.Unit
	service.BasePrice = in.BasePrice.Round(2)
	if in.IsActive != nil {
		service.IsActive = *in.IsActive
	}
	service.UpdatedAt = time.Now()
	if err := uc.repo.Update(service); err != nil {
		return nil, err
	}
	return toServiceResponse(service), nil
}

// Delete elimina un servicio. Los items de órdenes que lo referencian
// conservan su descripción y precio (el FK queda en NULL).
func (uc *ServiceUseCase) Delete(id string) error {
	service, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if service == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toServiceResponse(s *entity.Service) *dto.ServiceResponse {
	return &dto.ServiceResponse{
		ID:        s.ID,
		Name:      s.Name,
		Unit:      s.Unit,
		BasePrice: s.BasePrice,
		IsActive:  s.IsActive,
	}
}
