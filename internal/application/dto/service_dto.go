package dto

import "github.com/shopspring/decimal"

// CreateServiceRequest alta de servicio del catálogo.
type CreateServiceRequest struct {
	Name      string          `json:"name"`
	Unit      string          `json:"unit"` // prenda, libra, fijo
	BasePrice decimal.Decimal `json:"base_price"`
	IsActive  *bool           `json:"is_active"`
}

// UpdateServiceRequest edición de servicio.
type UpdateServiceRequest struct {
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	BasePrice decimal.Decimal `json:"base_price"`
	IsActive  *bool           `json:"is_active"`
}

// ServiceResponse servicio en respuestas.
type ServiceResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	BasePrice decimal.Decimal `json:"base_price"`
	IsActive  bool            `json:"is_active"`
}
