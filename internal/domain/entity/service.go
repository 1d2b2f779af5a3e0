package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de cobro del catálogo de servicios.
const (
	ServiceUnitPrenda = "prenda" // por prenda
	ServiceUnitLibra  = "libra"  // por libra
	ServiceUnitFijo   = "fijo"   // servicio de precio fijo
)

// Service representa un servicio del catálogo (lavado, planchado, etc.).
// BasePrice es el precio unitario sugerido al agregar el servicio a una orden;
// el precio final de cada línea es el que quede en el item.
type Service struct {
	ID        string
	Name      string
	Unit      string
	BasePrice decimal.Decimal
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidUnit indica si la unidad es una de las soportadas.
func ValidUnit(unit string) bool {
	switch unit {
	case ServiceUnitPrenda, ServiceUnitLibra, ServiceUnitFijo:
		return true
	}
	return false
}
