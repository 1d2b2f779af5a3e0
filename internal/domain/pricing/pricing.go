// Package pricing implementa el cálculo de totales de una orden (servicio de
// dominio puro, sin persistencia).
//
// Política de redondeo: todos los montos se manejan a 2 decimales con
// redondeo half-away-from-zero (decimal.Round). El redondeo se aplica en cada
// subtotal y en el total/balance agregado, no solo al mostrar, de modo que lo
// almacenado coincide exacto con lo recalculado al recargar.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/lavamatic/lavanderia-api/internal/domain"
	"github.com/lavamatic/lavanderia-api/internal/domain/entity"
)

// Scale precisión monetaria (centavos).
const Scale = 2

// Subtotal calcula round(quantity × unitPrice, 2).
// Cantidades o precios negativos se rechazan con ErrInvalidQuantityOrPrice
// (se rechaza, no se recorta a cero: un subtotal negativo jamás se produce).
func Subtotal(quantity, unitPrice decimal.Decimal) (decimal.Decimal, error) {
	if quantity.IsNegative() || unitPrice.IsNegative() {
		return decimal.Decimal{}, domain.ErrInvalidQuantityOrPrice
	}
	return quantity.Mul(unitPrice).Round(Scale), nil
}

// Totals montos derivados de una orden.
type Totals struct {
	Total   decimal.Decimal
	Balance decimal.Decimal
}

// ComputeTotals recalcula total y balance desde cero:
//
//	total   = round(Σ subtotales, 2)
//	balance = round(max(0, total − paid), 2)
//
// Es un recálculo completo sobre el conjunto actual de líneas, no un delta
// incremental: llamarla dos veces con el mismo input produce el mismo output.
// El balance nunca es negativo, incluso si el abono excede el total.
func ComputeTotals(subtotals []decimal.Decimal, paid decimal.Decimal) (Totals, error) {
	if paid.IsNegative() {
		return Totals{}, domain.ErrInvalidQuantityOrPrice
	}
	total := decimal.Zero
	for _, s := range subtotals {
		total = total.Add(s)
	}
	total = total.Round(Scale)

	balance := total.Sub(paid).Round(Scale)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	return Totals{Total: total, Balance: balance}, nil
}

// Recalculate aplica Subtotal a cada item (mutando item.Subtotal) y devuelve
// los totales de la orden. Es el punto de entrada de los casos de uso: debe
// invocarse después de cualquier cambio en items o en el abono, antes de
// persistir. Los items se mutan recién cuando todas las líneas y el abono
// validaron: si alguna entrada es inválida ningún subtotal cambia.
func Recalculate(items []*entity.OrderItem, paid decimal.Decimal) (Totals, error) {
	subtotals := make([]decimal.Decimal, len(items))
	for i, item := range items {
		s, err := Subtotal(item.Quantity, item.UnitPrice)
		if err != nil {
			return Totals{}, err
		}
		subtotals[i] = s
	}
	totals, err := ComputeTotals(subtotals, paid)
	if err != nil {
		return Totals{}, err
	}
	for i, item := range items {
		item.Subtotal = subtotals[i]
	}
	return totals, nil
}
