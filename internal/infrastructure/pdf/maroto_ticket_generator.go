// Package pdf implementa la generación del comprobante de orden que se
// entrega al cliente al dejar su ropa.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────────┐
//	│  HEADER: Nombre del negocio  │  No. + Fecha   │
//	│  ───────────────────────────────────────────  │
//	│  CLIENTE: Nombre + Tel + Dirección            │
//	│  ───────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Subtot  │
//	│  ───────────────────────────────────────────  │
//	│  TOTALES: Total / Abono / SALDO PENDIENTE     │
//	│  ───────────────────────────────────────────  │
//	│  Fecha de entrega + notas + leyenda           │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/lavamatic/lavanderia-api/internal/application/orders"
	"github.com/lavamatic/lavanderia-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 13, Green: 94, Blue: 175}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Etiquetas de estado para el comprobante.
var statusLabels = map[string]string{
	entity.OrderStatusRecibido:  "Recibido",
	entity.OrderStatusEnProceso: "En proceso",
	entity.OrderStatusListo:     "Listo",
	entity.OrderStatusEntregado: "Entregado",
	entity.OrderStatusCancelado: "Cancelado",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoTicketGenerator implementa orders.TicketGenerator usando Maroto v2.
type MarotoTicketGenerator struct{}

// NewMarotoTicketGenerator construye el generador.
func NewMarotoTicketGenerator() *MarotoTicketGenerator { return &MarotoTicketGenerator{} }

// GenerateTicket genera el PDF del comprobante y devuelve sus bytes.
func (g *MarotoTicketGenerator) GenerateTicket(
	_ context.Context,
	order *entity.Order,
	client *entity.Client,
	info orders.BusinessInfo,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Orden "+order.Number, true).
		WithAuthor(info.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(order, info))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(order.Items, info.Currency) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(order, info.Currency))

	m.AddRows(line.NewRow(2))
	for _, r := range footerRows(order, info) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del negocio (izq) y No. de orden + fecha de recepción (der).
func headerRow(order *entity.Order, info orders.BusinessInfo) core.Row {
	fecha := order.ReceivedAt.Format("02/01/2006 15:04")

	return row.New(16).Add(
		col.New(7).Add(
			text.New(info.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Tel: %s",
				nonEmpty(info.Address, "—"),
				nonEmpty(info.Phone, "—"),
			), props.Text{Size: 7.5, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("ORDEN DE SERVICIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("No. "+order.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Recibido: "+fecha, props.Text{
				Size: 7.5, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

// clientRow: datos del cliente.
func clientRow(client *entity.Client) core.Row {
	name, phone, address := "—", "—", "—"
	if client != nil {
		name = client.Name
		phone = nonEmpty(client.Phone, "—")
		address = nonEmpty(client.Address, "—")
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Tel: %s   |   %s", name, phone, address),
				props.Text{Size: 8, Top: 6.5}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de servicios.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Servicio", 5, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

// tableItemRows: una fila por línea de la orden.
func tableItemRows(items []*entity.OrderItem, currency string) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				money(currency, it.UnitPrice.StringFixed(2)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				money(currency, it.Subtotal.StringFixed(2)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: Total, abono y saldo pendiente (lo que el cliente paga al recoger).
func totalsRow(order *entity.Order, currency string) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	balanceLabel := text.New("SALDO PENDIENTE:", props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right,
		Color: colorPrimary, Right: 2,
	})
	balanceValue := text.New(money(currency, order.Balance.StringFixed(2)), props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right,
		Color: colorPrimary, Right: 1,
	})

	return row.New(26).Add(
		col.New(4),
		col.New(4).Add(
			label("Total:"),
			label("Abono:"),
			balanceLabel,
		),
		col.New(4).Add(
			value(money(currency, order.Total.StringFixed(2))),
			value(money(currency, order.Paid.StringFixed(2))),
			balanceValue,
		),
	)
}

// footerRows: estado, fecha estimada de entrega, notas y leyenda.
func footerRows(order *entity.Order, info orders.BusinessInfo) []core.Row {
	estado := statusLabels[order.Status]
	if estado == "" {
		estado = order.Status
	}
	entrega := "por confirmar"
	if order.DeliveryAt != nil {
		entrega = order.DeliveryAt.Format("02/01/2006 15:04")
	}

	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Estado: %s   |   Entrega estimada: %s", estado, entrega),
				props.Text{Style: fontstyle.Bold, Size: 8, Top: 1}),
		)),
	}
	if order.Notes != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Notas: "+order.Notes, props.Text{Size: 7.5, Color: colorGray, Top: 1}),
		)))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Presente este comprobante al recoger su ropa. "+
				"Prendas no reclamadas después de 30 días se donan.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money antepone el símbolo de moneda: money("Q", "37.50") → "Q37.50".
func money(currency, amount string) string {
	return currency + amount
}
