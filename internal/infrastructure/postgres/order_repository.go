package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lavamatic/lavanderia-api/internal/domain"
	"github.com/lavamatic/lavanderia-api/internal/domain/entity"
	"github.com/lavamatic/lavanderia-api/internal/domain/numbering"
	"github.com/lavamatic/lavanderia-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// AllocateNumber asigna el siguiente correlativo. Debe ejecutarse dentro de
// la transacción de creación (vía TxRunner): el SELECT FOR UPDATE sobre la
// fila del contador serializa a los asignadores concurrentes hasta el
// Commit/Rollback, así dos creaciones simultáneas nunca ven el mismo máximo.
//
// El contador nunca retrocede, por eso borrar la orden con el número máximo
// no libera ese número. El MAX sobre orders cubre números importados por
// encima del contador: la secuencia continúa después de ellos.
func (r *OrderRepo) AllocateNumber(ctx context.Context) (string, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO order_counters (name, last_value)
		VALUES ('orders', 0)
		ON CONFLICT (name) DO NOTHING`)
	if err != nil {
		return "", fmt.Errorf("seed order counter: %w", err)
	}

	var lastValue int64
	err = r.q.QueryRow(ctx, `
		SELECT last_value FROM order_counters WHERE name = 'orders'
		FOR UPDATE`).Scan(&lastValue)
	if err != nil {
		return "", fmt.Errorf("lock order counter: %w", err)
	}

	var maxAssigned int64
	err = r.q.QueryRow(ctx, `
		SELECT COALESCE(MAX(number::bigint), 0) FROM orders
		WHERE number ~ '^[0-9]+$'`).Scan(&maxAssigned)
	if err != nil {
		return "", fmt.Errorf("max order number: %w", err)
	}

	max := lastValue
	if maxAssigned > max {
		max = maxAssigned
	}
	number := numbering.Next(max)

	_, err = r.q.Exec(ctx, `
		UPDATE order_counters SET last_value = $1 WHERE name = 'orders'`, max+1)
	if err != nil {
		return "", fmt.Errorf("advance order counter: %w", err)
	}
	return number, nil
}

// Create persiste la cabecera de la orden.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (id, number, client_id, received_at, delivery_at, status,
		                    total, paid, balance, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.Number, order.ClientID, order.ReceivedAt, order.DeliveryAt,
		order.Status, order.Total, order.Paid, order.Balance, nullIfEmpty(order.Notes),
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		// Doble chequeo defensivo: si pese al lock el número ya existe,
		// la creación completa se aborta y el caller decide si reintenta.
		if isUniqueViolation(err) {
			return domain.ErrConcurrencyConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la orden.
func (r *OrderRepo) CreateItem(ctx context.Context, item *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, service_id, description, quantity, unit_price, subtotal, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.OrderID, nullIfEmpty(item.ServiceID), item.Description,
		item.Quantity, item.UnitPrice, item.Subtotal, item.Position,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una orden con el nombre del cliente.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	query := `
		SELECT o.id, o.number, o.client_id, COALESCE(c.name, ''), o.received_at, o.delivery_at, o.status,
		       o.total, o.paid, o.balance, o.notes, o.created_at, o.updated_at
		FROM orders o
		LEFT JOIN clients c ON c.id = o.client_id
		WHERE o.id = $1`
	order, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// GetItems obtiene las líneas de una orden en su orden de captura.
func (r *OrderRepo) GetItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT id, order_id, COALESCE(service_id::text, ''), description, quantity, unit_price, subtotal, position
		FROM order_items WHERE order_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ServiceID, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.Subtotal, &it.Position); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List lista órdenes por cliente y/o estado, las más recientes primero.
// El nombre del cliente viene en el mismo join: una sola consulta por página.
func (r *OrderRepo) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	query := `
		SELECT o.id, o.number, o.client_id, COALESCE(c.name, ''), o.received_at, o.delivery_at, o.status,
		       o.total, o.paid, o.balance, o.notes, o.created_at, o.updated_at
		FROM orders o
		LEFT JOIN clients c ON c.id = o.client_id
		WHERE ($1 = '' OR o.client_id::text = $1)
		  AND ($2 = '' OR o.status = $2)
		ORDER BY o.created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, filter.ClientID, filter.Status, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, order)
	}
	return list, rows.Err()
}

// Update actualiza la cabecera. El correlativo jamás se incluye en el SET.
func (r *OrderRepo) Update(ctx context.Context, order *entity.Order) error {
	query := `
		UPDATE orders
		SET received_at = $2, delivery_at = $3, status = $4,
		    total = $5, paid = $6, balance = $7, notes = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.ReceivedAt, order.DeliveryAt, order.Status,
		order.Total, order.Paid, order.Balance, nullIfEmpty(order.Notes), order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// DeleteItems borra todas las líneas de una orden (reemplazo completo al editar).
func (r *OrderRepo) DeleteItems(ctx context.Context, orderID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	return nil
}

// Delete elimina la orden; sus items caen por ON DELETE CASCADE.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// CountByClient cuenta las órdenes de un cliente.
func (r *OrderRepo) CountByClient(ctx context.Context, clientID string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE client_id = $1`, clientID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count orders by client: %w", err)
	}
	return count, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// pgxScanner abstrae pgx.Row y pgx.Rows para reutilizar scanOrder.
type pgxScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row pgxScanner) (*entity.Order, error) {
	var o entity.Order
	var notes *string
	err := row.Scan(
		&o.ID, &o.Number, &o.ClientID, &o.ClientName, &o.ReceivedAt, &o.DeliveryAt, &o.Status,
		&o.Total, &o.Paid, &o.Balance, &notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Notes = derefStr(notes)
	return &o, nil
}
