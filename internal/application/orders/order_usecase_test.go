package orders_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lavamatic/lavanderia-api/internal/application/dto"
	"github.com/lavamatic/lavanderia-api/internal/application/orders"
	"github.com/lavamatic/lavanderia-api/internal/domain"
	"github.com/lavamatic/lavanderia-api/internal/domain/entity"
	"github.com/lavamatic/lavanderia-api/internal/domain/numbering"
	"github.com/lavamatic/lavanderia-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El fakeTxRunner serializa cada transacción con un mutex:
// es el equivalente en memoria de la sección crítica que en PostgreSQL da el
// SELECT FOR UPDATE sobre la fila del contador, y permite ejercer la unicidad
// bajo concurrencia sin base de datos.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	mu     sync.Mutex
	orders map[string]*entity.Order
	items  map[string][]*entity.OrderItem
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders: make(map[string]*entity.Order),
		items:  make(map[string][]*entity.OrderItem),
	}
}

type fakeOrderRepo struct {
	store *fakeStore
	// lastValue imita el contador persistente: nunca retrocede, ni aunque se
	// borre la orden que tenía el máximo.
	lastValue int64
	// failAllocations hace fallar las primeras N asignaciones con
	// ErrConcurrencyConflict (simula lock timeout / violación de unicidad).
	failAllocations int
}

var _ repository.OrderRepository = (*fakeOrderRepo)(nil)

func (r *fakeOrderRepo) AllocateNumber(_ context.Context) (string, error) {
	if r.failAllocations > 0 {
		r.failAllocations--
		return "", domain.ErrConcurrencyConflict
	}
	max := r.lastValue
	for _, o := range r.store.orders {
		n, err := numbering.Parse(o.Number)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	number := numbering.Next(max)
	r.lastValue = max + 1
	return number, nil
}

func (r *fakeOrderRepo) Create(_ context.Context, order *entity.Order) error {
	for _, o := range r.store.orders {
		if o.Number == order.Number {
			return domain.ErrConcurrencyConflict
		}
	}
	cp := *order
	cp.Items = nil
	r.store.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) CreateItem(_ context.Context, item *entity.OrderItem) error {
	cp := *item
	r.store.items[item.OrderID] = append(r.store.items[item.OrderID], &cp)
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetItems(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	return r.store.items[orderID], nil
}

func (r *fakeOrderRepo) List(_ context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.store.orders {
		if filter.ClientID != "" && o.ClientID != filter.ClientID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, order *entity.Order) error {
	if _, ok := r.store.orders[order.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *order
	cp.Items = nil
	r.store.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) DeleteItems(_ context.Context, orderID string) error {
	delete(r.store.items, orderID)
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id string) error {
	delete(r.store.orders, id)
	delete(r.store.items, id)
	return nil
}

func (r *fakeOrderRepo) CountByClient(_ context.Context, clientID string) (int, error) {
	count := 0
	for _, o := range r.store.orders {
		if o.ClientID == clientID {
			count++
		}
	}
	return count, nil
}

// fakeTxRunner serializa las "transacciones" con el mutex del store.
type fakeTxRunner struct {
	repo *fakeOrderRepo
}

func (t *fakeTxRunner) Run(_ context.Context, fn func(repository.OrderRepository) error) error {
	t.repo.store.mu.Lock()
	defer t.repo.store.mu.Unlock()
	return fn(t.repo)
}

type fakeClientRepo struct {
	clients map[string]*entity.Client
}

func (r *fakeClientRepo) Create(c *entity.Client) error        { r.clients[c.ID] = c; return nil }
func (r *fakeClientRepo) GetByID(id string) (*entity.Client, error) {
	return r.clients[id], nil
}
func (r *fakeClientRepo) List(string, int, int) ([]*entity.Client, error) { return nil, nil }
func (r *fakeClientRepo) Update(*entity.Client) error                     { return nil }
func (r *fakeClientRepo) Delete(string) error                             { return nil }

type fakeServiceRepo struct {
	services map[string]*entity.Service
}

func (r *fakeServiceRepo) Create(s *entity.Service) error { r.services[s.ID] = s; return nil }
func (r *fakeServiceRepo) GetByID(id string) (*entity.Service, error) {
	return r.services[id], nil
}
func (r *fakeServiceRepo) List(bool, int, int) ([]*entity.Service, error) { return nil, nil }
func (r *fakeServiceRepo) Update(*entity.Service) error                   { return nil }
func (r *fakeServiceRepo) Delete(string) error                            { return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Armado
// ──────────────────────────────────────────────────────────────────────────────

const (
	testClientID  = "11111111-1111-1111-1111-111111111111"
	testServiceID = "22222222-2222-2222-2222-222222222222"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func buildUseCase(failAllocations int) (*orders.OrderUseCase, *fakeOrderRepo) {
	store := newFakeStore()
	orderRepo := &fakeOrderRepo{store: store, failAllocations: failAllocations}
	clientRepo := &fakeClientRepo{clients: map[string]*entity.Client{
		testClientID: {ID: testClientID, Name: "María López", Phone: "5555-1234"},
	}}
	serviceRepo := &fakeServiceRepo{services: map[string]*entity.Service{
		testServiceID: {
			ID: testServiceID, Name: "Lavado por libra",
			Unit: entity.ServiceUnitLibra, BasePrice: dec("4.50"), IsActive: true,
		},
	}}
	uc := orders.NewOrderUseCase(&fakeTxRunner{repo: orderRepo}, orderRepo, clientRepo, serviceRepo)
	return uc, orderRepo
}

func createReq(paid string, items ...dto.OrderItemInput) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		ClientID: testClientID,
		Paid:     dec(paid),
		Items:    items,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación y totales
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_EscenarioReferencia(t *testing.T) {
	uc, _ := buildUseCase(0)

	resp, err := uc.Create(context.Background(), createReq("30.00",
		dto.OrderItemInput{Description: "Lavado edredón", Quantity: dec("2"), UnitPrice: dec("15.00")},
		dto.OrderItemInput{Description: "Planchado camisa", Quantity: dec("1"), UnitPrice: dec("7.50")},
	))
	require.NoError(t, err)

	assert.Equal(t, "000001", resp.Number, "la primera orden debe llevar el correlativo 000001")
	assert.Equal(t, "37.50", resp.Total.StringFixed(2))
	assert.Equal(t, "7.50", resp.Balance.StringFixed(2))
	assert.Equal(t, entity.OrderStatusRecibido, resp.Status)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "30.00", resp.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "7.50", resp.Items[1].Subtotal.StringFixed(2))
}

func TestCreate_OrdenesSucesivasConsecutivas(t *testing.T) {
	uc, _ := buildUseCase(0)
	ctx := context.Background()

	first, err := uc.Create(ctx, createReq("0"))
	require.NoError(t, err)
	second, err := uc.Create(ctx, createReq("0"))
	require.NoError(t, err)

	assert.Equal(t, "000001", first.Number)
	assert.Equal(t, "000002", second.Number)
}

func TestCreate_SinItems(t *testing.T) {
	uc, _ := buildUseCase(0)
	resp, err := uc.Create(context.Background(), createReq("0"))
	require.NoError(t, err)
	assert.Equal(t, "0.00", resp.Total.StringFixed(2))
	assert.Equal(t, "0.00", resp.Balance.StringFixed(2))
}

// Importación: si el caller trae número, el asignador no se invoca y el
// número se conserva tal cual (no se renumera).
func TestCreate_NumeroPreexistenteSeConserva(t *testing.T) {
	uc, _ := buildUseCase(0)
	ctx := context.Background()

	in := createReq("0")
	in.Number = "026301"
	resp, err := uc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "026301", resp.Number)

	// La siguiente orden continúa después del máximo importado.
	next, err := uc.Create(ctx, createReq("0"))
	require.NoError(t, err)
	assert.Equal(t, "026302", next.Number)
}

// Un número importado que ya existe es un duplicado, no un conflicto
// transitorio: reintentar la importación no puede prosperar, así que el
// error debe ser ErrDuplicate y no ErrConcurrencyConflict.
func TestCreate_NumeroImportadoDuplicado(t *testing.T) {
	uc, _ := buildUseCase(0)
	ctx := context.Background()

	in := createReq("0")
	in.Number = "000777"
	_, err := uc.Create(ctx, in)
	require.NoError(t, err)

	again := createReq("0")
	again.Number = "000777"
	_, err = uc.Create(ctx, again)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreate_NumeroImportadoInvalido(t *testing.T) {
	uc, _ := buildUseCase(0)
	in := createReq("0")
	in.Number = "ORD-9"
	_, err := uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_ItemConServicioTomaPrecioYDescripcion(t *testing.T) {
	uc, _ := buildUseCase(0)
	resp, err := uc.Create(context.Background(), createReq("0",
		dto.OrderItemInput{ServiceID: testServiceID, Quantity: dec("8")},
	))
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Lavado por libra", resp.Items[0].Description)
	assert.Equal(t, "4.50", resp.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "36.00", resp.Items[0].Subtotal.StringFixed(2))
}

func TestCreate_RechazaCantidadNegativa(t *testing.T) {
	uc, _ := buildUseCase(0)
	_, err := uc.Create(context.Background(), createReq("0",
		dto.OrderItemInput{Description: "x", Quantity: dec("-1"), UnitPrice: dec("5.00")},
	))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantityOrPrice)
}

func TestCreate_ClienteInexistente(t *testing.T) {
	uc, _ := buildUseCase(0)
	in := createReq("0")
	in.ClientID = "99999999-9999-9999-9999-999999999999"
	_, err := uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// El conflicto de concurrencia aborta la creación completa: no queda orden.
func TestCreate_ConflictoDeConcurrenciaAbortaTodo(t *testing.T) {
	uc, repo := buildUseCase(1)
	_, err := uc.Create(context.Background(), createReq("0",
		dto.OrderItemInput{Description: "Lavado", Quantity: dec("1"), UnitPrice: dec("10.00")},
	))
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Empty(t, repo.store.orders, "no debe persistirse ninguna orden parcial")
	assert.Empty(t, repo.store.items)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: K creaciones simultáneas sobre una base vacía producen K
// correlativos distintos y consecutivos desde 000001.
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ConcurrenciaCorrelativosUnicos(t *testing.T) {
	const k = 50
	uc, repo := buildUseCase(0)

	var wg sync.WaitGroup
	errs := make(chan error, k)
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Create(context.Background(), createReq("0",
				dto.OrderItemInput{Description: "Lavado", Quantity: dec("1"), UnitPrice: dec("10.00")},
			))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.Len(t, repo.store.orders, k)
	seen := make(map[string]bool, k)
	for _, o := range repo.store.orders {
		require.False(t, seen[o.Number], "correlativo duplicado: %s", o.Number)
		seen[o.Number] = true
	}
	for i := 1; i <= k; i++ {
		assert.True(t, seen[fmt.Sprintf("%06d", i)],
			"la secuencia debe ser consecutiva desde 000001, falta %06d", i)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición, abonos y estado
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_RecalculaTotalesYConservaNumero(t *testing.T) {
	uc, _ := buildUseCase(0)
	ctx := context.Background()

	created, err := uc.Create(ctx, createReq("10.00",
		dto.OrderItemInput{Description: "Lavado", Quantity: dec("2"), UnitPrice: dec("15.00")},
	))
	require.NoError(t, err)

	updated, err := uc.Update(ctx, created.ID, dto.UpdateOrderRequest{
		Paid: dec("10.00"),
		Items: []dto.OrderItemInput{
			{Description: "Lavado", Quantity: dec("2"), UnitPrice: dec("15.00")},
			{Description: "Secado", Quantity: dec("4"), UnitPrice: dec("3.25")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, created.Number, updated.Number, "el correlativo es inmutable")
	assert.Equal(t, "43.00", updated.Total.StringFixed(2))
	assert.Equal(t, "33.00", updated.Balance.StringFixed(2))
	require.Len(t, updated.Items, 2)
}

func TestRegisterPayment_AcumulaYSaldoNuncaNegativo(t *testing.T) {
	uc, _ := buildUseCase(0)
	ctx := context.Background()

	created, err := uc.Create(ctx, createReq("0",
		dto.OrderItemInput{Description: "Lavado", Quantity: dec("2"), UnitPrice: dec("15.00")},
	))
	require.NoError(t, err)

	after, err := uc.RegisterPayment(ctx, created.ID, dec("20.00"))
	require.NoError(t, err)
	assert.Equal(t, "20.00", after.Paid.StringFixed(2))
	assert.Equal(t, "10.00", after.Balance.StringFixed(2))

	// Abono que excede el total: el saldo queda en cero, nunca negativo.
	over, err := uc.RegisterPayment(ctx, created.ID, dec("50.00"))
	require.NoError(t, err)
	assert.Equal(t, "70.00", over.Paid.StringFixed(2))
	assert.Equal(t, "0.00", over.Balance.StringFixed(2))
}

func TestRegisterPayment_RechazaMontoNoPositivo(t *testing.T) {
	uc, _ := buildUseCase(0)
	ctx := context.Background()
	created, err := uc.Create(ctx, createReq("0"))
	require.NoError(t, err)

	_, err = uc.RegisterPayment(ctx, created.ID, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantityOrPrice)
}

func TestUpdateStatus_Valido(t *testing.T) {
	uc, _ := buildUseCase(0)
	ctx := context.Background()
	created, err := uc.Create(ctx, createReq("0"))
	require.NoError(t, err)

	resp, err := uc.UpdateStatus(ctx, created.ID, entity.OrderStatusListo)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusListo, resp.Status)

	_, err = uc.UpdateStatus(ctx, created.ID, "planchando")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Borrar una orden no recicla su correlativo: la siguiente continúa la
// secuencia después del máximo histórico persistido.
func TestDelete_NoReciclaCorrelativo(t *testing.T) {
	uc, _ := buildUseCase(0)
	ctx := context.Background()

	first, err := uc.Create(ctx, createReq("0"))
	require.NoError(t, err)
	second, err := uc.Create(ctx, createReq("0"))
	require.NoError(t, err)
	require.Equal(t, "000002", second.Number)

	require.NoError(t, uc.Delete(ctx, first.ID))

	// El máximo vigente sigue siendo 000002; el hueco de 000001 se tolera.
	third, err := uc.Create(ctx, createReq("0"))
	require.NoError(t, err)
	assert.Equal(t, "000003", third.Number)

	_, err = uc.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Ni siquiera borrar la orden con el correlativo máximo lo libera: el
// contador persistente no retrocede.
func TestDelete_MaximoBorradoNoSeReutiliza(t *testing.T) {
	uc, _ := buildUseCase(0)
	ctx := context.Background()

	_, err := uc.Create(ctx, createReq("0"))
	require.NoError(t, err)
	second, err := uc.Create(ctx, createReq("0"))
	require.NoError(t, err)
	require.Equal(t, "000002", second.Number)

	require.NoError(t, uc.Delete(ctx, second.ID))

	third, err := uc.Create(ctx, createReq("0"))
	require.NoError(t, err)
	assert.Equal(t, "000003", third.Number, "000002 jamás se reasigna")
}

func TestList_FiltraPorEstado(t *testing.T) {
	uc, _ := buildUseCase(0)
	ctx := context.Background()

	a, err := uc.Create(ctx, createReq("0"))
	require.NoError(t, err)
	_, err = uc.Create(ctx, createReq("0"))
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, a.ID, entity.OrderStatusEntregado)
	require.NoError(t, err)

	delivered, err := uc.List(ctx, dto.OrderListRequest{Status: entity.OrderStatusEntregado})
	require.NoError(t, err)
	require.Len(t, delivered, 1)
	assert.Equal(t, a.ID, delivered[0].ID)
}

// El nombre del cliente viaja con la orden leída (join en el repositorio),
// sin consultas adicionales por fila.
func TestList_IncluyeNombreDelCliente(t *testing.T) {
	uc, _ := buildUseCase(0)
	ctx := context.Background()

	created, err := uc.Create(ctx, createReq("0"))
	require.NoError(t, err)
	assert.Equal(t, "María López", created.ClientName)

	list, err := uc.List(ctx, dto.OrderListRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "María López", list[0].ClientName)

	loaded, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "María López", loaded.ClientName)
}

// Los totales almacenados coinciden exactos con el recálculo al recargar.
func TestGetByID_TotalesReproducibles(t *testing.T) {
	uc, _ := buildUseCase(0)
	ctx := context.Background()

	created, err := uc.Create(ctx, createReq("5.00",
		dto.OrderItemInput{Description: "Lavado", Quantity: dec("0.333"), UnitPrice: dec("9.99")},
	))
	require.NoError(t, err)

	loaded, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, created.Total.Equal(loaded.Total))
	assert.True(t, created.Balance.Equal(loaded.Balance))
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "3.33", loaded.Items[0].Subtotal.StringFixed(2))
}

// Sanity: ReceivedAt por defecto es "ahora".
func TestCreate_FechaRecepcionPorDefecto(t *testing.T) {
	uc, _ := buildUseCase(0)
	before := time.Now()
	resp, err := uc.Create(context.Background(), createReq("0"))
	require.NoError(t, err)
	assert.False(t, resp.ReceivedAt.Before(before))
}
