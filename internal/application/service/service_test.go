package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/negocio-pro/internal/application/service"
	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
	"github.com/tu-usuario/negocio-pro/internal/domain/storage"
	"github.com/tu-usuario/negocio-pro/pkg/logger"
)

// memBackend backend en memoria para probar los servicios sin red ni disco.
type memBackend struct {
	data map[string]json.RawMessage
}

func newMem() *memBackend { return &memBackend{data: map[string]json.RawMessage{}} }

func (m *memBackend) Get(_ context.Context, key string) (json.RawMessage, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (m *memBackend) Set(_ context.Context, key string, value json.RawMessage) error {
	m.data[key] = value
	return nil
}

func (m *memBackend) Remove(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memBackend) GetMany(ctx context.Context, keys []string) (map[string]json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	for _, k := range keys {
		if v, ok := m.data[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m *memBackend) SetMany(_ context.Context, entries map[string]json.RawMessage) error {
	for k, v := range entries {
		m.data[k] = v
	}
	return nil
}

var _ storage.Backend = (*memBackend)(nil)

func crearProducto(t *testing.T, svc *service.ProductService, name string, price, cost int64, stock int64) *entity.Product {
	t.Helper()
	p, err := svc.Create(context.Background(), service.CreateProductRequest{
		Name:     name,
		Category: "Camisetas",
		Price:    decimal.NewFromInt(price),
		Cost:     decimal.NewFromInt(cost),
		StockQty: stock,
	})
	require.NoError(t, err)
	return p
}

// ── Productos ─────────────────────────────────────────────────────────────────

func TestProductService_CreateYList(t *testing.T) {
	mem := newMem()
	svc := service.NewProductService(mem, logger.Nop())

	p := crearProducto(t, svc, "Camiseta", 100, 60, 10)
	assert.True(t, p.Active)
	assert.EqualValues(t, 1, p.Version)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)
}

func TestProductService_PrecioNegativo(t *testing.T) {
	svc := service.NewProductService(newMem(), logger.Nop())
	_, err := svc.Create(context.Background(), service.CreateProductRequest{
		Name:     "Malo",
		Category: "Camisetas",
		Price:    decimal.NewFromInt(-1),
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err), "precio negativo es error de validación, nunca modo demo")
}

func TestProductService_SoftDelete(t *testing.T) {
	mem := newMem()
	svc := service.NewProductService(mem, logger.Nop())
	p := crearProducto(t, svc, "Camiseta", 100, 60, 10)

	require.NoError(t, svc.SoftDelete(context.Background(), p.ID))

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1, "el soft-delete no borra el registro")
	assert.False(t, list[0].Active)
	assert.EqualValues(t, 2, list[0].Version)
}

func TestProductService_UpdateIncrementaVersion(t *testing.T) {
	mem := newMem()
	svc := service.NewProductService(mem, logger.Nop())
	p := crearProducto(t, svc, "Camiseta", 100, 60, 10)

	nuevoNombre := "Camiseta premium"
	out, err := svc.Update(context.Background(), p.ID, service.UpdateProductRequest{Name: &nuevoNombre})
	require.NoError(t, err)
	assert.Equal(t, "Camiseta premium", out.Name)
	assert.EqualValues(t, 2, out.Version)
}

// ── Ventas ────────────────────────────────────────────────────────────────────

func TestSaleService_RecordSaleDecrementaStock(t *testing.T) {
	mem := newMem()
	productos := service.NewProductService(mem, logger.Nop())
	ventas := service.NewSaleService(mem, logger.Nop())
	p := crearProducto(t, productos, "Camiseta", 100, 60, 10)

	res, err := ventas.RecordSale(context.Background(), service.RecordSaleRequest{
		Items:         []service.SaleItemRequest{{ProductID: p.ID, Qty: 3}},
		PaymentMethod: entity.PaymentCash,
	})
	require.NoError(t, err)
	assert.True(t, res.Sale.Total.Equal(decimal.NewFromInt(300)))
	require.Len(t, res.Products, 1)
	assert.EqualValues(t, 7, res.Products[0].StockQty, "la venta decrementa el stock en la misma transacción")

	// El stock confirmado quedó persistido
	list, err := productos.List(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 7, list[0].StockQty)

	// Y la venta genera su movimiento de caja tipo sale
	movs := service.NewCashService(mem, logger.Nop())
	ms, err := movs.List(context.Background())
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, entity.MovementSale, ms[0].Type)
	assert.True(t, ms[0].Amount.Equal(decimal.NewFromInt(300)))
}

func TestSaleService_StockInsuficienteNoPersisteNada(t *testing.T) {
	mem := newMem()
	productos := service.NewProductService(mem, logger.Nop())
	ventas := service.NewSaleService(mem, logger.Nop())
	p := crearProducto(t, productos, "Camiseta", 100, 60, 2)

	_, err := ventas.RecordSale(context.Background(), service.RecordSaleRequest{
		Items:         []service.SaleItemRequest{{ProductID: p.ID, Qty: 5}},
		PaymentMethod: entity.PaymentCash,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nada quedó escrito: ni venta, ni decremento, ni movimiento
	list, _ := productos.List(context.Background())
	assert.EqualValues(t, 2, list[0].StockQty)
	vs, _ := ventas.List(context.Background())
	assert.Empty(t, vs)
}

func TestSaleService_ItemInvalidoNoReportaExito(t *testing.T) {
	mem := newMem()
	productos := service.NewProductService(mem, logger.Nop())
	ventas := service.NewSaleService(mem, logger.Nop())
	p := crearProducto(t, productos, "Camiseta", 100, 60, 10)

	// Un item válido + uno inexistente: la venta completa falla
	_, err := ventas.RecordSale(context.Background(), service.RecordSaleRequest{
		Items: []service.SaleItemRequest{
			{ProductID: p.ID, Qty: 1},
			{ProductID: "no-existe", Qty: 1},
		},
		PaymentMethod: entity.PaymentCash,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	vs, _ := ventas.List(context.Background())
	assert.Empty(t, vs, "un item fallido nunca debe reportarse como venta exitosa")
}

func TestSaleService_UsaPrecioPromocional(t *testing.T) {
	mem := newMem()
	productos := service.NewProductService(mem, logger.Nop())
	ventas := service.NewSaleService(mem, logger.Nop())

	p, err := productos.Create(context.Background(), service.CreateProductRequest{
		Name:        "Zapatilla",
		Category:    "Calzado",
		Price:       decimal.NewFromInt(250),
		PromoPrice:  decimal.NewFromInt(199),
		OnPromotion: true,
		StockQty:    5,
	})
	require.NoError(t, err)

	res, err := ventas.RecordSale(context.Background(), service.RecordSaleRequest{
		Items:         []service.SaleItemRequest{{ProductID: p.ID, Qty: 1}},
		PaymentMethod: entity.PaymentCard,
	})
	require.NoError(t, err)
	assert.True(t, res.Sale.Total.Equal(decimal.NewFromInt(199)))
}

func TestSaleService_CancelReponeStock(t *testing.T) {
	mem := newMem()
	productos := service.NewProductService(mem, logger.Nop())
	ventas := service.NewSaleService(mem, logger.Nop())
	p := crearProducto(t, productos, "Camiseta", 100, 60, 10)

	res, err := ventas.RecordSale(context.Background(), service.RecordSaleRequest{
		Items:         []service.SaleItemRequest{{ProductID: p.ID, Qty: 4}},
		PaymentMethod: entity.PaymentPix,
	})
	require.NoError(t, err)

	cancelado, err := ventas.Cancel(context.Background(), res.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, cancelado.Sale.Status)
	assert.EqualValues(t, 10, cancelado.Products[0].StockQty, "cancelar repone el stock")

	vs, _ := ventas.List(context.Background())
	require.Len(t, vs, 1, "la venta cancelada no se borra físicamente")
	assert.True(t, vs[0].IsCancelled())

	// Cancelar dos veces es error de validación
	_, err = ventas.Cancel(context.Background(), res.Sale.ID)
	assert.True(t, domain.IsValidation(err))
}

func TestSaleService_MetodoDePagoInvalido(t *testing.T) {
	ventas := service.NewSaleService(newMem(), logger.Nop())
	_, err := ventas.RecordSale(context.Background(), service.RecordSaleRequest{
		Items:         []service.SaleItemRequest{{ProductID: "x", Qty: 1}},
		PaymentMethod: "cheque",
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

// ── Categorías ────────────────────────────────────────────────────────────────

func TestCategoryService_NombreUnico(t *testing.T) {
	svc := service.NewCategoryService(newMem(), logger.Nop())
	ctx := context.Background()

	_, err := svc.Create(ctx, "Vestidos")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "Vestidos")
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Sensible a mayúsculas: "vestidos" es otro nombre
	_, err = svc.Create(ctx, "vestidos")
	assert.NoError(t, err)
}

// ── Metas ─────────────────────────────────────────────────────────────────────

func TestGoalService_UpsertUnicidad(t *testing.T) {
	svc := service.NewGoalService(newMem(), logger.Nop())
	ctx := context.Background()

	_, err := svc.CreateOrUpdateGoal(ctx, 3, 2026, decimal.NewFromInt(1000))
	require.NoError(t, err)
	g2, err := svc.CreateOrUpdateGoal(ctx, 3, 2026, decimal.NewFromInt(2500))
	require.NoError(t, err)

	goals, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1, "dos upserts de (3, 2026) dejan exactamente un registro")
	assert.True(t, goals[0].TargetValue.Equal(decimal.NewFromInt(2500)), "con el último valor")
	assert.Equal(t, g2.ID, goals[0].ID)

	// Otro (month, year) crea un registro nuevo
	_, err = svc.CreateOrUpdateGoal(ctx, 4, 2026, decimal.NewFromInt(500))
	require.NoError(t, err)
	goals, _ = svc.List(ctx)
	assert.Len(t, goals, 2)
}

func TestGoalService_MesInvalido(t *testing.T) {
	svc := service.NewGoalService(newMem(), logger.Nop())
	_, err := svc.CreateOrUpdateGoal(context.Background(), 13, 2026, decimal.NewFromInt(100))
	assert.True(t, domain.IsValidation(err))
}

// ── Capital de giro ───────────────────────────────────────────────────────────

func TestCapitalService_HistorialAppendOnly(t *testing.T) {
	svc := service.NewCapitalService(newMem(), logger.Nop())
	ctx := context.Background()

	wc, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, wc.Configured, "sin configurar: zero value, el motor aplica la heurística")

	_, err = svc.Configure(ctx, decimal.NewFromInt(5000))
	require.NoError(t, err)
	wc, err = svc.Configure(ctx, decimal.NewFromInt(8000))
	require.NoError(t, err)

	assert.True(t, wc.Configured)
	assert.True(t, wc.CurrentValue.Equal(decimal.NewFromInt(8000)))
	require.Len(t, wc.History, 2, "cada configuración agrega al historial, nunca lo reemplaza")
	assert.True(t, wc.History[0].Value.Equal(decimal.NewFromInt(5000)))
}

// ── Movimientos de caja ───────────────────────────────────────────────────────

func TestCashService_MontoDebeSerPositivo(t *testing.T) {
	svc := service.NewCashService(newMem(), logger.Nop())
	ctx := context.Background()

	_, err := svc.Register(ctx, entity.MovementInvestment, decimal.Zero, "aporte")
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Register(ctx, "prestamo", decimal.NewFromInt(100), "tipo desconocido")
	assert.True(t, domain.IsValidation(err))

	m, err := svc.Register(ctx, entity.MovementWithdrawal, decimal.NewFromInt(100), "retiro")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementWithdrawal, m.Type)
}

// ── Conflicto de versión en ventas ────────────────────────────────────────────

// conflictBackend simula un actor concurrente: en las lecturas de productos
// indicadas muta la colección subyacente (bump de versión) antes de responder.
type conflictBackend struct {
	*memBackend
	reads    int
	mutateOn map[int]bool
}

func (c *conflictBackend) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if key == storage.KeyProducts {
		c.reads++
		if c.mutateOn[c.reads] {
			var products []entity.Product
			raw := c.memBackend.data[storage.KeyProducts]
			_ = json.Unmarshal(raw, &products)
			if len(products) > 0 {
				products[0].Version++
				nuevo, _ := json.Marshal(products)
				c.memBackend.data[storage.KeyProducts] = nuevo
			}
		}
	}
	return c.memBackend.Get(ctx, key)
}

func TestSaleService_ConflictoDeVersionReintentaUnaVez(t *testing.T) {
	mem := newMem()
	productos := service.NewProductService(mem, logger.Nop())
	p := crearProducto(t, productos, "Camiseta", 100, 60, 10)

	// Lectura 1 = línea base, lectura 2 = chequeo: mutar en la 2 fuerza un
	// conflicto en el primer intento; el reintento (lecturas 3 y 4) es limpio.
	cb := &conflictBackend{memBackend: mem, mutateOn: map[int]bool{2: true}}
	ventas := service.NewSaleService(cb, logger.Nop())

	res, err := ventas.RecordSale(context.Background(), service.RecordSaleRequest{
		Items:         []service.SaleItemRequest{{ProductID: p.ID, Qty: 1}},
		PaymentMethod: entity.PaymentCash,
	})
	require.NoError(t, err, "un conflicto aislado se resuelve con el único reintento")
	assert.EqualValues(t, 9, res.Products[0].StockQty)
}

func TestSaleService_ConflictoPersistenteSeReporta(t *testing.T) {
	mem := newMem()
	productos := service.NewProductService(mem, logger.Nop())
	p := crearProducto(t, productos, "Camiseta", 100, 60, 10)

	// Mutación en ambos chequeos: los dos intentos entran en conflicto.
	cb := &conflictBackend{memBackend: mem, mutateOn: map[int]bool{2: true, 4: true}}
	ventas := service.NewSaleService(cb, logger.Nop())

	_, err := ventas.RecordSale(context.Background(), service.RecordSaleRequest{
		Items:         []service.SaleItemRequest{{ProductID: p.ID, Qty: 1}},
		PaymentMethod: entity.PaymentCash,
	})
	assert.ErrorIs(t, err, domain.ErrConflict,
		"tras el reintento la política de conflicto es explícita: se reporta, no last-write-wins")
}
