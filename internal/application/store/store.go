package store

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/negocio-pro/internal/application/demo"
	"github.com/tu-usuario/negocio-pro/internal/application/service"
	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
	"github.com/tu-usuario/negocio-pro/internal/domain/finance"
	"github.com/tu-usuario/negocio-pro/internal/domain/storage"
	"github.com/tu-usuario/negocio-pro/pkg/logger"
)

// Store executor de efectos sobre el estado. Cada operación: marca loading,
// llama al servicio de dominio, despacha el resultado confirmado y desmarca
// loading. Ante un fallo de almacenamiento despacha el error legible, activa
// el modo demo y carga los datos semilla de la colección afectada; un error de
// validación solo fija el error y se devuelve al llamador.
type Store struct {
	mu    sync.RWMutex
	state State

	products   *service.ProductService
	sales      *service.SaleService
	categories *service.CategoryService
	goals      *service.GoalService
	capital    *service.CapitalService
	cash       *service.CashService

	demo *demo.Controller
	log  *logger.Logger
}

// New construye el StateStore sobre el backend dado (normalmente el
// orquestador híbrido) con el estado inicial.
func New(backend storage.Backend, demoCtrl *demo.Controller, log *logger.Logger) *Store {
	return &Store{
		state:      InitialState(),
		products:   service.NewProductService(backend, log),
		sales:      service.NewSaleService(backend, log),
		categories: service.NewCategoryService(backend, log),
		goals:      service.NewGoalService(backend, log),
		capital:    service.NewCapitalService(backend, log),
		cash:       service.NewCashService(backend, log),
		demo:       demoCtrl,
		log:        log,
	}
}

// Dispatch aplica una acción vía el reducer puro.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	s.mu.Unlock()
}

// State devuelve el snapshot vigente.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot produce la entrada del motor financiero.
func (s *Store) Snapshot() finance.Snapshot {
	st := s.State()
	return finance.Snapshot{
		Products:       st.Products,
		Sales:          st.Sales,
		CashMovements:  st.CashMovements,
		WorkingCapital: st.WorkingCapital,
	}
}

// Report calcula el reporte financiero del snapshot vigente.
func (s *Store) Report(now time.Time) finance.ReportSummary {
	return finance.Summarize(s.Snapshot(), now)
}

// begin marca loading y limpia el error previo.
func (s *Store) begin() {
	s.Dispatch(ClearError{})
	s.Dispatch(SetLoading{Loading: true})
}

// done desmarca loading.
func (s *Store) done() {
	s.Dispatch(SetLoading{Loading: false})
}

// fail registra el error en el estado y, si es un fallo de almacenamiento,
// activa el modo demo y siembra la colección afectada. Devuelve err siempre:
// los errores de validación llegan intactos al llamador para mostrarlos.
func (s *Store) fail(err error, seedKey string) error {
	s.Dispatch(SetError{Message: err.Error()})
	s.done()

	if domain.IsStorage(err) {
		s.demo.RemoteFailure(err)
		s.loadSeed(seedKey)
	}
	return err
}

// loadSeed carga los datos semilla de la colección indicada.
func (s *Store) loadSeed(key string) {
	switch key {
	case storage.KeyProducts:
		s.Dispatch(SetProducts{Products: demo.SeedProducts()})
	case storage.KeySales:
		s.Dispatch(SetSales{Sales: demo.SeedSales()})
	case storage.KeyCategories:
		s.Dispatch(SetCategories{Categories: demo.DefaultCategories()})
	}
}

// LoadAll carga todas las colecciones al arranque. Un fallo de almacenamiento
// activa el modo demo y siembra las tres colecciones con datos de muestra; la
// app sigue arrancando.
func (s *Store) LoadAll(ctx context.Context) error {
	s.begin()
	defer s.done()

	products, err := s.products.List(ctx)
	if err != nil {
		return s.failLoad(err)
	}
	s.Dispatch(SetProducts{Products: products})

	sales, err := s.sales.List(ctx)
	if err != nil {
		return s.failLoad(err)
	}
	s.Dispatch(SetSales{Sales: sales})

	categories, err := s.categories.List(ctx)
	if err != nil {
		return s.failLoad(err)
	}
	if len(categories) > 0 {
		s.Dispatch(SetCategories{Categories: categories})
	}

	goals, err := s.goals.List(ctx)
	if err != nil {
		return s.failLoad(err)
	}
	s.Dispatch(SetGoals{Goals: goals})

	movements, err := s.cash.List(ctx)
	if err != nil {
		return s.failLoad(err)
	}
	s.Dispatch(SetCashMovements{Movements: movements})

	capital, err := s.capital.Get(ctx)
	if err != nil {
		return s.failLoad(err)
	}
	s.Dispatch(SetWorkingCapital{Capital: capital})

	return nil
}

// failLoad variante de fail para el arranque: siembra las tres colecciones.
func (s *Store) failLoad(err error) error {
	s.Dispatch(SetError{Message: err.Error()})
	if domain.IsStorage(err) {
		s.demo.RemoteFailure(err)
		s.loadSeed(storage.KeyProducts)
		s.loadSeed(storage.KeySales)
		s.loadSeed(storage.KeyCategories)
	}
	return err
}

// CreateProduct crea un producto y refleja el valor confirmado.
func (s *Store) CreateProduct(ctx context.Context, in service.CreateProductRequest) (*entity.Product, error) {
	s.begin()
	p, err := s.products.Create(ctx, in)
	if err != nil {
		return nil, s.fail(err, storage.KeyProducts)
	}
	s.Dispatch(AddProduct{Product: *p})
	s.done()
	return p, nil
}

// UpdateProduct actualiza un producto y refleja el valor confirmado.
func (s *Store) UpdateProduct(ctx context.Context, id string, in service.UpdateProductRequest) (*entity.Product, error) {
	s.begin()
	p, err := s.products.Update(ctx, id, in)
	if err != nil {
		return nil, s.fail(err, storage.KeyProducts)
	}
	s.Dispatch(UpdateProduct{Product: *p})
	s.done()
	return p, nil
}

// DeleteProduct soft-delete del producto; recarga la colección confirmada.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.begin()
	if err := s.products.SoftDelete(ctx, id); err != nil {
		return s.fail(err, storage.KeyProducts)
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return s.fail(err, storage.KeyProducts)
	}
	s.Dispatch(SetProducts{Products: products})
	s.done()
	return nil
}

// RecordSale registra la venta. El resultado confirmado se refleja en dos
// despachos: la venta nueva y los productos con el stock ya decrementado (el
// decremento ocurrió en la transacción del servicio, no aquí).
func (s *Store) RecordSale(ctx context.Context, in service.RecordSaleRequest) (*entity.Sale, error) {
	s.begin()
	res, err := s.sales.RecordSale(ctx, in)
	if err != nil {
		return nil, s.fail(err, storage.KeySales)
	}
	s.Dispatch(AddSale{Sale: res.Sale})
	s.Dispatch(SetProducts{Products: res.Products})

	// El movimiento de caja de la venta también quedó persistido
	movements, err := s.cash.List(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("no se pudieron refrescar los movimientos de caja tras la venta")
	} else {
		s.Dispatch(SetCashMovements{Movements: movements})
	}
	s.done()
	return &res.Sale, nil
}

// CancelSale cancela una venta y repone el stock confirmado.
func (s *Store) CancelSale(ctx context.Context, saleID string) error {
	s.begin()
	res, err := s.sales.Cancel(ctx, saleID)
	if err != nil {
		return s.fail(err, storage.KeySales)
	}
	s.Dispatch(UpdateSale{Sale: res.Sale})
	s.Dispatch(SetProducts{Products: res.Products})
	s.done()
	return nil
}

// CreateCategory crea una categoría.
func (s *Store) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	s.begin()
	c, err := s.categories.Create(ctx, name)
	if err != nil {
		return nil, s.fail(err, storage.KeyCategories)
	}
	s.Dispatch(AddCategory{Category: *c})
	s.done()
	return c, nil
}

// DeleteCategory soft-delete de una categoría.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.begin()
	if err := s.categories.SoftDelete(ctx, id); err != nil {
		return s.fail(err, storage.KeyCategories)
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return s.fail(err, storage.KeyCategories)
	}
	s.Dispatch(SetCategories{Categories: categories})
	s.done()
	return nil
}

// UpsertGoal crea o actualiza la meta del (month, year).
func (s *Store) UpsertGoal(ctx context.Context, month, year int, target decimal.Decimal) (*entity.Goal, error) {
	s.begin()
	g, err := s.goals.CreateOrUpdateGoal(ctx, month, year, target)
	if err != nil {
		return nil, s.fail(err, storage.KeyGoals)
	}
	s.Dispatch(UpsertGoal{Goal: *g})
	s.done()
	return g, nil
}

// RegisterCashMovement registra un movimiento de caja.
func (s *Store) RegisterCashMovement(ctx context.Context, movType string, amount decimal.Decimal, description string) (*entity.CashMovement, error) {
	s.begin()
	m, err := s.cash.Register(ctx, movType, amount, description)
	if err != nil {
		return nil, s.fail(err, storage.KeyCashMovements)
	}
	s.Dispatch(AddCashMovement{Movement: *m})
	s.done()
	return m, nil
}

// ConfigureCapital configura el capital de giro.
func (s *Store) ConfigureCapital(ctx context.Context, value decimal.Decimal) (entity.WorkingCapital, error) {
	s.begin()
	wc, err := s.capital.Configure(ctx, value)
	if err != nil {
		return entity.WorkingCapital{}, s.fail(err, storage.KeyWorkingCapital)
	}
	s.Dispatch(SetWorkingCapital{Capital: wc})
	s.done()
	return wc, nil
}

// DemoActive reporta si el modo demo está activo.
func (s *Store) DemoActive() bool { return s.demo.IsActive() }
