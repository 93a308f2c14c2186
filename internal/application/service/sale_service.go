package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
	"github.com/tu-usuario/negocio-pro/internal/domain/storage"
	"github.com/tu-usuario/negocio-pro/pkg/logger"
)

// SaleItemRequest línea de venta solicitada.
type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Qty       int64  `json:"qty" validate:"gt=0"`
}

// RecordSaleRequest datos del checkout.
type RecordSaleRequest struct {
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash card pix transfer"`
	Discount      decimal.Decimal   `json:"discount"`
	CustomerRef   string            `json:"customer_ref"`
}

// SaleResult venta registrada más los productos con el stock ya decrementado,
// confirmados por el backend que sirvió la escritura.
type SaleResult struct {
	Sale     entity.Sale
	Products []entity.Product
}

// SaleService registro y cancelación de ventas.
//
// Registrar una venta es UNA transacción lógica: decremento de stock, alta de
// la venta y movimiento de caja se escriben en un único SetMany (atómico en el
// almacén local). El decremento usa chequeo de versión por producto: si otro
// actor modificó el producto entre la lectura y la escritura, se reintenta una
// vez con estado fresco y después se reporta domain.ErrConflict.
type SaleService struct {
	store storage.Backend
	log   *logger.Logger
}

// NewSaleService construye el servicio.
func NewSaleService(store storage.Backend, log *logger.Logger) *SaleService {
	return &SaleService{store: store, log: log}
}

// RecordSale registra una venta. Falla sin persistir nada si algún item no
// existe, está inactivo o no tiene stock suficiente: un item fallido nunca se
// reporta como éxito.
func (s *SaleService) RecordSale(ctx context.Context, in RecordSaleRequest) (*SaleResult, error) {
	if err := checkRequest(in); err != nil {
		return nil, err
	}
	if in.Discount.IsNegative() {
		return nil, &domain.ValidationError{Field: "discount", Reason: "el descuento no puede ser negativo"}
	}

	result, err := s.tryRecord(ctx, in)
	if errors.Is(err, domain.ErrConflict) {
		// Alguien tocó un producto entre la lectura y la escritura: un único
		// reintento con estado fresco.
		s.log.Warn().Msg("conflicto de versión al registrar venta; reintentando una vez")
		result, err = s.tryRecord(ctx, in)
	}
	return result, err
}

func (s *SaleService) tryRecord(ctx context.Context, in RecordSaleRequest) (*SaleResult, error) {
	products, err := loadSlice[entity.Product](ctx, s.store, storage.KeyProducts)
	if err != nil {
		return nil, err
	}
	baseline := make(map[string]int64, len(products))
	for _, p := range products {
		baseline[p.ID] = p.Version
	}

	sale := entity.Sale{
		ID:            uuid.New().String(),
		Discount:      in.Discount,
		PaymentMethod: in.PaymentMethod,
		CustomerRef:   in.CustomerRef,
		Status:        entity.SaleStatusCompleted,
		Timestamp:     time.Now(),
	}

	total := decimal.Zero
	for _, item := range in.Items {
		idx := indexOfProduct(products, item.ProductID)
		if idx < 0 {
			return nil, fmt.Errorf("producto %s: %w", item.ProductID, domain.ErrNotFound)
		}
		p := &products[idx]
		if !p.Active {
			return nil, &domain.ValidationError{Field: "product_id", Reason: "el producto está inactivo"}
		}
		if p.StockQty < item.Qty {
			return nil, fmt.Errorf("producto %s: %w", p.Name, domain.ErrInsufficientStock)
		}

		unitPrice := p.EffectivePrice()
		lineTotal := unitPrice.Mul(decimal.NewFromInt(item.Qty))
		sale.Items = append(sale.Items, entity.SaleItem{
			ID:        uuid.New().String(),
			ProductID: p.ID,
			Qty:       item.Qty,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
		})
		total = total.Add(lineTotal)

		p.StockQty -= item.Qty
		p.Version++
		p.UpdatedAt = sale.Timestamp
	}

	sale.Total = total.Sub(in.Discount)
	if sale.Total.IsNegative() {
		return nil, &domain.ValidationError{Field: "discount", Reason: "el descuento excede el total de la venta"}
	}

	// Chequeo de versión: releer y comparar contra la línea base antes de
	// escribir. Ventana mínima, no cero; la política de conflicto es explícita.
	current, err := loadSlice[entity.Product](ctx, s.store, storage.KeyProducts)
	if err != nil {
		return nil, err
	}
	for _, c := range current {
		if base, ok := baseline[c.ID]; ok && c.Version != base {
			return nil, domain.ErrConflict
		}
	}
	if len(current) != len(products) {
		return nil, domain.ErrConflict
	}

	sales, err := loadSlice[entity.Sale](ctx, s.store, storage.KeySales)
	if err != nil {
		return nil, err
	}
	sales = append(sales, sale)

	movements, err := loadSlice[entity.CashMovement](ctx, s.store, storage.KeyCashMovements)
	if err != nil {
		return nil, err
	}
	movements = append(movements, entity.CashMovement{
		ID:          uuid.New().String(),
		Type:        entity.MovementSale,
		Amount:      sale.Total,
		Description: fmt.Sprintf("venta %s", sale.ID),
		Timestamp:   sale.Timestamp,
	})

	kProducts, rawProducts, err := marshalSlice(storage.KeyProducts, products)
	if err != nil {
		return nil, err
	}
	kSales, rawSales, err := marshalSlice(storage.KeySales, sales)
	if err != nil {
		return nil, err
	}
	kMovs, rawMovs, err := marshalSlice(storage.KeyCashMovements, movements)
	if err != nil {
		return nil, err
	}

	if err := s.store.SetMany(ctx, map[string]json.RawMessage{
		kProducts: rawProducts,
		kSales:    rawSales,
		kMovs:     rawMovs,
	}); err != nil {
		return nil, err
	}

	return &SaleResult{Sale: sale, Products: products}, nil
}

// Cancel cambia el estado de la venta a cancelled y repone el stock de sus
// líneas. Las ventas nunca se borran físicamente.
func (s *SaleService) Cancel(ctx context.Context, saleID string) (*SaleResult, error) {
	sales, err := loadSlice[entity.Sale](ctx, s.store, storage.KeySales)
	if err != nil {
		return nil, err
	}
	var sale *entity.Sale
	for i := range sales {
		if sales[i].ID == saleID {
			sale = &sales[i]
			break
		}
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.IsCancelled() {
		return nil, &domain.ValidationError{Field: "sale_id", Reason: "la venta ya está cancelada"}
	}
	sale.Status = entity.SaleStatusCancelled

	products, err := loadSlice[entity.Product](ctx, s.store, storage.KeyProducts)
	if err != nil {
		return nil, err
	}
	for _, item := range sale.Items {
		if idx := indexOfProduct(products, item.ProductID); idx >= 0 {
			products[idx].StockQty += item.Qty
			products[idx].Version++
			products[idx].UpdatedAt = time.Now()
		}
	}

	kProducts, rawProducts, err := marshalSlice(storage.KeyProducts, products)
	if err != nil {
		return nil, err
	}
	kSales, rawSales, err := marshalSlice(storage.KeySales, sales)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetMany(ctx, map[string]json.RawMessage{
		kProducts: rawProducts,
		kSales:    rawSales,
	}); err != nil {
		return nil, err
	}
	return &SaleResult{Sale: *sale, Products: products}, nil
}

// List devuelve todas las ventas.
func (s *SaleService) List(ctx context.Context) ([]entity.Sale, error) {
	return loadSlice[entity.Sale](ctx, s.store, storage.KeySales)
}
