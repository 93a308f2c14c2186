package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
	"github.com/tu-usuario/negocio-pro/internal/domain/storage"
	"github.com/tu-usuario/negocio-pro/pkg/logger"
)

// CreateProductRequest datos para crear un producto.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	PromoPrice  decimal.Decimal `json:"promo_price"`
	OnPromotion bool            `json:"on_promotion"`
	Cost        decimal.Decimal `json:"cost"`
	StockQty    int64           `json:"stock_qty" validate:"gte=0"`
	MinStock    int64           `json:"min_stock" validate:"gte=0"`
	Attributes  json.RawMessage `json:"attributes,omitempty"`
}

// UpdateProductRequest datos para actualizar un producto (campos opcionales).
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	PromoPrice  *decimal.Decimal `json:"promo_price,omitempty"`
	OnPromotion *bool            `json:"on_promotion,omitempty"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	StockQty    *int64           `json:"stock_qty,omitempty"`
	MinStock    *int64           `json:"min_stock,omitempty"`
	Attributes  json.RawMessage  `json:"attributes,omitempty"`
}

// ProductService CRUD de productos sobre el almacén híbrido.
type ProductService struct {
	store storage.Backend
	log   *logger.Logger
}

// NewProductService construye el servicio.
func NewProductService(store storage.Backend, log *logger.Logger) *ProductService {
	return &ProductService{store: store, log: log}
}

// Create crea un producto nuevo. El precio no puede ser negativo.
func (s *ProductService) Create(ctx context.Context, in CreateProductRequest) (*entity.Product, error) {
	if err := checkRequest(in); err != nil {
		return nil, err
	}
	if in.Price.IsNegative() {
		return nil, &domain.ValidationError{Field: "price", Reason: "el precio no puede ser negativo"}
	}
	if in.OnPromotion && in.PromoPrice.IsNegative() {
		return nil, &domain.ValidationError{Field: "promo_price", Reason: "el precio promocional no puede ser negativo"}
	}

	products, err := loadSlice[entity.Product](ctx, s.store, storage.KeyProducts)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := entity.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Category:    in.Category,
		Price:       in.Price,
		PromoPrice:  in.PromoPrice,
		OnPromotion: in.OnPromotion,
		Cost:        in.Cost,
		StockQty:    in.StockQty,
		MinStock:    in.MinStock,
		Attributes:  in.Attributes,
		Active:      true,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	products = append(products, p)

	if err := saveSlice(ctx, s.store, storage.KeyProducts, products); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update actualiza los campos presentes del producto id.
func (s *ProductService) Update(ctx context.Context, id string, in UpdateProductRequest) (*entity.Product, error) {
	products, err := loadSlice[entity.Product](ctx, s.store, storage.KeyProducts)
	if err != nil {
		return nil, err
	}

	idx := indexOfProduct(products, id)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	p := &products[idx]

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, &domain.ValidationError{Field: "price", Reason: "el precio no puede ser negativo"}
		}
		p.Price = *in.Price
	}
	if in.PromoPrice != nil {
		p.PromoPrice = *in.PromoPrice
	}
	if in.OnPromotion != nil {
		p.OnPromotion = *in.OnPromotion
	}
	if in.Cost != nil {
		p.Cost = *in.Cost
	}
	if in.StockQty != nil {
		p.StockQty = *in.StockQty
	}
	if in.MinStock != nil {
		p.MinStock = *in.MinStock
	}
	if len(in.Attributes) > 0 {
		p.Attributes = in.Attributes
	}
	p.Version++
	p.UpdatedAt = time.Now()

	if err := saveSlice(ctx, s.store, storage.KeyProducts, products); err != nil {
		return nil, err
	}
	out := products[idx]
	return &out, nil
}

// SoftDelete marca el producto como inactivo. Nunca se borra físicamente.
func (s *ProductService) SoftDelete(ctx context.Context, id string) error {
	products, err := loadSlice[entity.Product](ctx, s.store, storage.KeyProducts)
	if err != nil {
		return err
	}
	idx := indexOfProduct(products, id)
	if idx < 0 {
		return domain.ErrNotFound
	}
	products[idx].Active = false
	products[idx].Version++
	products[idx].UpdatedAt = time.Now()
	return saveSlice(ctx, s.store, storage.KeyProducts, products)
}

// List devuelve todos los productos.
func (s *ProductService) List(ctx context.Context) ([]entity.Product, error) {
	return loadSlice[entity.Product](ctx, s.store, storage.KeyProducts)
}

func indexOfProduct(products []entity.Product, id string) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}
