package demo

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
)

// DefaultCategoryNames lista fija de categorías del estado inicial.
var DefaultCategoryNames = []string{"Camisetas", "Pantalones", "Calzado", "Accesorios"}

// DefaultCategories construye las categorías por defecto del estado inicial.
func DefaultCategories() []entity.Category {
	now := time.Now()
	out := make([]entity.Category, 0, len(DefaultCategoryNames))
	for i, name := range DefaultCategoryNames {
		out = append(out, entity.Category{
			ID:        "cat-default-" + string(rune('a'+i)),
			Name:      name,
			Active:    true,
			CreatedAt: now,
		})
	}
	return out
}

// SeedProducts productos semilla para operar en modo demo.
func SeedProducts() []entity.Product {
	now := time.Now()
	return []entity.Product{
		{
			ID: "demo-p1", Name: "Camiseta básica", Category: "Camisetas",
			Price: decimal.NewFromInt(45), Cost: decimal.NewFromInt(20),
			StockQty: 30, MinStock: 5, Active: true, Version: 1,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "demo-p2", Name: "Pantalón jean", Category: "Pantalones",
			Price: decimal.NewFromInt(120), Cost: decimal.NewFromInt(70),
			StockQty: 15, MinStock: 3, Active: true, Version: 1,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "demo-p3", Name: "Zapatilla urbana", Category: "Calzado",
			Price: decimal.NewFromInt(250), Cost: decimal.NewFromInt(140),
			PromoPrice: decimal.NewFromInt(199), OnPromotion: true,
			StockQty: 8, MinStock: 2, Active: true, Version: 1,
			CreatedAt: now, UpdatedAt: now,
		},
	}
}

// SeedSales ventas semilla (una venta de ejemplo del día).
func SeedSales() []entity.Sale {
	now := time.Now()
	return []entity.Sale{
		{
			ID: "demo-s1",
			Items: []entity.SaleItem{
				{
					ID: "demo-s1-i1", ProductID: "demo-p1", Qty: 2,
					UnitPrice: decimal.NewFromInt(45), LineTotal: decimal.NewFromInt(90),
				},
			},
			Total:         decimal.NewFromInt(90),
			Discount:      decimal.Zero,
			PaymentMethod: entity.PaymentCash,
			Status:        entity.SaleStatusCompleted,
			Timestamp:     now,
		},
	}
}
