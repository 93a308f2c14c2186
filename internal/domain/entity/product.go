package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// Los tags JSON importan: la entidad es el formato de persistencia de los
// almacenes clave→JSON (local y remoto), estable entre versiones.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`                 // precio de lista
	PromoPrice  decimal.Decimal `json:"promo_price"`           // precio promocional (válido si OnPromotion)
	OnPromotion bool            `json:"on_promotion"`
	Cost        decimal.Decimal `json:"cost"`
	StockQty    int64           `json:"stock_qty"`
	MinStock    int64           `json:"min_stock"`
	Attributes  json.RawMessage `json:"attributes,omitempty"` // talla/color/etc, esquema libre
	Active      bool            `json:"active"`
	Version     int64           `json:"version"` // contador para el chequeo de versión en read-modify-write
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// EffectivePrice devuelve el precio promocional si está en promoción, si no el de lista.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.OnPromotion {
		return p.PromoPrice
	}
	return p.Price
}

// Margin devuelve el margen porcentual sobre el precio efectivo (0 si precio 0).
func (p Product) Margin() decimal.Decimal {
	price := p.EffectivePrice()
	if price.IsZero() {
		return decimal.Zero
	}
	return price.Sub(p.Cost).Div(price).Mul(decimal.NewFromInt(100))
}
