package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados posibles de una venta. Una venta nunca se borra físicamente:
// cancelar es un cambio de estado.
const (
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
)

// Métodos de pago aceptados en el punto de venta.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentPix      = "pix"
	PaymentTransfer = "transfer"
)

// SaleItem línea de una venta.
type SaleItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Qty       int64           `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Sale venta registrada en caja. Se graba atómicamente con una o más líneas;
// un fallo al insertar una línea nunca debe reportarse como éxito.
type Sale struct {
	ID            string          `json:"id"`
	Items         []SaleItem      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Discount      decimal.Decimal `json:"discount"`
	PaymentMethod string          `json:"payment_method"`
	CustomerRef   string          `json:"customer_ref,omitempty"`
	Status        string          `json:"status"`
	Timestamp     time.Time       `json:"timestamp"`
}

// IsCancelled reporta si la venta fue cancelada.
func (s Sale) IsCancelled() bool { return s.Status == SaleStatusCancelled }
