package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal meta de ventas mensual. Única por (month, year): la operación de
// creación tiene semántica upsert y nunca requiere borrado físico.
type Goal struct {
	ID          string          `json:"id"`
	Month       int             `json:"month"` // 1..12
	Year        int             `json:"year"`
	TargetValue decimal.Decimal `json:"target_value"`
	Active      bool            `json:"active"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
