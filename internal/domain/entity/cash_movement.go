package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de caja. El tipo es inmutable una vez registrado.
const (
	MovementInvestment = "investment"
	MovementWithdrawal = "withdrawal"
	MovementLoss       = "loss"
	MovementSale       = "sale"
)

// ValidMovementType reporta si t es un tipo de movimiento conocido.
func ValidMovementType(t string) bool {
	switch t {
	case MovementInvestment, MovementWithdrawal, MovementLoss, MovementSale:
		return true
	}
	return false
}

// CashMovement movimiento de caja. Solo se crea; nunca se edita ni se borra.
type CashMovement struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"` // siempre > 0; el signo lo aporta el tipo
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
}
