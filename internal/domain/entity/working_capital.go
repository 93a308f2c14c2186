package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkingCapitalEntry entrada del historial de capital de giro (append-only).
type WorkingCapitalEntry struct {
	Value        decimal.Decimal `json:"value"`
	ConfiguredAt time.Time       `json:"configured_at"`
}

// WorkingCapital capital de giro configurado para el negocio. El registro
// vigente es el último por fecha de configuración; History nunca se recorta.
type WorkingCapital struct {
	CurrentValue decimal.Decimal       `json:"current_value"`
	ConfiguredAt time.Time             `json:"configured_at"`
	Configured   bool                  `json:"configured"`
	History      []WorkingCapitalEntry `json:"history"`
}
