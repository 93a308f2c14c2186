package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
	"github.com/tu-usuario/negocio-pro/internal/domain/storage"
	"github.com/tu-usuario/negocio-pro/pkg/logger"
)

// CapitalService configuración del capital de giro. El historial es
// append-only; el valor vigente es el último configurado.
type CapitalService struct {
	store storage.Backend
	log   *logger.Logger
}

// NewCapitalService construye el servicio.
func NewCapitalService(store storage.Backend, log *logger.Logger) *CapitalService {
	return &CapitalService{store: store, log: log}
}

// Get devuelve el capital de giro. Nunca configurado → zero value con
// Configured=false (el motor financiero aplica entonces su heurística).
func (s *CapitalService) Get(ctx context.Context) (entity.WorkingCapital, error) {
	raw, err := s.store.Get(ctx, storage.KeyWorkingCapital)
	if errors.Is(err, domain.ErrNotFound) {
		return entity.WorkingCapital{}, nil
	}
	if err != nil {
		return entity.WorkingCapital{}, err
	}
	var wc entity.WorkingCapital
	if err := json.Unmarshal(raw, &wc); err != nil {
		return entity.WorkingCapital{}, fmt.Errorf("deserializar capital de giro: %w", err)
	}
	return wc, nil
}

// Configure reemplaza el valor vigente y agrega la entrada al historial.
func (s *CapitalService) Configure(ctx context.Context, value decimal.Decimal) (entity.WorkingCapital, error) {
	if value.IsNegative() {
		return entity.WorkingCapital{}, &domain.ValidationError{
			Field: "current_value", Reason: "el capital de giro no puede ser negativo",
		}
	}

	wc, err := s.Get(ctx)
	if err != nil {
		return entity.WorkingCapital{}, err
	}

	now := time.Now()
	wc.CurrentValue = value
	wc.ConfiguredAt = now
	wc.Configured = true
	wc.History = append(wc.History, entity.WorkingCapitalEntry{Value: value, ConfiguredAt: now})

	raw, err := json.Marshal(wc)
	if err != nil {
		return entity.WorkingCapital{}, fmt.Errorf("serializar capital de giro: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeyWorkingCapital, raw); err != nil {
		return entity.WorkingCapital{}, err
	}
	return wc, nil
}
