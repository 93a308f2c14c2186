package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
	"github.com/tu-usuario/negocio-pro/internal/domain/storage"
	"github.com/tu-usuario/negocio-pro/pkg/logger"
)

// GoalService metas de venta mensuales con semántica upsert por (month, year).
type GoalService struct {
	store storage.Backend
	log   *logger.Logger
}

// NewGoalService construye el servicio.
func NewGoalService(store storage.Backend, log *logger.Logger) *GoalService {
	return &GoalService{store: store, log: log}
}

// CreateOrUpdateGoal crea la meta de (month, year) o actualiza su valor si ya
// existe. Invariante: a lo sumo un registro por (month, year).
func (s *GoalService) CreateOrUpdateGoal(ctx context.Context, month, year int, target decimal.Decimal) (*entity.Goal, error) {
	if month < 1 || month > 12 {
		return nil, &domain.ValidationError{Field: "month", Reason: "debe estar entre 1 y 12"}
	}
	if year < 2000 {
		return nil, &domain.ValidationError{Field: "year", Reason: "año fuera de rango"}
	}
	if target.IsNegative() {
		return nil, &domain.ValidationError{Field: "target_value", Reason: "la meta no puede ser negativa"}
	}

	goals, err := loadSlice[entity.Goal](ctx, s.store, storage.KeyGoals)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range goals {
		if goals[i].Month == month && goals[i].Year == year {
			goals[i].TargetValue = target
			goals[i].Active = true
			goals[i].UpdatedAt = now
			if err := saveSlice(ctx, s.store, storage.KeyGoals, goals); err != nil {
				return nil, err
			}
			out := goals[i]
			return &out, nil
		}
	}

	g := entity.Goal{
		ID:          uuid.New().String(),
		Month:       month,
		Year:        year,
		TargetValue: target,
		Active:      true,
		UpdatedAt:   now,
	}
	goals = append(goals, g)
	if err := saveSlice(ctx, s.store, storage.KeyGoals, goals); err != nil {
		return nil, err
	}
	return &g, nil
}

// List devuelve todas las metas.
func (s *GoalService) List(ctx context.Context) ([]entity.Goal, error) {
	return loadSlice[entity.Goal](ctx, s.store, storage.KeyGoals)
}
