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

// CashService movimientos de caja: solo altas, nunca edición ni borrado.
type CashService struct {
	store storage.Backend
	log   *logger.Logger
}

// NewCashService construye el servicio.
func NewCashService(store storage.Backend, log *logger.Logger) *CashService {
	return &CashService{store: store, log: log}
}

// Register registra un movimiento. El monto debe ser > 0 y el tipo conocido;
// el tipo queda inmutable una vez registrado.
func (s *CashService) Register(ctx context.Context, movType string, amount decimal.Decimal, description string) (*entity.CashMovement, error) {
	if !entity.ValidMovementType(movType) {
		return nil, &domain.ValidationError{Field: "type", Reason: "tipo de movimiento desconocido"}
	}
	if !amount.IsPositive() {
		return nil, &domain.ValidationError{Field: "amount", Reason: "el monto debe ser mayor que cero"}
	}

	movements, err := loadSlice[entity.CashMovement](ctx, s.store, storage.KeyCashMovements)
	if err != nil {
		return nil, err
	}

	m := entity.CashMovement{
		ID:          uuid.New().String(),
		Type:        movType,
		Amount:      amount,
		Description: description,
		Timestamp:   time.Now(),
	}
	movements = append(movements, m)

	if err := saveSlice(ctx, s.store, storage.KeyCashMovements, movements); err != nil {
		return nil, err
	}
	return &m, nil
}

// List devuelve todos los movimientos.
func (s *CashService) List(ctx context.Context) ([]entity.CashMovement, error) {
	return loadSlice[entity.CashMovement](ctx, s.store, storage.KeyCashMovements)
}
