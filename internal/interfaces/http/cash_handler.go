package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/negocio-pro/internal/application/store"
)

// CashHandler maneja las peticiones HTTP para los movimientos de caja.
type CashHandler struct {
	store *store.Store
}

// NewCashHandler construye el handler.
func NewCashHandler(s *store.Store) *CashHandler {
	return &CashHandler{store: s}
}

type registerMovementRequest struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// Create registra un movimiento de caja. Los movimientos no se editan ni
// borran por la API.
func (h *CashHandler) Create(c *fiber.Ctx) error {
	var in registerMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.store.RegisterCashMovement(c.Context(), in.Type, in.Amount, in.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista todos los movimientos.
func (h *CashHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.store.State().CashMovements)
}
