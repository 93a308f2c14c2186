package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/negocio-pro/internal/application/store"
)

// GoalHandler maneja las peticiones HTTP para Goal.
type GoalHandler struct {
	store *store.Store
}

// NewGoalHandler construye el handler.
func NewGoalHandler(s *store.Store) *GoalHandler {
	return &GoalHandler{store: s}
}

type upsertGoalRequest struct {
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	TargetValue decimal.Decimal `json:"target_value"`
}

// Upsert crea la meta del (month, year) o actualiza su valor si ya existe.
func (h *GoalHandler) Upsert(c *fiber.Ctx) error {
	var in upsertGoalRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.store.UpsertGoal(c.Context(), in.Month, in.Year, in.TargetValue)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List lista todas las metas.
func (h *GoalHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.store.State().Goals)
}
