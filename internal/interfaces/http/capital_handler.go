package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/negocio-pro/internal/application/store"
)

// CapitalHandler maneja las peticiones HTTP para el capital de giro.
type CapitalHandler struct {
	store *store.Store
}

// NewCapitalHandler construye el handler.
func NewCapitalHandler(s *store.Store) *CapitalHandler {
	return &CapitalHandler{store: s}
}

type configureCapitalRequest struct {
	CurrentValue decimal.Decimal `json:"current_value"`
}

// Get devuelve el capital de giro vigente con su historial.
func (h *CapitalHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.store.State().WorkingCapital)
}

// Configure fija el valor vigente y agrega la entrada al historial.
func (h *CapitalHandler) Configure(c *fiber.Ctx) error {
	var in configureCapitalRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.store.ConfigureCapital(c.Context(), in.CurrentValue)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
