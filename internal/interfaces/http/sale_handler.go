package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/negocio-pro/internal/application/service"
	"github.com/tu-usuario/negocio-pro/internal/application/store"
)

// SaleHandler maneja las peticiones HTTP para Sale.
type SaleHandler struct {
	store *store.Store
}

// NewSaleHandler construye el handler.
func NewSaleHandler(s *store.Store) *SaleHandler {
	return &SaleHandler{store: s}
}

// Create registra una venta (checkout).
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in service.RecordSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.store.RecordSale(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista todas las ventas.
func (h *SaleHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.store.State().Sales)
}

// Cancel cancela una venta y repone el stock de sus líneas.
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.store.CancelSale(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
