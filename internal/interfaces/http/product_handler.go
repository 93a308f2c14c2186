package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/negocio-pro/internal/application/service"
	"github.com/tu-usuario/negocio-pro/internal/application/store"
)

// ProductHandler maneja las peticiones HTTP para Product.
type ProductHandler struct {
	store *store.Store
}

// NewProductHandler construye el handler.
func NewProductHandler(s *store.Store) *ProductHandler {
	return &ProductHandler{store: s}
}

// Create crea un producto.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in service.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.store.CreateProduct(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista todos los productos.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.store.State().Products)
}

// Update actualiza los campos presentes del producto.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in service.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.store.UpdateProduct(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete marca el producto como inactivo (soft-delete).
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.store.DeleteProduct(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
