package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/negocio-pro/internal/application/store"
)

// CategoryHandler maneja las peticiones HTTP para Category.
type CategoryHandler struct {
	store *store.Store
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(s *store.Store) *CategoryHandler {
	return &CategoryHandler{store: s}
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

// Create crea una categoría. Un nombre repetido responde 409.
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in createCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.store.CreateCategory(c.Context(), in.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista todas las categorías.
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.store.State().Categories)
}

// Delete marca la categoría como inactiva (soft-delete).
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.store.DeleteCategory(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
