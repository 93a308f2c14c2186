// Package http expone la API sobre Fiber: CRUD de las colecciones, reporte
// financiero y estado/re-sondeo de la integración remota.
package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/negocio-pro/internal/domain"
)

// ErrorResponse cuerpo de error estándar de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError mapea un error de dominio al par status/código HTTP.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case domain.IsValidation(err):
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Code: "CONFLICT", Message: err.Error()})
		case errors.Is(err, domain.ErrInsufficientStock):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case domain.IsStorage(err):
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Code: "STORAGE_UNAVAILABLE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
