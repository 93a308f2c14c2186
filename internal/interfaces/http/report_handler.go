package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/negocio-pro/internal/application/store"
)

// ReportHandler expone el reporte financiero agregado.
type ReportHandler struct {
	store *store.Store
}

// NewReportHandler construye el handler.
func NewReportHandler(s *store.Store) *ReportHandler {
	return &ReportHandler{store: s}
}

// Summary reporte del mes calendario en curso comparado contra el anterior.
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	return c.JSON(h.store.Report(time.Now()))
}
