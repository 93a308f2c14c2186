package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/negocio-pro/internal/application/demo"
	"github.com/tu-usuario/negocio-pro/internal/domain/storage"
)

// Reprober estado observable de la integración remota más el re-sondeo
// explícito. Lo implementa el orquestador híbrido.
type Reprober interface {
	IntegrationStatus() storage.IntegrationStatus
	Reprobe(ctx context.Context) storage.IntegrationStatus
}

// StatusHandler expone el estado de la integración y el re-sondeo manual.
type StatusHandler struct {
	orchestrator Reprober
	demo         *demo.Controller
}

// statusResponse estado combinado integración + modo demo.
type statusResponse struct {
	storage.IntegrationStatus
	ConnectionState string      `json:"connection_state"`
	DemoActive      bool        `json:"demo_active"`
	DemoReason      demo.Reason `json:"demo_reason,omitempty"`
}

// NewStatusHandler construye el handler.
func NewStatusHandler(orch Reprober, d *demo.Controller) *StatusHandler {
	return &StatusHandler{orchestrator: orch, demo: d}
}

// Get devuelve el estado vigente. Nunca falla.
func (h *StatusHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.response(h.orchestrator.IntegrationStatus()))
}

// Reprobe re-sondea el backend remoto. Es el único camino de vuelta al estado
// remote dentro de la sesión.
func (h *StatusHandler) Reprobe(c *fiber.Ctx) error {
	return c.JSON(h.response(h.orchestrator.Reprobe(c.Context())))
}

func (h *StatusHandler) response(st storage.IntegrationStatus) statusResponse {
	return statusResponse{
		IntegrationStatus: st,
		ConnectionState:   st.State.String(),
		DemoActive:        h.demo.IsActive(),
		DemoReason:        h.demo.Reason(),
	}
}
