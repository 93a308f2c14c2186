// Package demo implementa el modo degradado de la aplicación: cuando el
// backend remoto es inutilizable (esquema sin provisionar o sin conexión) la
// app sigue operando con datos semilla y diagnóstico deduplicado.
package demo

import (
	"sync"
	"time"

	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/pkg/logger"
)

// Reason causa de activación del modo demo.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonTablesMissing   Reason = "tables_missing"
	ReasonConnectionError Reason = "connection_error"
)

// suppressAfter ventana de silencio: pasado este tiempo desde la activación el
// controlador deja de emitir diagnóstico por completo, incluidas tablas nunca
// vistas. Evita inundar el log en entornos sin esquema provisionado.
const suppressAfter = 5 * time.Second

// Controller máquina de estados Inactive → Active(reason) → Active&Suppressed.
// La transición a Active ocurre exactamente una vez por proceso.
type Controller struct {
	mu          sync.Mutex
	active      bool
	reason      Reason
	activatedAt time.Time
	seenTables  map[string]struct{}

	now func() time.Time
	log *logger.Logger
}

// Option configura el controlador.
type Option func(*Controller)

// WithClock inyecta el reloj (tests de la ventana de silencio).
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New construye el controlador en estado Inactive.
func New(log *logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		seenTables: map[string]struct{}{},
		now:        time.Now,
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Activate pasa a Active. Idempotente: una segunda llamada solo registra la
// nueva causa, sin transición ni log adicional.
func (c *Controller) Activate(reason Reason) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		c.reason = reason
		return
	}
	c.active = true
	c.reason = reason
	c.activatedAt = c.now()
	c.log.Warn().Str("reason", string(reason)).Msg("modo demo activado: se sirven datos semilla")
}

// LogTableNotFound registra "tabla no existe" a lo sumo una vez por tabla.
// Dentro de la ventana de silencio ya vencida no se registra nada, ni siquiera
// tablas nuevas.
func (c *Controller) LogTableNotFound(table string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active && c.now().Sub(c.activatedAt) >= suppressAfter {
		return // suprimido por completo
	}
	if _, seen := c.seenTables[table]; seen {
		return
	}
	c.seenTables[table] = struct{}{}
	c.log.Warn().Str("table", table).Msg("tabla remota inexistente; esquema sin provisionar")
}

// RemoteFailure clasifica un fallo remoto y activa el modo demo con la causa
// correspondiente. Implementa el observador del orquestador híbrido.
func (c *Controller) RemoteFailure(err error) {
	if table, ok := domain.IsTableNotFound(err); ok {
		c.Activate(ReasonTablesMissing)
		c.LogTableNotFound(table)
		return
	}
	c.Activate(ReasonConnectionError)
}

// IsActive reporta si el modo demo está activo.
func (c *Controller) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Reason devuelve la última causa registrada.
func (c *Controller) Reason() Reason {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

// Reset vuelve a Inactive. Solo para teardown de tests.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = false
	c.reason = ReasonNone
	c.activatedAt = time.Time{}
	c.seenTables = map[string]struct{}{}
}
