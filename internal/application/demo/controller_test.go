package demo_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/negocio-pro/internal/application/demo"
	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/pkg/logger"
)

// relojFijo reloj controlable para la ventana de silencio.
type relojFijo struct{ t time.Time }

func (r *relojFijo) now() time.Time         { return r.t }
func (r *relojFijo) avanza(d time.Duration) { r.t = r.t.Add(d) }

func nuevoControlador(t *testing.T) (*demo.Controller, *bytes.Buffer, *relojFijo) {
	t.Helper()
	var buf bytes.Buffer
	reloj := &relojFijo{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	c := demo.New(logger.NewWithWriter(&buf), demo.WithClock(reloj.now))
	return c, &buf, reloj
}

func lineas(buf *bytes.Buffer) int {
	s := strings.TrimSpace(buf.String())
	if s == "" {
		return 0
	}
	return len(strings.Split(s, "\n"))
}

func TestActivate_Idempotente(t *testing.T) {
	c, buf, _ := nuevoControlador(t)

	require.False(t, c.IsActive())
	c.Activate(demo.ReasonTablesMissing)
	require.True(t, c.IsActive())
	activacion := lineas(buf)

	// Segunda activación (incluso con otra causa): sin transición ni log nuevo
	c.Activate(demo.ReasonConnectionError)
	assert.True(t, c.IsActive())
	assert.Equal(t, activacion, lineas(buf), "una segunda activación no vuelve a loguear")
	assert.Equal(t, demo.ReasonConnectionError, c.Reason(), "la causa sí se actualiza")
}

func TestLogTableNotFound_DeduplicaPorTabla(t *testing.T) {
	c, buf, _ := nuevoControlador(t)
	c.Activate(demo.ReasonTablesMissing)
	base := lineas(buf)

	c.LogTableNotFound("doc_sales")
	c.LogTableNotFound("doc_sales")
	c.LogTableNotFound("doc_sales")
	assert.Equal(t, base+1, lineas(buf), "tres avisos de la misma tabla producen una sola línea")

	// Una tabla distinta aún loguea una vez
	c.LogTableNotFound("doc_products")
	assert.Equal(t, base+2, lineas(buf))
}

func TestLogTableNotFound_SilencioTotalTrasLaVentana(t *testing.T) {
	c, buf, reloj := nuevoControlador(t)
	c.Activate(demo.ReasonTablesMissing)
	c.LogTableNotFound("doc_sales")
	antes := lineas(buf)

	reloj.avanza(6 * time.Second)

	// Incluso una tabla nunca vista queda en silencio
	c.LogTableNotFound("doc_goals")
	assert.Equal(t, antes, lineas(buf), "pasada la ventana no se emite nada, ni tablas nuevas")
}

func TestLogTableNotFound_AntesDeActivarNoSuprime(t *testing.T) {
	c, buf, _ := nuevoControlador(t)

	c.LogTableNotFound("doc_sales")
	assert.Equal(t, 1, lineas(buf), "sin activación previa el primer aviso sí se emite")
}

func TestRemoteFailure_Clasifica(t *testing.T) {
	c, _, _ := nuevoControlador(t)

	c.RemoteFailure(&domain.TableNotFoundError{Table: "doc_sales"})
	assert.Equal(t, demo.ReasonTablesMissing, c.Reason())

	c.Reset()
	c.RemoteFailure(domain.ErrConnection)
	assert.Equal(t, demo.ReasonConnectionError, c.Reason())
}

func TestReset_VuelveAInactive(t *testing.T) {
	c, buf, _ := nuevoControlador(t)
	c.Activate(demo.ReasonConnectionError)
	c.LogTableNotFound("doc_sales")
	require.True(t, c.IsActive())

	c.Reset()
	assert.False(t, c.IsActive())
	assert.Equal(t, demo.ReasonNone, c.Reason())

	// Tras reset la tabla vuelve a loguearse (seen-set limpio)
	antes := lineas(buf)
	c.LogTableNotFound("doc_sales")
	assert.Equal(t, antes+1, lineas(buf))
}
