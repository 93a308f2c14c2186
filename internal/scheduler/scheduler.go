// Package scheduler programa el re-sondeo periódico del backend remoto. El
// paso a solo-local es monótono dentro de la sesión, así que sin este cron (o
// sin el endpoint manual) una sesión degradada nunca vuelve al remoto.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tu-usuario/negocio-pro/internal/domain/storage"
	"github.com/tu-usuario/negocio-pro/pkg/logger"
)

// Reprober lo implementa el orquestador híbrido.
type Reprober interface {
	IntegrationStatus() storage.IntegrationStatus
	Reprobe(ctx context.Context) storage.IntegrationStatus
}

// Scheduler envuelve el cron de re-sondeo.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

// New programa el re-sondeo con la expresión cron dada. Una expresión vacía
// devuelve un scheduler inerte (Start y Stop son no-ops).
func New(spec string, orch Reprober, log *logger.Logger) (*Scheduler, error) {
	s := &Scheduler{log: log}
	if spec == "" {
		return s, nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		// En estado remote no hay nada que re-sondear
		if orch.IntegrationStatus().UsingRemote {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		st := orch.Reprobe(ctx)
		if st.UsingRemote {
			log.Info().Msg("re-sondeo exitoso; la sesión vuelve al backend remoto")
		} else {
			log.Debug().Msg("re-sondeo fallido; la sesión sigue en modo solo-local")
		}
	})
	if err != nil {
		return nil, err
	}
	s.cron = c
	return s, nil
}

// Start arranca el cron.
func (s *Scheduler) Start() {
	if s.cron != nil {
		s.cron.Start()
	}
}

// Stop detiene el cron y espera los trabajos en curso.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}
