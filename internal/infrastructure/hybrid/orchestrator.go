// Package hybrid contiene el orquestador de almacenamiento híbrido: decide por
// operación entre el backend remoto y el almacén local durable, espejando toda
// escritura primero en local. Garantía central: ningún Set puede perder datos
// aunque el remoto esté completamente inalcanzable.
package hybrid

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/internal/domain/storage"
	"github.com/tu-usuario/negocio-pro/pkg/logger"
)

var _ storage.Backend = (*Orchestrator)(nil)

// Pinger sondeo de conectividad del remoto.
type Pinger interface {
	Ping(ctx context.Context) error
}

// FailureObserver recibe cada fallo remoto clasificado. Lo implementa el
// controlador de modo demo; el orquestador no conoce esa política.
type FailureObserver interface {
	RemoteFailure(err error)
}

// Orchestrator media entre el backend local (siempre presente) y el remoto
// (opcional). El estado Remote→LocalOnly es monótono dentro de la sesión:
// ningún fallo se reintenta; solo Reprobe puede volver a Remote.
type Orchestrator struct {
	local  storage.Backend
	remote storage.Backend
	pinger Pinger
	log    *logger.Logger

	mu         sync.Mutex
	integrated bool
	connected  bool
	state      storage.ConnectionState

	observer FailureObserver
}

// Option configura el orquestador.
type Option func(*Orchestrator)

// WithFailureObserver registra el observador de fallos remotos.
func WithFailureObserver(o FailureObserver) Option {
	return func(or *Orchestrator) { or.observer = o }
}

// New construye el orquestador y sondea el remoto una sola vez: flag de
// integración + chequeo de conectividad deciden el estado inicial.
func New(ctx context.Context, local storage.Backend, remote storage.Backend, pinger Pinger, integrated bool, log *logger.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		local:      local,
		remote:     remote,
		pinger:     pinger,
		log:        log,
		integrated: integrated && remote != nil,
		state:      storage.LocalOnly,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.integrated {
		if err := pinger.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("remoto inalcanzable en el arranque; sesión en modo solo-local")
			o.notify(err)
		} else {
			o.state = storage.Remote
			o.connected = true
		}
	}
	return o
}

func (o *Orchestrator) notify(err error) {
	if o.observer != nil {
		o.observer.RemoteFailure(err)
	}
}

// usingRemote lee el estado bajo lock.
func (o *Orchestrator) usingRemote() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state == storage.Remote
}

// degrade pasa la sesión a solo-local. Idempotente.
func (o *Orchestrator) degrade(err error) {
	o.mu.Lock()
	flipped := o.state == storage.Remote
	o.state = storage.LocalOnly
	o.connected = false
	o.mu.Unlock()

	if flipped {
		o.log.Warn().Err(err).Msg("fallo remoto; el resto de la sesión usa el almacén local")
	}
	o.notify(err)
}

// Get lee key: remoto primero mientras el estado sea Remote; ante fallo de
// almacenamiento degrada y cae al local. Un ErrNotFound remoto no degrada
// (el remoto respondió); solo se consulta el local por si el dato es previo
// a la integración.
func (o *Orchestrator) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if o.usingRemote() {
		v, err := o.remote.Get(ctx, key)
		switch {
		case err == nil:
			return v, nil
		case errors.Is(err, domain.ErrNotFound):
			// sin fila remota: probar local
		default:
			o.degrade(err)
		}
	}
	return o.local.Get(ctx, key)
}

// Set escribe local primero, incondicionalmente; después intenta el remoto si
// corresponde. Un fallo remoto degrada la sesión pero la operación reporta
// éxito: la escritura local ya es durable.
func (o *Orchestrator) Set(ctx context.Context, key string, value json.RawMessage) error {
	if err := o.local.Set(ctx, key, value); err != nil {
		return err
	}
	if o.usingRemote() {
		if err := o.remote.Set(ctx, key, value); err != nil {
			o.degrade(err)
		}
	}
	return nil
}

// Remove elimina en local y, si corresponde, en remoto (misma política que Set).
func (o *Orchestrator) Remove(ctx context.Context, key string) error {
	if err := o.local.Remove(ctx, key); err != nil {
		return err
	}
	if o.usingRemote() {
		if err := o.remote.Remove(ctx, key); err != nil {
			o.degrade(err)
		}
	}
	return nil
}

// GetMany lee varias claves con la política de Get. Tras servir del remoto se
// completan del local las claves que el remoto no tiene: el local es superset
// de lo escrito en esta sesión.
func (o *Orchestrator) GetMany(ctx context.Context, keys []string) (map[string]json.RawMessage, error) {
	if o.usingRemote() {
		out, err := o.remote.GetMany(ctx, keys)
		if err == nil {
			for _, k := range keys {
				if _, ok := out[k]; ok {
					continue
				}
				if v, lerr := o.local.Get(ctx, k); lerr == nil {
					out[k] = v
				}
			}
			return out, nil
		}
		o.degrade(err)
	}
	return o.local.GetMany(ctx, keys)
}

// SetMany escribe el lote local primero (transaccional), después el remoto.
func (o *Orchestrator) SetMany(ctx context.Context, entries map[string]json.RawMessage) error {
	if err := o.local.SetMany(ctx, entries); err != nil {
		return err
	}
	if o.usingRemote() {
		if err := o.remote.SetMany(ctx, entries); err != nil {
			o.degrade(err)
		}
	}
	return nil
}

// IntegrationStatus estado observable de la integración. Nunca falla.
func (o *Orchestrator) IntegrationStatus() storage.IntegrationStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return storage.IntegrationStatus{
		Integrated:  o.integrated,
		Connected:   o.connected,
		UsingRemote: o.state == storage.Remote,
		State:       o.state,
	}
}

// Reprobe vuelve a sondear el remoto. Es el único camino de LocalOnly a
// Remote; el llamador decide cuándo invocarlo (manual o cron). No sincroniza
// la divergencia acumulada: solo re-habilita el enrutamiento.
func (o *Orchestrator) Reprobe(ctx context.Context) storage.IntegrationStatus {
	o.mu.Lock()
	integrated := o.integrated
	o.mu.Unlock()

	if !integrated {
		return o.IntegrationStatus()
	}

	if err := o.pinger.Ping(ctx); err != nil {
		o.mu.Lock()
		o.connected = false
		o.mu.Unlock()
		o.log.Warn().Err(err).Msg("re-sondeo del remoto falló; se mantiene solo-local")
		return o.IntegrationStatus()
	}

	o.mu.Lock()
	wasLocal := o.state == storage.LocalOnly
	o.state = storage.Remote
	o.connected = true
	o.mu.Unlock()

	if wasLocal {
		o.log.Info().Msg("remoto disponible de nuevo; enrutamiento restablecido")
	}
	return o.IntegrationStatus()
}
