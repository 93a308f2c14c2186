// Package remote implementa el backend remoto (PostgreSQL gestionado) y el
// handle de cliente único por proceso que lo posee.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/internal/domain/storage"
	"github.com/tu-usuario/negocio-pro/pkg/config"
	"github.com/tu-usuario/negocio-pro/pkg/logger"
)

// Handle cliente remoto. Se construye a lo sumo una vez por proceso y no se
// muta después de la construcción; solo ResetClient lo reemplaza (tests).
type Handle struct {
	pool       *pgxpool.Pool
	projectRef string
}

// Pool expone el pool subyacente para los adaptadores de este paquete.
func (h *Handle) Pool() *pgxpool.Pool { return h.pool }

// ProjectRef identificador del proyecto remoto al que pertenece el handle.
func (h *Handle) ProjectRef() string { return h.projectRef }

// Ping verifica conectividad con el remoto.
func (h *Handle) Ping(ctx context.Context) error {
	if err := h.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}
	return nil
}

// Close cierra el pool.
func (h *Handle) Close() { h.pool.Close() }

// sessionStore operaciones del almacén local que necesita la purga de sesiones.
type sessionStore interface {
	storage.KeyLister
	Set(ctx context.Context, key string, value json.RawMessage) error
	Remove(ctx context.Context, key string) error
}

var (
	clientMu sync.Mutex
	client   *Handle
)

// Client devuelve el handle remoto del proceso, construyéndolo en la primera
// llamada. Una segunda llamada devuelve el handle ya construido; si la
// configuración difiere del handle vigente, el intento de forzar una segunda
// construcción se rechaza con un warning (no con error) y se devuelve el
// handle existente.
//
// Un error de construcción se reporta como domain.ErrConfiguration y no deja
// nada cacheado, así que la siguiente llamada puede reintentar.
func Client(ctx context.Context, cfg config.RemoteConfig, local sessionStore, log *logger.Logger) (*Handle, error) {
	clientMu.Lock()
	defer clientMu.Unlock()

	if client != nil {
		if client.projectRef != cfg.ProjectRef() {
			log.Warn().
				Str("handle", client.projectRef).
				Str("solicitado", cfg.ProjectRef()).
				Msg("ya existe un handle remoto para este proceso; se reutiliza el existente")
		}
		return client, nil
	}

	h, err := newHandle(ctx, cfg, local, log)
	if err != nil {
		return nil, err
	}
	client = h
	return client, nil
}

// ResetClient descarta el handle cacheado. Solo para teardown de tests.
func ResetClient() {
	clientMu.Lock()
	defer clientMu.Unlock()
	if client != nil {
		client.Close()
		client = nil
	}
}

func newHandle(ctx context.Context, cfg config.RemoteConfig, local sessionStore, log *logger.Logger) (*Handle, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}

	ref := cfg.ProjectRef()
	if ref == "" {
		return nil, fmt.Errorf("%w: URL remota sin host", domain.ErrConfiguration)
	}

	// Purgar sesiones/credenciales de otros proyectos antes de construir el
	// handle: evita colisiones silenciosas de autenticación entre sesiones.
	if err := purgeStaleSessions(ctx, local, ref, log); err != nil {
		log.Warn().Err(err).Msg("no se pudieron purgar sesiones locales obsoletas")
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 0 // la conexión se establece perezosamente; el sondeo es del orquestador
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	// Codec NUMERIC/DECIMAL -> shopspring/decimal en todas las conexiones.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}

	h := &Handle{pool: pool, projectRef: ref}

	// Marcar la sesión vigente con clave namespaced a este proyecto.
	marker, _ := json.Marshal(map[string]string{"project_ref": ref})
	if err := local.Set(ctx, sessionKey(ref), marker); err != nil {
		log.Warn().Err(err).Msg("no se pudo registrar la sesión local")
	}

	log.Info().Str("project_ref", ref).Msg("handle remoto construido")
	return h, nil
}

func sessionKey(ref string) string {
	return storage.SessionKeyPrefix + ref
}

// purgeStaleSessions borra del almacén local toda clave de sesión que
// pertenezca a un proyecto remoto distinto del configurado.
func purgeStaleSessions(ctx context.Context, local sessionStore, ref string, log *logger.Logger) error {
	keys, err := local.Keys(ctx, storage.SessionKeyPrefix)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if strings.TrimPrefix(k, storage.SessionKeyPrefix) == ref {
			continue
		}
		if err := local.Remove(ctx, k); err != nil {
			return err
		}
		log.Info().Str("key", k).Msg("sesión local de otro proyecto purgada")
	}
	return nil
}
