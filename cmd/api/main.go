package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/negocio-pro/internal/application/demo"
	"github.com/tu-usuario/negocio-pro/internal/application/store"
	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/internal/domain/storage"
	"github.com/tu-usuario/negocio-pro/internal/infrastructure/hybrid"
	"github.com/tu-usuario/negocio-pro/internal/infrastructure/localdb"
	"github.com/tu-usuario/negocio-pro/internal/infrastructure/remote"
	httpRouter "github.com/tu-usuario/negocio-pro/internal/interfaces/http"
	"github.com/tu-usuario/negocio-pro/internal/scheduler"
	"github.com/tu-usuario/negocio-pro/pkg/config"
	"github.com/tu-usuario/negocio-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil && (cfg == nil || !errors.Is(err, domain.ErrConfiguration)) {
		panic("cargar configuración: " + err.Error())
	}
	configErr := err

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	local, err := localdb.Open(cfg.Local.Path, cfg.Local.MaxKeys)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén local")
	}
	defer local.Close()

	demoCtrl := demo.New(log)

	// Una URL remota malformada es fatal para el uso del remoto en la sesión,
	// no para la app: se descarta la configuración remota y se arranca en
	// modo solo-local.
	if configErr != nil {
		log.Warn().Err(configErr).Msg("configuración remota inválida; sesión en modo solo-local")
		demoCtrl.RemoteFailure(configErr)
		cfg.Remote = config.RemoteConfig{}
	}

	// El remoto es opcional: sin URL o con la integración apagada la sesión
	// arranca directamente en modo solo-local.
	var (
		remoteBackend storage.Backend
		pinger        hybrid.Pinger
	)
	if cfg.Remote.DatabaseURL != "" && cfg.Remote.Integration {
		handle, err := remote.Client(ctx, cfg.Remote, local, log)
		if err != nil {
			log.Warn().Err(err).Msg("cliente remoto no disponible; sesión en modo solo-local")
			demoCtrl.RemoteFailure(err)
		} else {
			defer handle.Close()
			remoteBackend = remote.NewBackend(handle)
			pinger = handle
		}
	}

	orchestrator := hybrid.New(ctx, local, remoteBackend, pinger, cfg.Remote.Integration, log,
		hybrid.WithFailureObserver(demoCtrl))

	stateStore := store.New(orchestrator, demoCtrl, log)
	if err := stateStore.LoadAll(ctx); err != nil {
		// La app sigue arrancando: el StateStore ya activó el modo demo y
		// sembró las colecciones.
		log.Warn().Err(err).Msg("carga inicial incompleta")
	}

	sched, err := scheduler.New(cfg.Sync.ReprobeCron, orchestrator, log)
	if err != nil {
		log.Fatal().Err(err).Str("cron", cfg.Sync.ReprobeCron).Msg("expresión de re-sondeo inválida")
	}
	sched.Start()
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Store:        stateStore,
		Orchestrator: orchestrator,
		Demo:         demoCtrl,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
