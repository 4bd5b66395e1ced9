package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/resortes-api/internal/application/auth"
	"github.com/jhoicas/resortes-api/internal/application/inventory"
	"github.com/jhoicas/resortes-api/internal/domain/label"
	"github.com/jhoicas/resortes-api/internal/domain/repository"
	"github.com/jhoicas/resortes-api/internal/infrastructure/memory"
	"github.com/jhoicas/resortes-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/resortes-api/internal/infrastructure/pdf"
	"github.com/jhoicas/resortes-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/resortes-api/internal/interfaces/http"
	"github.com/jhoicas/resortes-api/pkg/config"
	"github.com/jhoicas/resortes-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	var ledger repository.LedgerRepository
	switch cfg.Store.Driver {
	case "memory":
		log.Warn().Msg("ledger en memoria: los movimientos se pierden al reiniciar")
		ledger = memory.NewLedgerRepository()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		ledger = postgres.NewLedgerRepository(pool)
	}

	if missing := cfg.SMTP.Missing(); len(missing) > 0 {
		log.Warn().Strs("missing", missing).Msg("notificaciones por correo deshabilitadas")
	}
	if !cfg.Admin.Enabled() {
		log.Warn().Msg("ADMIN_PIN no configurado: la administración queda cerrada")
	} else if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: no se podrán emitir tokens de administración")
	}

	notifier := notify.NewSMTPNotifier(cfg.SMTP, log.Zerolog())
	layout := label.DefaultLayout
	layout.WidthMM = cfg.Label.WidthMM
	layout.HeightMM = cfg.Label.HeightMM
	layout.QRSizeMM = cfg.Label.QRMM

	stockUC := inventory.NewStockUseCase(ledger, notifier, infrapdf.NewMarotoLabelGenerator(), inventory.Options{
		OrderLetters: cfg.Order.Letters,
		LabelLayout:  layout,
	}, log.Zerolog())

	authUC := auth.NewAuthUseCase(
		auth.PINConfig{PIN: cfg.Admin.PIN, PINHash: cfg.Admin.PINHash},
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Resortes API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:   stockUC,
		Sessions:  inventory.NewSessionRegistry(inventory.DefaultSessionTTL),
		AuthUC:    authUC,
		JWTSecret: cfg.JWT.Secret,
		StoreName: cfg.Store.Driver,
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
