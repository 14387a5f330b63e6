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

	"github.com/dfmorales/puntoventa-api/internal/application/auth"
	"github.com/dfmorales/puntoventa-api/internal/application/inventory"
	applayaway "github.com/dfmorales/puntoventa-api/internal/application/layaway"
	"github.com/dfmorales/puntoventa-api/internal/application/receipts"
	appreports "github.com/dfmorales/puntoventa-api/internal/application/reports"
	appsales "github.com/dfmorales/puntoventa-api/internal/application/sales"
	"github.com/dfmorales/puntoventa-api/internal/application/usecase"
	"github.com/dfmorales/puntoventa-api/internal/infrastructure/cache"
	infrapdf "github.com/dfmorales/puntoventa-api/internal/infrastructure/pdf"
	"github.com/dfmorales/puntoventa-api/internal/infrastructure/postgres"
	httpRouter "github.com/dfmorales/puntoventa-api/internal/interfaces/http"
	"github.com/dfmorales/puntoventa-api/pkg/config"
	"github.com/dfmorales/puntoventa-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	layawayRepo := postgres.NewLayawayRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := inventory.NewLedgerUseCase(txRunner, movementRepo, productRepo, cfg.POS.AllowNegativeStock)
	saleUC := appsales.NewSaleUseCase(txRunner, ledgerUC, saleRepo, paymentRepo, productRepo)
	layawayUC := applayaway.NewLayawayUseCase(txRunner, saleUC, productRepo, layawayRepo, paymentRepo, cfg.POS.LayawayCloseThreshold)
	productUC := usecase.NewProductUseCase(productRepo)

	// Cache de reportes: redis si está configurado, noop si no.
	var summaryCache appreports.SummaryCache = appreports.NoopSummaryCache{}
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisSummaryCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis no disponible, reportes sin cache")
		} else {
			defer redisCache.Close()
			summaryCache = redisCache
		}
	}
	reportUC := appreports.NewReportUseCase(reportRepo, summaryCache)

	pdfGenerator := infrapdf.NewMarotoReceiptGenerator(cfg.App.Name)
	receiptUC := receipts.NewReceiptUseCase(saleRepo, paymentRepo, productRepo, layawayRepo, pdfGenerator)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "PuntoVenta API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC: productUC,
		LedgerUC:  ledgerUC,
		SaleUC:    saleUC,
		LayawayUC: layawayUC,
		ReportUC:  reportUC,
		ReceiptUC: receiptUC,
		AuthUC:    authUC,
		JWTSecret: cfg.JWT.Secret,
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
