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

	appanalytics "github.com/sisas-salud/sisas-api/internal/application/analytics"
	"github.com/sisas-salud/sisas-api/internal/application/auth"
	"github.com/sisas-salud/sisas-api/internal/application/forecast"
	"github.com/sisas-salud/sisas-api/internal/application/movements"
	"github.com/sisas-salud/sisas-api/internal/application/reports"
	"github.com/sisas-salud/sisas-api/internal/application/stocks"
	"github.com/sisas-salud/sisas-api/internal/application/usecase"
	infrapdf "github.com/sisas-salud/sisas-api/internal/infrastructure/pdf"
	"github.com/sisas-salud/sisas-api/internal/infrastructure/postgres"
	httpRouter "github.com/sisas-salud/sisas-api/internal/interfaces/http"
	"github.com/sisas-salud/sisas-api/pkg/config"
	"github.com/sisas-salud/sisas-api/pkg/logger"
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

	materialRepo := postgres.NewMaterialRepository(pool)
	municipalityRepo := postgres.NewMunicipalityRepository(pool)
	stockRepo := postgres.NewMunicipalityStockRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	calculator := forecast.NewCalculator(movementRepo)
	materialUC := usecase.NewMaterialUseCase(materialRepo, calculator)
	municipalityUC := usecase.NewMunicipalityUseCase(municipalityRepo, stockRepo)
	stockQueryUC := usecase.NewStockQueryUseCase(stockRepo)
	movementQueryUC := usecase.NewMovementQueryUseCase(movementRepo)
	registerMovementUC := movements.NewRegisterMovementUseCase(txRunner, materialRepo, municipalityRepo)
	setStockUC := stocks.NewSetStockUseCase(stockRepo, materialRepo, municipalityRepo, log.Zerolog())
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo, movementRepo, userRepo, municipalityRepo)

	pdfGenerator := infrapdf.NewMarotoReportGenerator()
	reportUC := reports.NewReportUseCase(movementRepo, municipalityRepo, pdfGenerator)

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
		Title:    "SISAS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		MaterialUC:       materialUC,
		MunicipalityUC:   municipalityUC,
		StockQueryUC:     stockQueryUC,
		MovementQueryUC:  movementQueryUC,
		RegisterMovement: registerMovementUC,
		SetStock:         setStockUC,
		DashboardUC:      dashboardUC,
		ReportUC:         reportUC,
		AuthUC:           authUC,
		JWTSecret:        cfg.JWT.Secret,
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
