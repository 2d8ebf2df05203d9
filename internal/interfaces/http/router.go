package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sisas-salud/sisas-api/internal/application/analytics"
	"github.com/sisas-salud/sisas-api/internal/application/auth"
	"github.com/sisas-salud/sisas-api/internal/application/movements"
	"github.com/sisas-salud/sisas-api/internal/application/reports"
	"github.com/sisas-salud/sisas-api/internal/application/stocks"
	"github.com/sisas-salud/sisas-api/internal/application/usecase"
	"github.com/sisas-salud/sisas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MaterialUC       *usecase.MaterialUseCase
	MunicipalityUC   *usecase.MunicipalityUseCase
	StockQueryUC     *usecase.StockQueryUseCase
	MovementQueryUC  *usecase.MovementQueryUseCase
	RegisterMovement *movements.RegisterMovementUseCase
	SetStock         *stocks.SetStockUseCase
	DashboardUC      *analytics.DashboardUseCase
	ReportUC         *reports.ReportUseCase
	AuthUC           *auth.AuthUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	// consultor es solo lectura; las escrituras exigen administrador o usuario
	writer := RequireRole(entity.RoleAdministrador, entity.RoleUsuario)

	// Materiales (catálogo con pronóstico de demanda)
	medications := protected.Group("/medications")
	materialHandler := NewMaterialHandler(deps.MaterialUC)
	medications.Get("/", materialHandler.List)
	medications.Get("/:id", materialHandler.GetByID)
	medications.Post("/", writer, materialHandler.Create)
	medications.Put("/:id", writer, materialHandler.Update)
	medications.Delete("/:id", RequireRole(entity.RoleAdministrador), materialHandler.Delete)

	// Municipios
	municipalities := protected.Group("/municipalities")
	municipalityHandler := NewMunicipalityHandler(deps.MunicipalityUC)
	municipalities.Get("/", municipalityHandler.List)
	municipalities.Get("/:id", municipalityHandler.GetByID)
	municipalities.Get("/:id/stock", municipalityHandler.TotalStock)
	municipalities.Get("/:id/stocks", municipalityHandler.Stocks)
	municipalities.Post("/", writer, municipalityHandler.Create)
	municipalities.Put("/:id", writer, municipalityHandler.Update)
	municipalities.Delete("/:id", RequireRole(entity.RoleAdministrador), municipalityHandler.Delete)

	// Stock por municipio (consulta + corrección directa)
	stocksGroup := protected.Group("/municipality-stocks")
	stockHandler := NewStockHandler(deps.SetStock, deps.StockQueryUC)
	stocksGroup.Get("/", stockHandler.List)
	stocksGroup.Get("/summary", stockHandler.Summary)
	stocksGroup.Post("/", writer, stockHandler.Set)

	// Libro de movimientos
	movementsGroup := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.RegisterMovement, deps.MovementQueryUC)
	reportHandler := NewReportHandler(deps.ReportUC)
	movementsGroup.Get("/", movementHandler.List)
	movementsGroup.Post("/", writer, movementHandler.Register)
	movementsGroup.Post("/bulk", writer, movementHandler.RegisterBulk)
	movementsGroup.Post("/dispatch-report", writer, reportHandler.Dispatch)

	// Dashboard
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/stats", dashboardHandler.Stats)
	dashboard.Get("/charts", dashboardHandler.Charts)

	// Reportes
	reportsGroup := protected.Group("/reports")
	reportsGroup.Get("/municipality", reportHandler.Monthly)
	reportsGroup.Get("/municipality/pdf", reportHandler.MonthlyPDF)
}
