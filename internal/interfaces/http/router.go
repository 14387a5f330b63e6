package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dfmorales/puntoventa-api/internal/application/auth"
	"github.com/dfmorales/puntoventa-api/internal/application/inventory"
	"github.com/dfmorales/puntoventa-api/internal/application/layaway"
	"github.com/dfmorales/puntoventa-api/internal/application/receipts"
	"github.com/dfmorales/puntoventa-api/internal/application/reports"
	"github.com/dfmorales/puntoventa-api/internal/application/sales"
	"github.com/dfmorales/puntoventa-api/internal/application/usecase"
	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC *usecase.ProductUseCase
	LedgerUC  *inventory.LedgerUseCase
	SaleUC    *sales.SaleUseCase
	LayawayUC *layaway.LayawayUseCase
	ReportUC  *reports.ReportUseCase
	ReceiptUC *receipts.ReceiptUseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
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

	// Products (protegido; edición solo admin/bodeguero)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.Create)
	products.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.Update)

	// Stock ledger (protegido; movimientos manuales solo admin/bodeguero)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.LedgerUC)
	stock.Post("/movements", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), stockHandler.RegisterMovement)
	stock.Get("/:product_id", stockHandler.GetStock)
	stock.Get("/:product_id/movements", stockHandler.ListMovements)

	// Sales (protegido; anulación solo admin)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, deps.ReceiptUC)
	salesGroup.Post("/", saleHandler.Commit)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
	salesGroup.Put("/:id/payments", saleHandler.EditPayments)
	salesGroup.Post("/:id/void", RequireRole(entity.RoleAdmin), saleHandler.Void)

	// Layaways (protegido)
	layaways := protected.Group("/layaways")
	layawayHandler := NewLayawayHandler(deps.LayawayUC, deps.ReceiptUC)
	layaways.Post("/", layawayHandler.Create)
	layaways.Get("/", layawayHandler.List)
	layaways.Get("/:id", layawayHandler.GetByID)
	layaways.Get("/:id/statement", layawayHandler.Statement)
	layaways.Post("/:id/payments", layawayHandler.AddPayment)
	layaways.Post("/:id/close", layawayHandler.Close)

	// Reports (protegido, solo admin)
	reportsGroup := protected.Group("/reports", RequireRole(entity.RoleAdmin))
	reportHandler := NewReportHandler(deps.ReportUC)
	reportsGroup.Get("/sales-summary", reportHandler.SalesSummary)
	reportsGroup.Get("/open-layaways", reportHandler.OpenLayaways)
}
