package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-api/internal/application/ledger"
	"github.com/tu-usuario/almacen-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC      *usecase.ProductUseCase
	NotificationUC *usecase.NotificationUseCase
	LedgerUC       *ledger.LedgerUseCase
	IntakeUC       *ledger.IntakeUseCase
	JWTSecret      string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las
// operaciones destructivas o de administración exigen además rol admin,
// reflejando el reparto admin/operario de la aplicación.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Catálogo
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole("admin"), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:sku", productHandler.GetBySKU)
	products.Put("/:sku", RequireRole("admin"), productHandler.Update)
	products.Delete("/:sku", RequireRole("admin"), productHandler.Delete)

	// Libro de movimientos y proyección de stock
	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.LedgerUC)
	movements.Post("/", movementHandler.Register)
	movements.Get("/", movementHandler.List)
	movements.Post("/manual-count", movementHandler.ManualCount)
	movements.Delete("/:id", RequireRole("admin"), movementHandler.Reverse)

	api.Get("/stock", movementHandler.GetStock)
	api.Post("/stock/rebuild", RequireRole("admin"), movementHandler.RebuildStock)

	// Entradas pendientes (aprobación solo admin)
	intakes := api.Group("/intakes")
	intakeHandler := NewIntakeHandler(deps.IntakeUC)
	intakes.Post("/", intakeHandler.Enqueue)
	intakes.Get("/", intakeHandler.List)
	intakes.Post("/:id/approve", RequireRole("admin"), intakeHandler.Approve)

	// Avisos
	notifications := api.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications.Get("/", notificationHandler.List)
	notifications.Patch("/read-all", notificationHandler.MarkAllRead)
	notifications.Patch("/:id/read", notificationHandler.MarkRead)
}
