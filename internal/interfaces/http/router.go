package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Vendas-api/internal/application/auth"
	"github.com/jhoicas/Vendas-api/internal/application/catalog"
	"github.com/jhoicas/Vendas-api/internal/application/goals"
	"github.com/jhoicas/Vendas-api/internal/application/reports"
	"github.com/jhoicas/Vendas-api/internal/application/sales"
	"github.com/jhoicas/Vendas-api/internal/application/users"
	"github.com/jhoicas/Vendas-api/internal/domain/role"
)

// Pinger comprueba la disponibilidad del almacenamiento para /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	CatalogUC      *catalog.UseCase
	CheckoutUC     *sales.CheckoutUseCase
	SalesQuery     *sales.QueryUseCase
	Gate           *users.Gate
	GoalsUC        *goals.UseCase
	ReportsUC      *reports.UseCase
	Health         Pinger
	Roles          RoleSource
	ServiceName    string
	JWTSecret      string
	RequestTimeout time.Duration
}

// Rutas que una cuenta con contraseña temporal puede usar.
var passwordRotationPaths = []string{"/api/me", "/api/me/password"}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps))

	api := app.Group("/api", RequestTimeout(deps.RequestTimeout))

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequirePasswordRotated(passwordRotationPaths...))
	adminOnly := RequireMinRole(role.Admin, deps.Roles)

	me := protected.Group("/me")
	me.Get("/", authHandler.Me)
	me.Post("/password", authHandler.ChangePassword)
	me.Put("/presence", authHandler.SetPresence)

	// Catálogo: lectura para todos, mutaciones desde admin
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.CatalogUC)
	items.Get("/available", itemHandler.Available)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.Get)
	items.Post("/", adminOnly, itemHandler.Create)
	items.Put("/:id", adminOnly, itemHandler.Update)
	items.Post("/:id/restock", adminOnly, itemHandler.Restock)
	items.Delete("/:id", adminOnly, itemHandler.Delete)

	// Libro de ventas
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CheckoutUC, deps.SalesQuery)
	salesGroup.Post("/checkout", saleHandler.Checkout)
	salesGroup.Get("/", saleHandler.List)

	// Puerta de autorización
	usersGroup := protected.Group("/users")
	userHandler := NewUserHandler(deps.Gate)
	usersGroup.Get("/online", userHandler.Online)
	usersGroup.Get("/", adminOnly, userHandler.List)
	usersGroup.Post("/", adminOnly, userHandler.Create)
	usersGroup.Put("/:id/role", adminOnly, userHandler.ChangeRole)
	usersGroup.Delete("/:id", adminOnly, userHandler.Delete)
	usersGroup.Post("/:id/deactivate", adminOnly, userHandler.Deactivate)
	usersGroup.Post("/:id/reactivate", adminOnly, userHandler.Reactivate)

	// Metas
	goalsGroup := protected.Group("/goals")
	goalHandler := NewGoalHandler(deps.GoalsUC)
	goalsGroup.Get("/", goalHandler.List)
	goalsGroup.Post("/", goalHandler.Create)
	goalsGroup.Get("/:id", goalHandler.Get)
	goalsGroup.Delete("/:id", goalHandler.Delete)

	// Reportes
	reportsGroup := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportsUC)
	reportsGroup.Get("/me", reportHandler.Mine)
	reportsGroup.Get("/summary", adminOnly, reportHandler.Summary)
	reportsGroup.Get("/summary.pdf", adminOnly, reportHandler.SummaryPDF)
}

func healthHandler(deps RouterDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Health != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := deps.Health.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": deps.ServiceName})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	}
}
