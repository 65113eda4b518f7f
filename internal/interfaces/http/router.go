package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/paws-pos/internal/application/analytics"
	"github.com/jhoicas/paws-pos/internal/application/auth"
	"github.com/jhoicas/paws-pos/internal/application/sales"
	"github.com/jhoicas/paws-pos/internal/application/usecase"
	"github.com/jhoicas/paws-pos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CategoryUC  *usecase.CategoryUseCase
	ProductUC   *usecase.ProductUseCase
	SaleUC      *sales.SaleUseCase
	DashboardUC *appanalytics.DashboardUseCase
}

// Middleware registra la cadena común. recover va dentro de RequestLogger para que
// un panic también deje su línea de acceso (como 500).
func Middleware(app *fiber.App, log zerolog.Logger, corsOrigins string) {
	app.Use(requestid.New())
	app.Use(RequestLogger(log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	authenticated := AuthMiddleware(deps.AuthUC)
	catalogWriters := RequireRole(entity.RoleAdmin, entity.RoleManager)

	api.Get("/users/me", authenticated, authHandler.Me)

	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := api.Group("/categories", authenticated)
	categories.Post("/", RequireRole(entity.RoleAdmin), categoryHandler.Create)
	categories.Get("/", categoryHandler.List)

	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/products", authenticated)
	products.Post("/", catalogWriters, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", catalogWriters, productHandler.Update)
	products.Delete("/:id", catalogWriters, productHandler.Delete)

	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup := api.Group("/sales", authenticated)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard/stats", authenticated, dashboardHandler.GetStats)
}
