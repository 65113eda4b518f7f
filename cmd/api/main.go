package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	_ "github.com/jhoicas/paws-pos/docs"
	appanalytics "github.com/jhoicas/paws-pos/internal/application/analytics"
	"github.com/jhoicas/paws-pos/internal/application/auth"
	"github.com/jhoicas/paws-pos/internal/application/sales"
	"github.com/jhoicas/paws-pos/internal/application/usecase"
	"github.com/jhoicas/paws-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/paws-pos/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/paws-pos/internal/interfaces/http"
	"github.com/jhoicas/paws-pos/pkg/clock"
	"github.com/jhoicas/paws-pos/pkg/config"
	"github.com/jhoicas/paws-pos/pkg/jwt"
	"github.com/jhoicas/paws-pos/pkg/logger"
)

// @title                       Paws POS API
// @version                     1.0
// @description                 Punto de venta para tienda de mascotas: catálogo, ventas con control de stock y dashboard.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	appLog := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log := appLog.Zerolog()
	log.Info().
		Str("env", cfg.App.Env).
		Str("timezone", cfg.App.Timezone).
		Msg("iniciando aplicación")

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}
	clk := clock.New(loc)

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, postgres.MigrateUp, log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool, postgres.DefaultRetryPolicy(), log)

	// Imágenes: S3 si hay bucket configurado; si no, se guardan en línea (image_base64).
	var images usecase.ImageStore
	if cfg.S3.Enabled() {
		s3Store, err := storage.NewS3ImageStore(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente S3")
		}
		images = s3Store
	}

	authUC := auth.NewAuthUseCase(userRepo, auth.Config{
		JWT: jwt.Config{
			Secret:    cfg.JWT.Secret,
			Algorithm: cfg.JWT.Algorithm,
			Issuer:    cfg.JWT.Issuer,
			TTL:       time.Duration(cfg.JWT.Expiration) * time.Minute,
		},
	}, clk, log)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, clk, log)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, images, clk, log)
	saleUC := sales.NewSaleUseCase(txRunner, saleRepo, userRepo, analyticsRepo, sales.Config{
		PricePolicy: sales.PricePolicy(cfg.Sale.PricePolicy),
	}, clk, log)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo, clk)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    8 * 1024 * 1024,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	httpRouter.Middleware(app, log, cfg.HTTP.CORSOrigins)

	// Swagger UI: http://localhost:<port>/docs
	if cfg.HTTP.SwaggerEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Paws POS API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CategoryUC:  categoryUC,
		ProductUC:   productUC,
		SaleUC:      saleUC,
		DashboardUC: dashboardUC,
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
