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
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/Vendas-api/internal/application/auth"
	"github.com/jhoicas/Vendas-api/internal/application/catalog"
	"github.com/jhoicas/Vendas-api/internal/application/goals"
	"github.com/jhoicas/Vendas-api/internal/application/ports"
	"github.com/jhoicas/Vendas-api/internal/application/reports"
	"github.com/jhoicas/Vendas-api/internal/application/sales"
	"github.com/jhoicas/Vendas-api/internal/application/users"
	infrapdf "github.com/jhoicas/Vendas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Vendas-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Vendas-api/internal/infrastructure/redis"
	"github.com/jhoicas/Vendas-api/internal/infrastructure/webhook"
	httpRouter "github.com/jhoicas/Vendas-api/internal/interfaces/http"
	"github.com/jhoicas/Vendas-api/pkg/config"
	"github.com/jhoicas/Vendas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	if cfg.Migrations.Enabled {
		if err := postgres.RunMigrations(cfg, log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	goalRepo := postgres.NewGoalRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Eventos push: sin REDIS_URL se descartan
	var publisher ports.EventPublisher = ports.NopPublisher{}
	if cfg.Redis.URL != "" {
		rdb, err := infraredis.NewClient(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		publisher = infraredis.NewPublisher(rdb, cfg.Redis.Channel)
		log.Info().Str("channel", cfg.Redis.Channel).Msg("publicación de eventos activa")
	}

	loc, err := time.LoadLocation(cfg.Webhook.TimeZone)
	if err != nil {
		log.Warn().Err(err).Str("tz", cfg.Webhook.TimeZone).Msg("zona horaria del webhook, se usa UTC")
		loc = time.UTC
	}
	sender := webhook.NewSender(webhook.Config{
		Username:  cfg.Webhook.Username,
		AvatarURL: cfg.Webhook.AvatarURL,
		Timeout:   cfg.Sales.NotifyTimeout,
	}, webhook.NewFormatter(loc), nil)

	checkoutUC := sales.NewCheckoutUseCase(txRunner, userRepo, settingsRepo, publisher, sender, sales.Config{
		DefaultCommissionRate: cfg.Sales.CommissionRate,
		LowStockThreshold:     cfg.Sales.LowStockThreshold,
		NotifyTimeout:         cfg.Sales.NotifyTimeout,
	}, log)

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
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Vendas API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("documento OpenAPI no encontrado, /docs desactivado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		CatalogUC:      catalog.NewUseCase(itemRepo, userRepo),
		Roles:          httpRouter.StoredRoles{Users: userRepo},
		CheckoutUC:     checkoutUC,
		SalesQuery:     sales.NewQueryUseCase(saleRepo, userRepo),
		Gate:           users.NewGate(userRepo, saleRepo, log),
		GoalsUC:        goals.NewUseCase(goalRepo, saleRepo, userRepo),
		ReportsUC:      reports.NewUseCase(analyticsRepo, userRepo, infrapdf.NewSummaryRenderer(cfg.App.Name)),
		Health:         txRunner,
		ServiceName:    cfg.App.Name,
		JWTSecret:      cfg.JWT.Secret,
		RequestTimeout: cfg.HTTP.RequestTimeout,
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
	// Notificaciones pendientes (webhook, eventos) de ventas ya confirmadas
	checkoutUC.Wait()

	log.Info().Msg("aplicación detenida")
}
