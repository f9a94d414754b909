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

	"github.com/jhoicas/tienda-api/docs"
	"github.com/jhoicas/tienda-api/internal/application/auth"
	"github.com/jhoicas/tienda-api/internal/application/listing"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda-api/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/tienda-api/internal/interfaces/http"
	"github.com/jhoicas/tienda-api/pkg/config"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// @title                      Tienda API
// @version                    1.0
// @description                Catálogo de categorías y productos, pedidos e historial con autenticación JWT.
// @BasePath                   /
// @securityDefinitions.apikey Bearer
// @in                         header
// @name                       Authorization
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
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		repos    usecase.Repositories
		txRunner usecase.TxRunner
		closeDB  func()
	)
	switch cfg.DB.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.DB.SQLitePath, cfg.DB.AutoMigrate)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DB.SQLitePath).Msg("apertura de SQLite")
		}
		repos = sqlite.NewRepositories(db)
		txRunner = sqlite.NewTxRunner(db)
		closeDB = func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		if cfg.DB.AutoMigrate {
			applied, err := postgres.Migrate(ctx, pool)
			if err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			for _, name := range applied {
				log.Info().Str("migration", name).Msg("migración aplicada")
			}
		}
		repos = postgres.NewRepositories(pool)
		txRunner = postgres.NewTxRunner(pool)
		closeDB = pool.Close
	}
	defer closeDB()

	ownerScope := cfg.Orders.HistoryScope == config.HistoryScopeOwner
	if !ownerScope {
		log.Warn().Msg("historial de pedidos sin filtrar por usuario (ORDERS_HISTORY_SCOPE=all)")
	}

	categoryUC := usecase.NewCategoryUseCase(repos.Categories)
	productUC := usecase.NewProductUseCase(txRunner, repos.Products)
	orderUC := usecase.NewOrderUseCase(txRunner, repos.Orders, ownerScope)
	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		AccessTTL:  time.Duration(cfg.JWT.AccessMinutes) * time.Minute,
		RefreshTTL: time.Duration(cfg.JWT.RefreshMinutes) * time.Minute,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.NewErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.Metrics())
	app.Use(httpRouter.AccessLog(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    docs.SwaggerInfo.Title,
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		CategoryUC: categoryUC,
		ProductUC:  productUC,
		OrderUC:    orderUC,
		AuthUC:     authUC,
		Pagination: listing.Pagination{
			PageSize:    cfg.Pagination.PageSize,
			MaxPageSize: cfg.Pagination.MaxPageSize,
		},
		AppName: cfg.App.Name,
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
