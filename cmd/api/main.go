package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gmml-lab/inventory-backend/api/controllers"
	"github.com/gmml-lab/inventory-backend/api/routes"
	"github.com/gmml-lab/inventory-backend/internal/activity"
	"github.com/gmml-lab/inventory-backend/internal/auth"
	"github.com/gmml-lab/inventory-backend/internal/categories"
	"github.com/gmml-lab/inventory-backend/internal/inventory"
	"github.com/gmml-lab/inventory-backend/internal/locations"
	"github.com/gmml-lab/inventory-backend/internal/users"
	"github.com/gmml-lab/inventory-backend/pkg/auth/session"
	"github.com/gmml-lab/inventory-backend/pkg/config"
	"github.com/gmml-lab/inventory-backend/pkg/db"
	"github.com/gmml-lab/inventory-backend/pkg/db/models"
	"github.com/gmml-lab/inventory-backend/pkg/logger"
	"github.com/gmml-lab/inventory-backend/pkg/metrics"
	"github.com/gmml-lab/inventory-backend/pkg/migrate"
	"github.com/gmml-lab/inventory-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if cfg.FeatureFlags.UseSQLite {
		// goose migrations target postgres; sqlite installs schema via gorm.
		if err := dbClient.DB().AutoMigrate(
			&models.Profile{},
			&models.Category{},
			&models.StorageLocation{},
			&models.InventoryItem{},
			&models.ActivityLog{},
		); err != nil {
			logg.Error(context.Background(), "failed to auto-migrate sqlite schema", err)
			os.Exit(1)
		}
	} else if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	usersService, err := users.NewService(usersRepo, cfg.Auth.AdminEmailSet())
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	identityProvider, err := auth.NewGoogleProvider(cfg.Auth)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity provider", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		IdentityProvider: identityProvider,
		UsersService:     usersService,
		ProfileRepo:      usersRepo,
		SessionManager:   sessionManager,
		JWTConfig:        cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	activityRepo := activity.NewRepository(dbClient.DB())
	activityService, err := activity.NewService(activityRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create activity service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventory.NewRepository(dbClient.DB()), usersRepo, activityRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	categoriesService, err := categories.NewService(categories.NewRepository(dbClient.DB()), dbClient, usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create categories service", err)
		os.Exit(1)
	}

	locationsService, err := locations.NewService(locations.NewRepository(dbClient.DB()), dbClient, usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create locations service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, sessionManager, httpMetrics,
			map[string]controllers.Pinger{
				"database": dbClient,
				"redis":    redisClient,
			},
			routes.Services{
				Auth:       authService,
				Users:      usersService,
				Inventory:  inventoryService,
				Categories: categoriesService,
				Locations:  locationsService,
				Activity:   activityService,
			},
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
