package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sewnstudio/atelier-backend/api/routes"
	"github.com/sewnstudio/atelier-backend/internal/auth"
	cartsvc "github.com/sewnstudio/atelier-backend/internal/cart"
	"github.com/sewnstudio/atelier-backend/internal/catalog"
	checkoutsvc "github.com/sewnstudio/atelier-backend/internal/checkout"
	"github.com/sewnstudio/atelier-backend/internal/measurements"
	"github.com/sewnstudio/atelier-backend/internal/orders"
	"github.com/sewnstudio/atelier-backend/internal/users"
	"github.com/sewnstudio/atelier-backend/pkg/auth/session"
	"github.com/sewnstudio/atelier-backend/pkg/config"
	"github.com/sewnstudio/atelier-backend/pkg/db"
	"github.com/sewnstudio/atelier-backend/pkg/logger"
	"github.com/sewnstudio/atelier-backend/pkg/metrics"
	"github.com/sewnstudio/atelier-backend/pkg/migrate"
	"github.com/sewnstudio/atelier-backend/pkg/outbox"
	"github.com/sewnstudio/atelier-backend/pkg/redis"
	"github.com/sewnstudio/atelier-backend/pkg/wallet"
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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
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

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		Tx:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	measurementsService, err := measurements.NewService(dbClient, measurements.NewRepository(dbClient.DB()), cfg.Measurements, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create measurements service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartsvc.ServiceParams{
		Tx:       dbClient,
		Repo:     cartsvc.NewRepository(dbClient.DB()),
		Catalog:  catalogService,
		Profiles: measurementsService,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	var walletClient *wallet.Client
	if strings.TrimSpace(cfg.Wallet.AccessToken) != "" {
		walletClient, err = wallet.NewClient(context.Background(), cfg.Wallet, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create wallet client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "wallet credentials missing, prepaid checkout disabled")
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Tx:     dbClient,
		Repo:   orders.NewRepository(dbClient.DB()),
		Outbox: outboxService,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutParams := checkoutsvc.ServiceParams{
		Tx:           dbClient,
		CartRepo:     cartsvc.NewRepository(dbClient.DB()),
		OrderRepo:    orders.NewRepository(dbClient.DB()),
		Outbox:       outboxService,
		WalletConfig: cfg.Wallet,
		Metrics:      metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer),
		Logger:       logg,
	}
	if walletClient != nil {
		checkoutParams.Wallet = walletClient
	}
	checkoutService, err := checkoutsvc.NewService(checkoutParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

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
		Handler: routes.NewRouter(
			cfg,
			logg,
			redisClient,
			sessionManager,
			authService,
			registerService,
			catalogService,
			measurementsService,
			cartService,
			checkoutService,
			ordersService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
