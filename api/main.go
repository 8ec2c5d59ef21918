package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/auth"
	"github.com/rogerio-castellano/storefront-crm/internal/catalog"
	"github.com/rogerio-castellano/storefront-crm/internal/checkout"
	"github.com/rogerio-castellano/storefront-crm/internal/config"
	"github.com/rogerio-castellano/storefront-crm/internal/db"
	api "github.com/rogerio-castellano/storefront-crm/internal/http"
	"github.com/rogerio-castellano/storefront-crm/internal/http/handlers"
	rl "github.com/rogerio-castellano/storefront-crm/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront-crm/internal/notify"
	"github.com/rogerio-castellano/storefront-crm/internal/redissvc"
	"github.com/rogerio-castellano/storefront-crm/internal/repo"
	logx "github.com/rogerio-castellano/storefront-crm/pkg/logger"
)

type repositories struct {
	customers repo.CustomerRepository
	products  repo.ProductRepository
	users     repo.UserRepository
	orders    repo.OrderRepository
	metrics   repo.MetricsRepository
}

func postgresRepositories(database *sql.DB) repositories {
	return repositories{
		customers: repo.NewPostgresCustomerRepository(database),
		products:  repo.NewPostgresProductRepository(database),
		users:     repo.NewPostgresUserRepository(database),
		orders:    repo.NewPostgresOrderRepository(database),
		metrics:   repo.NewPostgresMetricsRepository(database),
	}
}

func memoryRepositories() repositories {
	customers := repo.NewInMemoryCustomerRepository()
	products := repo.NewInMemoryProductRepository()
	orders := repo.NewInMemoryOrderRepository()
	metrics := repo.NewInMemoryMetricsRepository()
	metrics.SetRepositories(customers, products, orders)
	return repositories{
		customers: customers,
		products:  products,
		users:     repo.NewInMemoryUserRepository(),
		orders:    orders,
		metrics:   metrics,
	}
}

// @title Storefront CRM API
// @version 1.0
// @description REST API for the customer dashboard and the storefront cart, wishlist and checkout.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Init()
		logx.Fatal().Err(err).Msg("could not load configuration")
	}
	logx.Init(logx.LoggerOpts{Production: cfg.Env() == config.Production})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auth.Configure(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL)

	repos := memoryRepositories()
	var database *sql.DB
	if cfg.Database.URL != "" {
		database, err = db.Connect(cfg.Database.URL)
		if err != nil {
			logx.Fatal().Err(err).Msg("could not connect to database")
		}
		defer database.Close()
		if err := db.Migrate(database); err != nil {
			logx.Fatal().Err(err).Msg("could not apply schema")
		}
		repos = postgresRepositories(database)
	} else {
		logx.Warn().Msg("database.url not set, using in-memory repositories")
	}

	var (
		sessions     repo.SessionStore = repo.NewInMemorySessionStore()
		salesLog     notify.SalesLog   = notify.NewMemorySalesLog()
		catalogCache catalog.Cache
	)
	if cfg.Redis.URL != "" {
		redisService, err := redissvc.Connect(ctx, cfg.Redis)
		if err != nil {
			logx.Fatal().Err(err).Msg("could not connect to redis")
		}
		defer redisService.Close()

		rdb := redisService.Rdb()
		sessions = repo.NewRedisSessionStore(rdb, cfg.Redis.SessionTTL)
		salesLog = notify.NewRedisSalesLog(rdb)
		catalogCache = catalog.NewRedisCache(rdb)
		handlers.SetRefreshStore(auth.NewRedisRefreshStore(rdb), cfg.Auth.RefreshTTL)
	} else {
		logx.Warn().Msg("redis.url not set, sessions and refresh tokens are kept in memory")
		refresh := auth.NewMemoryRefreshStore()
		handlers.SetRefreshStore(refresh, cfg.Auth.RefreshTTL)
		go auth.StartRefreshTokenCleaner(ctx, refresh, 30*time.Minute)
	}

	if cfg.Catalog.URL != "" {
		client := catalog.NewClient(cfg.Catalog.URL, cfg.Catalog.Timeout, catalogCache, cfg.Catalog.CacheTTL)
		handlers.SetCatalogSearcher(client)

		n, err := catalog.Seed(ctx, client, repos.products, cfg.Catalog.SeedLimit)
		if err != nil {
			logx.Error().Err(err).Msg("catalog seed failed")
		} else {
			logx.Info().Int("products", n).Msg("catalog seeded")
			if database != nil {
				if err := db.SyncProductSequence(database); err != nil {
					logx.Error().Err(err).Msg("could not sync product id sequence")
				}
			}
		}
	}

	notifier := notify.NewNotifier(notify.NewMailer(cfg.SMTP), salesLog, cfg.SMTP.SalesTo)
	go notifier.StartDailySalesSummary(ctx)
	go rl.StartVisitorCleanupLoop(ctx, time.Minute, 5*time.Minute)

	handlers.SetCustomerRepo(repos.customers)
	handlers.SetProductRepo(repos.products)
	handlers.SetUserRepo(repos.users)
	handlers.SetOrderRepo(repos.orders)
	handlers.SetMetricsRepo(repos.metrics)
	handlers.SetSessionStore(sessions)
	handlers.SetCheckoutService(checkout.NewService(repos.products, repos.orders, sessions, notifier))

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.NewRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logx.Info().Str("addr", cfg.HTTP.Addr).Str("environment", string(cfg.Env())).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logx.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("graceful shutdown failed")
	}
}
