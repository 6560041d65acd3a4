package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fkhayef/fintrack/docs"
	"github.com/fkhayef/fintrack/internal/account"
	"github.com/fkhayef/fintrack/internal/activity"
	"github.com/fkhayef/fintrack/internal/category"
	"github.com/fkhayef/fintrack/internal/config"
	"github.com/fkhayef/fintrack/internal/currency"
	"github.com/fkhayef/fintrack/internal/database"
	"github.com/fkhayef/fintrack/internal/exchangerate"
	"github.com/fkhayef/fintrack/internal/expense"
	expensesplit "github.com/fkhayef/fintrack/internal/expense/split"
	"github.com/fkhayef/fintrack/internal/profile"
	"github.com/fkhayef/fintrack/internal/report"
	"github.com/fkhayef/fintrack/internal/settlement"
	"github.com/fkhayef/fintrack/internal/transaction"
	"github.com/fkhayef/fintrack/pkg/logging"
	mw "github.com/fkhayef/fintrack/pkg/middleware"
	"github.com/fkhayef/fintrack/pkg/response"
)

// @title           Fintrack API
// @version         1.0
// @description     Personal finance tracking: accounts, transactions, categories, shared activities and settle-up.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.Setup(cfg.LogLevel, cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.RunMigrations {
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("migrations applied")
	}

	db, err := database.NewPostgresConnection(ctx, cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	logger.Info("connected to database")

	rateCache, closeCache, err := newRateCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	splitFactory := expensesplit.NewSplitStrategyFactory()

	// Currency catalog
	currencyRepo := currency.NewRepository(db)
	currencyService := currency.NewService(currencyRepo)
	currencyHandler := currency.NewHandler(currencyService)

	// Profile feature
	profileRepo := profile.NewRepository(db)
	profileService := profile.NewService(profileRepo)
	profileHandler := profile.NewHandler(profileService)

	// Activity feature
	activityRepo := activity.NewRepository(db)
	activityService := activity.NewService(activityRepo, currencyService)
	activityHandler := activity.NewHandler(activityService)

	// Expense feature
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, activityService, splitFactory)
	expenseHandler := expense.NewHandler(expenseService)

	// Settlement feature
	settlementService := settlement.NewService(activityService, expenseRepo)
	settlementHandler := settlement.NewHandler(settlementService)

	// Account feature
	accountRepo := account.NewRepository(db)
	accountService := account.NewService(accountRepo, currencyService)
	accountHandler := account.NewHandler(accountService)

	// Category feature
	categoryRepo := category.NewRepository(db)
	categoryService := category.NewService(categoryRepo)
	categoryHandler := category.NewHandler(categoryService)

	// Transaction feature
	transactionRepo := transaction.NewRepository(db)
	transactionService := transaction.NewService(transactionRepo, accountService, categoryService)
	transactionHandler := transaction.NewHandler(transactionService)

	// Exchange rate feature
	rateSource := exchangerate.NewDolarAPIClient(cfg.DolarAPIURL, nil)
	rateService := exchangerate.NewService(rateSource, rateCache, cfg.ExchangeRateTTL)
	rateHandler := exchangerate.NewHandler(rateService)

	// Report feature
	reportService := report.NewService(accountService, transactionRepo, rateService)
	reportHandler := report.NewHandler(reportService)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := mw.NewMetrics(registry)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "UNAVAILABLE", "database unreachable")
			return
		}
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTSecret != "" {
			r.Use(mw.AuthMiddleware(cfg.JWTSecret))
		} else {
			logger.Warn("JWT_SECRET not set, authenticating with the X-Test-User-ID header")
			r.Use(mw.TestUserMiddleware)
		}

		activityRouter := activityHandler.Routes()
		activityRouter.Mount("/{activityId}/expenses", expenseHandler.Routes())
		activityRouter.Mount("/{activityId}/settlement", settlementHandler.Routes())

		r.Mount("/activities", activityRouter)
		r.Mount("/accounts", accountHandler.Routes())
		r.Mount("/categories", categoryHandler.Routes())
		r.Mount("/transactions", transactionHandler.Routes())
		r.Mount("/exchange-rates", rateHandler.Routes())
		r.Mount("/reports", reportHandler.Routes())
		r.Mount("/currencies", currencyHandler.Routes())
		r.Mount("/profile", profileHandler.Routes())
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// newRateCache picks Redis when REDIS_URL is set and process memory otherwise
func newRateCache(ctx context.Context, cfg *config.Config) (exchangerate.Cache, func(), error) {
	if cfg.RedisURL == "" {
		return exchangerate.NewMemoryCache(), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("exchange rates cached in redis")
	// kept past the TTL for the stale fallback
	return exchangerate.NewRedisCache(client, 7*24*time.Hour), func() { _ = client.Close() }, nil
}
