package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vendra/licensing-api/internal/cache"
	"github.com/vendra/licensing-api/internal/config"
	"github.com/vendra/licensing-api/internal/database"
	"github.com/vendra/licensing-api/internal/handler"
	"github.com/vendra/licensing-api/internal/middleware"
	"github.com/vendra/licensing-api/internal/repository"
	"github.com/vendra/licensing-api/internal/service"
	"github.com/vendra/licensing-api/internal/sse"
	"github.com/vendra/licensing-api/internal/worker"
)

// main is the application entrypoint for the licensing API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting licensing api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	metricsCache := cache.NewMetricsCache(redisClient, cfg.Worker.MetricsTTL)

	// 4. Initialize repositories
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	resellerRepo := repository.NewResellerRepository(db)
	contractRepo := repository.NewContractRepository(db)
	poRepo := repository.NewPurchaseOrderRepository(db)
	userRepo := repository.NewUserRepository(db)

	// 5. Initialize services
	var uploader service.DocumentUploader
	if storageSvc, err := service.NewStorageService(&cfg.Storage); err != nil {
		log.Warn().Err(err).Msg("storage initialization failed - document upload will be disabled")
	} else {
		uploader = storageSvc
	}

	authSvc := service.NewAuthService(userRepo)
	customerSvc := service.NewCustomerService(customerRepo, contractRepo)
	productSvc := service.NewProductService(productRepo, contractRepo)
	resellerSvc := service.NewResellerService(resellerRepo)
	contractSvc := service.NewContractService(contractRepo, customerRepo, productRepo, resellerRepo)
	dashboardSvc := service.NewDashboardService(contractRepo, metricsCache)
	poSvc := service.NewPurchaseOrderService(poRepo, contractRepo, uploader)

	// 6. Initialize SSE hub for back-office live updates
	hub := sse.NewHub()
	notifier := sse.NewHubNotifier(hub)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:        handler.NewHealthHandler(db, redisClient),
		Auth:          handler.NewAuthHandler(authSvc),
		Customer:      handler.NewCustomerHandler(customerSvc),
		Product:       handler.NewProductHandler(productSvc),
		Reseller:      handler.NewResellerHandler(resellerSvc),
		Contract:      handler.NewContractHandler(contractSvc, dashboardSvc, notifier),
		PurchaseOrder: handler.NewPurchaseOrderHandler(poSvc),
		Dashboard:     handler.NewDashboardHandler(dashboardSvc),
		SSE:           handler.NewSSEHandler(hub),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()
	loginLimiter := middleware.NewLoginRateLimiter()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw, loginLimiter)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewMetricsWorker(dashboardSvc, cfg.Worker.MetricsInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health        *handler.HealthHandler
	Auth          *handler.AuthHandler
	Customer      *handler.CustomerHandler
	Product       *handler.ProductHandler
	Reseller      *handler.ResellerHandler
	Contract      *handler.ContractHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Dashboard     *handler.DashboardHandler
	SSE           *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware, loginLimiter *middleware.LoginRateLimiter) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	router.POST("/v1/auth/login", loginLimiter.Handle(), handlers.Auth.Login)

	// SSE authenticates via query token inside the handler, so it sits
	// outside the JWT middleware group.
	router.GET("/v1/admin/sse", handlers.SSE.Stream)

	// Staff back office (protected with JWT, staff role only)
	admin := router.Group("/v1/admin")
	admin.Use(jwtMiddleware.Handle(), jwtMiddleware.RequireRole("staff"))
	{
		admin.POST("/users", handlers.Auth.CreateUser)

		admin.POST("/customers", handlers.Customer.CreateCustomer)
		admin.GET("/customers", handlers.Customer.ListCustomers)
		admin.GET("/customers/:id", handlers.Customer.GetCustomer)
		admin.PATCH("/customers/:id", handlers.Customer.UpdateCustomer)
		admin.POST("/customers/:id/approve", handlers.Customer.ApproveCustomer)
		admin.DELETE("/customers/:id", handlers.Customer.DeleteCustomer)

		admin.POST("/products", handlers.Product.CreateProduct)
		admin.GET("/products", handlers.Product.ListProducts)
		admin.GET("/products/:id", handlers.Product.GetProduct)
		admin.PATCH("/products/:id", handlers.Product.UpdateProduct)
		admin.DELETE("/products/:id", handlers.Product.DeleteProduct)

		admin.POST("/resellers", handlers.Reseller.CreateReseller)
		admin.GET("/resellers", handlers.Reseller.ListResellers)
		admin.GET("/resellers/:id", handlers.Reseller.GetReseller)
		admin.PATCH("/resellers/:id", handlers.Reseller.UpdateReseller)
		admin.DELETE("/resellers/:id", handlers.Reseller.DeleteReseller)

		admin.POST("/contracts", handlers.Contract.CreateContract)
		admin.GET("/contracts", handlers.Contract.ListContracts)
		admin.GET("/contracts/:id", handlers.Contract.GetContract)
		admin.PATCH("/contracts/:id", handlers.Contract.UpdateContract)
		admin.POST("/contracts/:id/status", handlers.Contract.ChangeStatus)
		admin.DELETE("/contracts/:id", handlers.Contract.DeleteContract)

		admin.POST("/purchase-orders", handlers.PurchaseOrder.UploadPurchaseOrder)
		admin.GET("/purchase-orders", handlers.PurchaseOrder.ListPurchaseOrders)
		admin.GET("/purchase-orders/:id", handlers.PurchaseOrder.GetPurchaseOrder)
		admin.POST("/purchase-orders/:id/review", handlers.PurchaseOrder.ReviewPurchaseOrder)
		admin.DELETE("/purchase-orders/:id", handlers.PurchaseOrder.DeletePurchaseOrder)

		admin.GET("/dashboard/stats", handlers.Dashboard.GetStats)
		admin.POST("/dashboard/refresh", handlers.Dashboard.RefreshStats)
	}
}

func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
