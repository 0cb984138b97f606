package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/stocksync/backend/internal/application/catalog"
	identityapp "github.com/stocksync/backend/internal/application/identity"
	inventoryapp "github.com/stocksync/backend/internal/application/inventory"
	notificationapp "github.com/stocksync/backend/internal/application/notification"
	partnerapp "github.com/stocksync/backend/internal/application/partner"
	tradeapp "github.com/stocksync/backend/internal/application/trade"
	"github.com/stocksync/backend/internal/infrastructure/auth"
	"github.com/stocksync/backend/internal/infrastructure/cache"
	"github.com/stocksync/backend/internal/infrastructure/config"
	"github.com/stocksync/backend/internal/infrastructure/event"
	"github.com/stocksync/backend/internal/infrastructure/logger"
	"github.com/stocksync/backend/internal/infrastructure/persistence"
	"github.com/stocksync/backend/internal/infrastructure/persistence/tenant"
	"github.com/stocksync/backend/internal/interfaces/http/handler"
	"github.com/stocksync/backend/internal/interfaces/http/middleware"
	"github.com/stocksync/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting StockSync backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Registers the tenant-scoping callbacks on the shared connection. Every
	// repository below inherits them.
	tenant.NewTenantDB(db.DB)

	// Repositories
	orgRepo := persistence.NewGormOrganizationRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	locationRepo := persistence.NewGormLocationRepository(db.DB)
	buyerRepo := persistence.NewGormBuyerRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	inventoryScope := persistence.NewGormInventoryTransactionScope(db.DB)
	tradeScope := persistence.NewGormTradeTransactionScope(db.DB)

	// Product cache, Redis when reachable, in-process fallback otherwise
	var productCache cache.ProductCache
	if redisCache, err := cache.NewRedisProductCache(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, using in-memory product cache", zap.Error(err))
		productCache = cache.NewInMemoryProductCache()
	} else {
		productCache = redisCache
		log.Info("Redis product cache connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	orgService := identityapp.NewOrganizationService(orgRepo, eventBus, log)
	userService := identityapp.NewUserService(userRepo, orgRepo, jwtService, log)
	productService := catalogapp.NewProductService(productRepo, productCache, log)
	locationService := catalogapp.NewLocationService(locationRepo, log)
	buyerService := partnerapp.NewBuyerService(buyerRepo, orgRepo, log)
	ledgerService := inventoryapp.NewLedgerService(inventoryScope, inventoryRepo, movementRepo, eventBus, log)
	orderService := tradeapp.NewOrderService(tradeScope, orderRepo, eventBus, cfg.Settlement, log)
	notificationService := notificationapp.NewService(notificationRepo, log)

	// Event handlers
	lowStockHandler := inventoryapp.NewStockBelowThresholdHandler(userRepo, notificationService, log)
	eventBus.Subscribe(lowStockHandler)

	activationHandler := identityapp.NewActivationEmailHandler(orgRepo, notificationapp.NewLogMailer(log), log)
	eventBus.Subscribe(activationHandler)

	orderEventHandler := notificationapp.NewOrderEventHandler(notificationService, userRepo, log)
	eventBus.Subscribe(orderEventHandler)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// HTTP handlers
	authHandler := handler.NewAuthHandler(userService)
	orgHandler := handler.NewOrganizationHandler(orgService)
	catalogHandler := handler.NewCatalogHandler(productService, locationService)
	inventoryHandler := handler.NewInventoryHandler(ledgerService)
	orderHandler := handler.NewOrderHandler(orderService)
	buyerHandler := handler.NewBuyerHandler(buyerService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID(log))
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.CORS(cfg.HTTP.CORSAllowOrigins))

	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuth(jwtService, log))
	r.RegisterPublic(authHandler.RegisterRoutes)
	r.RegisterPublic(orgHandler.RegisterPublicRoutes)
	r.Register(orgHandler).
		Register(catalogHandler).
		Register(inventoryHandler).
		Register(orderHandler).
		Register(buyerHandler).
		Register(notificationHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness plus database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
