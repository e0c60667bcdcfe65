package router

import (
	"time"

	"venueops/internal/config"
	_ "venueops/internal/docs"
	"venueops/internal/handler"
	"venueops/internal/infra"
	"venueops/internal/middleware"
	"venueops/internal/planning"
	"venueops/internal/repository"
	"venueops/internal/service"
	"venueops/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb may be nil, in which case locks are in-process and no jobs are published.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	var (
		locker     infra.Locker = infra.NewKeyedMutex()
		dispatcher *worker.Dispatcher
	)
	if rdb != nil {
		locker = infra.NewRedisLocker(rdb, cfg.LockTTL())
		dispatcher = worker.NewDispatcher(rdb)
	}
	loc, err := cfg.Location()
	if err != nil {
		loc = time.UTC
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	bookingRepo := repository.NewBookingRepository(db)
	eventRepo := repository.NewEventRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	resourceRepo := repository.NewBookingResourceRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	finalizationRepo := repository.NewFinalizationRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	planner := service.NewResourcePlanner(bookingRepo, resourceRepo, menuRepo, inventoryRepo, planning.DefaultStructuralRules())
	ledger := service.NewInventoryLedger(inventoryRepo, movementRepo, menuRepo, finalizationRepo, locker, dispatcher,
		service.LedgerConfig{AllowRefinalize: cfg.AllowRefinalize})
	bookingSvc := service.NewBookingService(bookingRepo, eventRepo, planner, ledger,
		service.Clock{Location: loc})

	// ── Handlers ─────────────────────────────────────────────────────────────
	bookingsH := handler.NewBookingsHandler(bookingSvc)
	eventsH := handler.NewEventsHandler(bookingSvc)
	inventoryH := handler.NewInventoryHandler(ledger)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret), middleware.BranchScope())
	{
		bookings := v1.Group("/bookings")
		bookings.GET("", bookingsH.List)
		bookings.GET("/:id", bookingsH.Get)
		bookings.GET("/:id/resources", bookingsH.Resources)
		bookings.PUT("/:id/resources", middleware.RequireRole(middleware.RoleOwner, middleware.RoleManager), bookingsH.UpdateResources)

		v1.POST("/events/:id/menu/finalize", middleware.RequireRole(middleware.RoleOwner, middleware.RoleManager), eventsH.FinalizeMenu)

		inventory := v1.Group("/inventory")
		inventory.GET("", inventoryH.List)
		inventory.GET("/low-stock", inventoryH.LowStock)
		inventory.GET("/movements", inventoryH.Movements)
		inventory.POST("/:id/adjust", middleware.RequireRole(middleware.RoleOwner, middleware.RoleManager), inventoryH.Adjust)
	}

	// Swagger UI, outside production only
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
