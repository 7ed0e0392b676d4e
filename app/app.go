package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kiosk-order/config"
	"kiosk-order/middleware"
	"kiosk-order/repositories"
	"kiosk-order/routes"
	"kiosk-order/services"
)

// App holds the router and the connections it owns.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Router *gin.Engine

	db    *pgxpool.Pool
	redis *redis.Client
}

func New(ctx context.Context, logger *zap.Logger) (*App, error) {
	cfg := config.LoadConfig(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	db, err := config.ConnectDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := config.RunMigrations(cfg, logger); err != nil {
		db.Close()
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger, db: db}

	carts, err := a.cartStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	menuSvc := services.NewMenuService(repositories.NewMenuRepository(db))
	cartSvc := services.NewCartService(carts, cfg.TaxRate, logger)
	svc := routes.Services{
		Auth:   services.NewAuthService(repositories.NewDeviceRepository(db), menuSvc, cartSvc, cfg.JWTSecret, cfg.JWTExpiry, logger),
		Menu:   menuSvc,
		Carts:  cartSvc,
		Orders: services.NewOrderService(repositories.NewOrderRepository(db), cartSvc, logger),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORSMiddleware(cfg.OriginURL))
	routes.SetupRoutes(router, svc)

	a.Router = router
	return a, nil
}

// cartStore picks the cart persistence backend. Redis falls back to process
// memory when the server cannot be reached.
func (a *App) cartStore(ctx context.Context) (services.CartStore, error) {
	switch a.Config.CartStore {
	case config.CartStoreRedis:
		a.redis = config.ConnectRedis(ctx, a.Config, a.Logger)
		if a.redis == nil {
			a.Logger.Warn("cart persistence falling back to memory, carts are not shared between instances")
			return repositories.NewMemoryCartRepository(a.Config.CartTTL), nil
		}
		return repositories.NewRedisCartRepository(a.redis, a.Config.CartTTL), nil
	case config.CartStorePostgres:
		return repositories.NewPostgresCartRepository(a.db), nil
	case config.CartStoreMemory:
		a.Logger.Info("cart persistence in memory, carts are not shared between instances")
		return repositories.NewMemoryCartRepository(a.Config.CartTTL), nil
	}
	return nil, errors.Errorf("unknown cart store %q", a.Config.CartStore)
}

func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
