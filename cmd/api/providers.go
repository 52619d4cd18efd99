package main

import (
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appcatalog "github.com/xiebiao/bookshop/internal/application/catalog"
	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/transaction"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/cache"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/internal/infrastructure/provider/googlebooks"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/mq"
)

// App 应用根对象
type App struct {
	Engine *gin.Engine
}

func newApp(engine *gin.Engine) *App {
	return &App{Engine: engine}
}

// repositories 按database.driver选择的一组仓储
type repositories struct {
	books  catalog.Repository
	carts  cart.Repository
	orders order.Repository
	users  user.Repository
	tx     transaction.Manager
}

// provideRepositories mysql为默认驱动,memory用于本地体验(进程退出后数据丢失)
func provideRepositories(cfg *config.Config, logger *zap.Logger) (*repositories, func(), error) {
	if cfg.Database.Driver == "memory" {
		logger.Warn("使用内存存储,数据不会持久化")
		store := memory.NewStore()
		return &repositories{
			books:  memory.NewBookRepository(store),
			carts:  memory.NewCartRepository(store),
			orders: memory.NewOrderRepository(store),
			users:  memory.NewUserRepository(store),
			tx:     store,
		}, func() {}, nil
	}

	db, cleanup, err := mysql.NewDB(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return &repositories{
		books:  mysql.NewBookRepository(db),
		carts:  mysql.NewCartRepository(db),
		orders: mysql.NewOrderRepository(db),
		users:  mysql.NewUserRepository(db),
		tx:     mysql.NewTxManager(db),
	}, cleanup, nil
}

func provideBookRepository(r *repositories) catalog.Repository { return r.books }
func provideCartRepository(r *repositories) cart.Repository { return r.carts }
func provideOrderRepository(r *repositories) order.Repository { return r.orders }
func provideUserRepository(r *repositories) user.Repository { return r.users }
func provideTxManager(r *repositories) transaction.Manager { return r.tx }

// provideRedisClient 纯内存模式下不连接Redis,返回nil
func provideRedisClient(cfg *config.Config, logger *zap.Logger) (*goredis.Client, func(), error) {
	if cfg.Database.Driver == "memory" && cfg.Catalog.CacheBackend != "redis" {
		return nil, func() {}, nil
	}
	return redis.NewClient(cfg, logger)
}

// provideSessionStore 有Redis时会话与黑名单存Redis,多实例共享
func provideSessionStore(client *goredis.Client) user.SessionStore {
	if client == nil {
		return memory.NewSessionStore()
	}
	return redis.NewSessionStore(client)
}

// provideSearchCache catalog.cache_backend: memory | redis
func provideSearchCache(cfg *config.Config, client *goredis.Client) (catalog.SearchCache, error) {
	if cfg.Catalog.CacheBackend == "redis" {
		return redis.NewSearchCache(client), nil
	}
	return cache.NewSearchCache(cfg.Catalog.CacheSize)
}

func provideCatalogProvider(cfg *config.Config, logger *zap.Logger) catalog.Provider {
	return googlebooks.NewClientFromConfig(cfg, logger)
}

func provideCatalogService(repo catalog.Repository, cfg *config.Config) catalog.Service {
	return catalog.NewService(repo, catalog.Defaults{
		Price: cfg.Catalog.DefaultPrice,
		Stock: cfg.Catalog.DefaultStock,
	})
}

func providePricingPolicy(cfg *config.Config) (*order.PricingPolicy, error) {
	return order.NewPricingPolicy(cfg.Pricing.FreeShippingThreshold, cfg.Pricing.ShippingFee, cfg.Pricing.TaxRate)
}

// providePublisher mq.enabled=false时事件直接丢弃
func providePublisher(cfg *config.Config, logger *zap.Logger) (mq.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return mq.NopPublisher{}, func() {}, nil
	}
	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic", logger)
	if err != nil {
		return nil, nil, err
	}
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("关闭RabbitMQ连接失败", zap.Error(err))
		}
	}, nil
}

func provideSearchBooksUseCase(
	provider catalog.Provider,
	searchCache catalog.SearchCache,
	service catalog.Service,
	publisher mq.EventPublisher,
	logger *zap.Logger,
	cfg *config.Config,
) *appcatalog.SearchBooksUseCase {
	return appcatalog.NewSearchBooksUseCase(provider, searchCache, service, publisher, logger, cfg.Catalog.CacheTTL)
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)
}

func provideSearchLimiter(cfg *config.Config) (*middleware.RateLimiter, error) {
	return middleware.NewRateLimiter(cfg.Catalog.SearchRatePerWindow, cfg.Catalog.SearchWindow)
}
