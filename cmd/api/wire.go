//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改后执行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	appcart "github.com/xiebiao/bookshop/internal/application/cart"
	appcatalog "github.com/xiebiao/bookshop/internal/application/catalog"
	apporder "github.com/xiebiao/bookshop/internal/application/order"
	appuser "github.com/xiebiao/bookshop/internal/application/user"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/internal/interface/http/router"
)

// infrastructureSet 存储、缓存、外部数据源与消息
var infrastructureSet = wire.NewSet(
	provideRedisClient,
	provideSessionStore,
	provideSearchCache,
	provideCatalogProvider,
	providePublisher,
)

// repositorySet 按驱动选择的仓储与事务管理器
var repositorySet = wire.NewSet(
	provideRepositories,
	provideBookRepository,
	provideCartRepository,
	provideOrderRepository,
	provideUserRepository,
	provideTxManager,
)

// domainSet 领域服务与计价规则
var domainSet = wire.NewSet(
	user.NewService,
	provideCatalogService,
	providePricingPolicy,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	provideSearchBooksUseCase,
	appcatalog.NewListBooksUseCase,
	appcatalog.NewGetBookUseCase,
	appcatalog.NewUpsertBookUseCase,

	appcart.NewGetCartUseCase,
	appcart.NewAddItemUseCase,
	appcart.NewUpdateItemUseCase,
	appcart.NewRemoveItemUseCase,
	appcart.NewClearCartUseCase,

	apporder.NewCommitOrderUseCase,
	apporder.NewGetOrderUseCase,
	apporder.NewListOrdersUseCase,

	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshTokenUseCase,
	appuser.NewGetProfileUseCase,
	appuser.NewUpdateProfileUseCase,
	appuser.NewChangePasswordUseCase,
)

// middlewareSet JWT、认证与限流
var middlewareSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	provideSearchLimiter,
)

// handlerSet HTTP处理器与路由
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewCartHandler,
	handler.NewOrderHandler,
	router.New,
	newApp,
)

// InitializeApp 组装整个应用,返回的cleanup按创建的逆序释放资源
func InitializeApp(cfg *config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
	)
	return nil, nil, nil
}
