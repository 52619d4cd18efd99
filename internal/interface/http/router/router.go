package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
)

// New 创建Gin引擎并注册全部路由
//
// 中间件顺序：Recovery → Logger → Metrics → CORS → (路由级)限流/认证
func New(
	cfg *config.Config,
	logger *zap.Logger,
	authMiddleware *middleware.AuthMiddleware,
	searchLimiter *middleware.RateLimiter,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
) (*gin.Engine, error) {
	if err := dto.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.Metrics(),
		middleware.CORS(cfg.CORS),
	)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "healthy"})
	})
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}
	// 生产环境不暴露接口文档
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := authMiddleware.RequireAuth()

	v1 := r.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/refresh", userHandler.Refresh)
			users.POST("/logout", requireAuth, userHandler.Logout)
		}

		profile := v1.Group("/profile", requireAuth)
		{
			profile.GET("", userHandler.GetProfile)
			profile.PUT("", userHandler.UpdateProfile)
			profile.PUT("/password", userHandler.ChangePassword)
		}

		books := v1.Group("/books")
		{
			books.GET("", bookHandler.List)
			books.GET("/search", searchLimiter.Middleware(), bookHandler.Search)
			books.GET("/:id", bookHandler.Get)
			books.POST("", requireAuth, authMiddleware.RequireAdmin(), bookHandler.Upsert)
		}

		cart := v1.Group("/cart", requireAuth)
		{
			cart.GET("", cartHandler.Get)
			cart.DELETE("", cartHandler.Clear)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:id", cartHandler.UpdateItem)
			cart.DELETE("/items/:id", cartHandler.RemoveItem)
		}

		orders := v1.Group("/orders", requireAuth)
		{
			orders.POST("", orderHandler.Commit)
			orders.GET("", orderHandler.List)
			orders.GET("/:id", orderHandler.Get)
		}
	}

	return r, nil
}
