package api

import (
	"context"
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/d60-Lab/warbler/config"
	_ "github.com/d60-Lab/warbler/docs"
	"github.com/d60-Lab/warbler/internal/api/handler"
	"github.com/d60-Lab/warbler/internal/api/middleware"
	"github.com/d60-Lab/warbler/internal/cache"
	"github.com/d60-Lab/warbler/internal/repository"
	"github.com/d60-Lab/warbler/internal/service"
	"github.com/d60-Lab/warbler/pkg/database"
	"github.com/d60-Lab/warbler/pkg/response"
)

// SetupRouter 组装仓储、服务与路由；rdb 为 nil 时关系缓存直接透传到数据库
func SetupRouter(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	followRepo := repository.NewFollowRepository(db)
	relCache := cache.NewRelationCache(rdb, cfg.Redis.TTL)

	authService := service.NewAuthService(userRepo, cfg.Auth.BcryptCost)
	relService := service.NewRelationshipService(userRepo, followRepo, relCache)
	messageService := service.NewMessageService(messageRepo)
	timelineService := service.NewTimelineService(relService, messageRepo)
	userService := service.NewUserService(userRepo, messageRepo, followRepo, relService, authService, relCache)

	sessions := middleware.NewSessionManager(cfg.Session)
	metrics := middleware.NewMetrics()
	limiter := middleware.NewIPRateLimiter(cfg.RateLimit)

	h := handler.New(authService, userService, relService, messageService, timelineService, sessions, metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(),
		metrics.Middleware(),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})),
		sessions.Middleware(userService.Get),
	)

	r.GET("/healthz", healthz(db, rdb))
	r.GET("/metrics", metrics.Handler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := middleware.RequireSession()

	r.GET("/", h.Home)
	r.GET("/signup", h.SignupForm)
	r.POST("/signup", limiter.Middleware(), h.Signup)
	r.GET("/login", h.LoginForm)
	r.POST("/login", limiter.Middleware(), h.Login)
	r.GET("/logout", h.Logout)

	users := r.Group("/users")
	{
		users.GET("", h.Search)
		users.GET("/profile", auth, h.EditProfileForm)
		users.POST("/profile", auth, h.UpdateProfile)
		users.POST("/delete", auth, h.DeleteUser)
		users.POST("/follow/:follow_id", auth, h.Follow)
		users.POST("/stop-following/:follow_id", auth, h.Unfollow)
		users.GET("/:user_id", h.ShowUser)
		users.GET("/:user_id/following", auth, h.ListFollowing)
		users.GET("/:user_id/followers", auth, h.ListFollowers)
	}

	messages := r.Group("/messages")
	{
		messages.GET("/new", auth, h.NewMessageForm)
		messages.POST("/new", auth, h.CreateMessage)
		messages.GET("/:message_id", h.ShowMessage)
		messages.POST("/:message_id/delete", auth, h.DeleteMessage)
	}

	return r
}

func healthz(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, db); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		status := gin.H{"database": "ok"}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				status["redis"] = "degraded"
			} else {
				status["redis"] = "ok"
			}
		}
		response.Success(c, status)
	}
}
