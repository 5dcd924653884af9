package router

import (
	"time"

	"clearclaim/config"
	"clearclaim/internal/events"
	"clearclaim/internal/handler"
	"clearclaim/internal/middleware"
	"clearclaim/internal/repository"
	"clearclaim/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, publisher events.Publisher, email service.EmailSender, sms service.SmsSender) (*gin.Engine, *service.DigestService) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	claimRepo := repository.NewClaimRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	prefRepo := repository.NewPreferenceRepository(db)

	// Services
	notifSvc := service.NewNotificationService(notificationRepo)
	claimSvc := service.NewClaimService(claimRepo, notifSvc, publisher)
	authSvc := service.NewAuthService(cfg, userRepo, notifSvc)
	digestSvc := service.NewDigestService(notificationRepo, userRepo, prefRepo, email, sms, cfg.Digest.SendTimeout)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, userRepo)
	claimHandler := handler.NewClaimHandler(claimSvc, claimRepo)
	adminHandler := handler.NewAdminHandler(claimSvc, claimRepo, userRepo)
	notificationHandler := handler.NewNotificationHandler(notificationRepo, prefRepo)
	digestHandler := handler.NewDigestHandler(digestSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)

	r.GET("/health", handler.Health)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", authMw, authHandler.Me)
		}

		claims := api.Group("/claims")
		claims.Use(authMw)
		{
			claims.POST("", claimHandler.Create)
			claims.GET("", claimHandler.List)
			claims.GET("/:id", claimHandler.Get)
			claims.PUT("/:id/steps/:step", claimHandler.SaveStep)
		}

		notifications := api.Group("/notifications")
		notifications.Use(authMw)
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread", notificationHandler.UnreadCount)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
			notifications.DELETE("/:id", notificationHandler.Delete)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/preferences", notificationHandler.GetPreferences)
			me.PATCH("/preferences", notificationHandler.UpdatePreferences)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/claims", adminHandler.ListClaims)
			admin.GET("/claims/:id", adminHandler.GetClaim)
			admin.PATCH("/claims/:id/status", adminHandler.UpdateStatus)
			admin.GET("/users", adminHandler.ListUsers)
		}

		internal := api.Group("/internal")
		internal.Use(middleware.APIKeyRequired(cfg.Digest.TriggerKey))
		{
			internal.POST("/digest/run", digestHandler.RunDaily)
			internal.POST("/digest/run/:user_id", digestHandler.RunUser)
		}
	}

	return r, digestSvc
}
