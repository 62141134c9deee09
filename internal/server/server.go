package server

import (
	"fmt"

	"github.com/farellandr/boxoffice/config"
	"github.com/farellandr/boxoffice/internal/handlers"
	"github.com/farellandr/boxoffice/internal/logger"
	"github.com/farellandr/boxoffice/internal/middleware"
	"github.com/farellandr/boxoffice/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	SetupRoutes(r, db, cfg, log)

	log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	return r.Run(":" + cfg.Port)
}

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, log *zap.Logger) {
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.ConfigMiddleware(cfg))

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)
		public.POST("/payments/events", handlers.PaymentEvents)

		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/:id", handlers.GetEvent)
			eventPublic.GET("/:id/ticket-types", handlers.ListTicketTypes)
		}
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		protected.POST("/checkout", handlers.StartCheckout)

		me := protected.Group("/me")
		{
			me.GET("", handlers.GetProfile)
			me.GET("/qr-codes", handlers.ListMyQRCodes)
			me.GET("/qr-codes/:id/image", handlers.GetMyQRCodeImage)
		}

		eventProtected := protected.Group("/events")
		eventProtected.Use(middleware.RequireRole(models.RoleOrganizer, models.RoleAdmin))
		{
			eventProtected.POST("", handlers.CreateEvent)
			eventProtected.PUT("/:id", handlers.UpdateEvent)
			eventProtected.DELETE("/:id", handlers.DeleteEvent)
			eventProtected.POST("/:id/ticket-types", handlers.CreateTicketType)
			eventProtected.PUT("/:id/ticket-types/:ticketTypeId", handlers.UpdateTicketType)
			eventProtected.DELETE("/:id/ticket-types/:ticketTypeId", handlers.DeleteTicketType)
		}

		admin := protected.Group("/admin")
		{
			events := admin.Group("/events")
			events.Use(middleware.RequireRole(models.RoleOrganizer, models.RoleAdmin))
			{
				events.GET("/:id/qr-reconciliation", handlers.GetQRReconciliation)
				events.GET("/:id/accounting", handlers.GetAccounting)
				events.GET("/:id/team", handlers.ListTeam)
				events.POST("/:id/team", handlers.AddTeamMember)
				events.DELETE("/:id/team/:userId", handlers.RemoveTeamMember)
			}

			scans := admin.Group("/qr-codes")
			scans.Use(middleware.RequireRole(models.RoleOrganizer, models.RoleAdmin, models.RoleStaff))
			{
				scans.POST("/validate", handlers.ValidateQR)
				scans.POST("/:id/toggle-scan", handlers.ToggleScan)
			}
		}
	}
}
