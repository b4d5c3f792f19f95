package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/floor-service/config"
	"github.com/yeremiapane/floor-service/controllers"
	"github.com/yeremiapane/floor-service/middlewares"
	"github.com/yeremiapane/floor-service/models"
	"github.com/yeremiapane/floor-service/utils"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		utils.ErrorLogger.Printf("Invalid trusted proxies %v: %v", cfg.TrustedProxies, err)
	}

	rateLimiter := middlewares.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigins))
	r.Use(rateLimiter.RateLimit())

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	deviceCtrl := controllers.NewDeviceController(db)
	tableCtrl := controllers.NewTableController(db)
	requestCtrl := controllers.NewServiceRequestController(db)
	notificationCtrl := controllers.NewNotificationController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter(cfg.AuthRatePerMin))
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	if cfg.APILogEnabled {
		api.Use(middlewares.APILogMiddleware(db))
	}

	staff := middlewares.RequireStaff()
	admin := middlewares.RequireRole(models.RoleAdmin)

	// AUTH
	api.POST("/logout", userCtrl.Logout)
	api.GET("/profile", userCtrl.GetProfile)
	api.GET("/users", staff, userCtrl.GetAllUsers)
	api.POST("/users", admin, userCtrl.CreateUser)

	// DEVICES
	api.GET("/devices", deviceCtrl.GetAllDevices)
	api.POST("/devices/register", deviceCtrl.RegisterDevice)
	api.POST("/devices/:device_id/deactivate", deviceCtrl.DeactivateDevice)

	// TABLES
	api.GET("/tables", tableCtrl.GetAllTables)
	api.GET("/tables/:table_id", tableCtrl.GetTableByID)
	api.POST("/tables/:table_id/toggle-occupancy", tableCtrl.ToggleOccupancy)
	api.POST("/tables", staff, tableCtrl.CreateTable)
	api.PATCH("/tables/:table_id", staff, tableCtrl.UpdateTable)
	api.DELETE("/tables/:table_id", staff, tableCtrl.DeleteTable)

	// SERVICE REQUESTS
	api.GET("/requests", requestCtrl.GetAllRequests)
	api.POST("/requests", requestCtrl.CreateRequest)
	api.GET("/requests/pending", staff, requestCtrl.GetPendingRequests)
	api.GET("/requests/:request_id", requestCtrl.GetRequestByID)
	api.PATCH("/requests/:request_id/status", requestCtrl.UpdateStatus)

	// NOTIFICATIONS
	api.GET("/notifications", notificationCtrl.GetAllNotifications)
	api.POST("/notifications", staff, notificationCtrl.CreateNotification)
	api.GET("/notifications/unread-count", notificationCtrl.UnreadCount)
	api.POST("/notifications/read-all", notificationCtrl.MarkAllRead)
	api.GET("/notifications/:notif_id", notificationCtrl.GetNotificationByID)
	api.PATCH("/notifications/:notif_id/read", notificationCtrl.MarkRead)
	api.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)

	return r
}
