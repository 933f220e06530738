package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/services"
	"github.com/campustrack/participation-service/internal/utils"
)

type HandlerManager struct {
	participationHandler *ParticipationHandler
	eventHandler         *EventHandler
	dashboardHandler     *DashboardHandler
	notificationHandler  *NotificationHandler
	reportHandler        *ReportHandler
	userHandler          *UserHandler
	authMiddleware       *JWTAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	authMiddleware *JWTAuthMiddleware,
	logger utils.Logger,
) *HandlerManager {
	participationHandler := NewParticipationHandler(serviceManager.Participation(), logger)

	return &HandlerManager{
		participationHandler: participationHandler,
		eventHandler:         NewEventHandler(serviceManager.Event(), logger),
		dashboardHandler:     NewDashboardHandler(serviceManager.Dashboard(), logger),
		notificationHandler:  NewNotificationHandler(serviceManager.Notification(), logger),
		reportHandler:        NewReportHandler(serviceManager.Report(), participationHandler, logger),
		userHandler:          NewUserHandler(serviceManager.Account(), authMiddleware, logger),
		authMiddleware:       authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/auth/login", hm.userHandler.Login)

	// API routes with authentication
	api := router.Group("/api")
	api.Use(hm.authMiddleware.AuthMiddleware()) // Apply authentication to all API routes
	{
		// Participation routes
		participations := api.Group("/participations")
		{
			// Submit participations - Students only
			participations.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.participationHandler.CreateParticipation)

			// View participations - role scoping applied in the service layer
			participations.GET("", hm.participationHandler.ListParticipations)
			participations.GET("/:id", hm.participationHandler.GetParticipation)

			// Review - Proctors and Admins only
			participations.PATCH("/:id/review", hm.authMiddleware.RequireRoleMiddleware(models.RoleProctor, models.RoleAdmin), hm.participationHandler.ReviewParticipation)
		}

		// Event catalogue routes
		events := api.Group("/events")
		{
			// Manage events - Proctors and Admins only
			events.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleProctor, models.RoleAdmin), hm.eventHandler.CreateEvent)
			events.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleProctor, models.RoleAdmin), hm.eventHandler.UpdateEvent)
			events.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleProctor, models.RoleAdmin), hm.eventHandler.DeleteEvent)

			// View events - All authenticated users
			events.GET("", hm.eventHandler.ListEvents)
			events.GET("/:id", hm.eventHandler.GetEvent)
		}

		// Stats routes
		stats := api.Group("/stats")
		{
			// Aggregate dashboard stats - all authenticated users
			stats.GET("/dashboard", hm.dashboardHandler.GetDashboardStats)

			// Reviewer drill-downs - Proctors and Admins only
			stats.GET("/recent-submissions", hm.authMiddleware.RequireRoleMiddleware(models.RoleProctor, models.RoleAdmin), hm.dashboardHandler.GetRecentSubmissions)
			stats.GET("/department-activity", hm.authMiddleware.RequireRoleMiddleware(models.RoleProctor, models.RoleAdmin), hm.dashboardHandler.GetDepartmentActivity)
		}

		// Notification routes
		notifications := api.Group("/notifications")
		{
			notifications.GET("", hm.notificationHandler.ListNotifications)
			notifications.POST("/:id/read", hm.notificationHandler.MarkNotificationRead)
			notifications.POST("/read-all", hm.notificationHandler.MarkAllNotificationsRead)
		}

		// Report routes - Proctors and Admins only
		reports := api.Group("/reports")
		reports.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleProctor, models.RoleAdmin))
		{
			reports.GET("/participations", hm.reportHandler.ExportParticipations)
		}

		// Current user
		users := api.Group("/users")
		{
			users.GET("/me", hm.userHandler.GetMe)
		}

		// Proctor routes - Proctors and Admins only
		proctor := api.Group("/proctor")
		proctor.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleProctor, models.RoleAdmin))
		{
			proctor.GET("/students", hm.userHandler.ListStudents)
		}

		// Admin routes - Admins only
		admin := api.Group("/admin")
		admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.POST("/users", hm.userHandler.CreateUser)
			admin.GET("/users", hm.userHandler.ListUsers)
			admin.GET("/users/:id", hm.userHandler.GetUser)
			admin.DELETE("/users/:id", hm.userHandler.DeleteUser)
			admin.POST("/students", hm.userHandler.CreateStudent)
			admin.POST("/proctors", hm.userHandler.CreateProctor)
			admin.GET("/proctors", hm.userHandler.ListProctors)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "participation-service",
		})
	})
}
