package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campustrack/academic-record-service/internal/models"
	"github.com/campustrack/academic-record-service/internal/services"
	"github.com/campustrack/academic-record-service/internal/sessions"
	"github.com/campustrack/academic-record-service/internal/utils"
)

type HandlerManager struct {
	authHandler       *AuthHandler
	attendanceHandler *AttendanceHandler
	marksHandler      *MarksHandler
	analyticsHandler  *AnalyticsHandler
	rosterHandler     *RosterHandler
	authMiddleware    *SessionAuthMiddleware
	serviceManager    services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	sessionStore *sessions.Store,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:       NewAuthHandler(serviceManager.Auth(), logger),
		attendanceHandler: NewAttendanceHandler(serviceManager.Attendance(), logger),
		marksHandler:      NewMarksHandler(serviceManager.Marks(), logger),
		analyticsHandler:  NewAnalyticsHandler(serviceManager.Analytics(), logger),
		rosterHandler:     NewRosterHandler(serviceManager.Roster(), logger),
		authMiddleware:    NewSessionAuthMiddleware(sessionStore),
		serviceManager:    serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/register", hm.authHandler.Register)
		auth.POST("/login", hm.authHandler.Login)
		auth.POST("/logout", hm.authMiddleware.AuthMiddleware(), hm.authHandler.Logout)
	}

	// Authenticated routes
	api := v1.Group("")
	api.Use(hm.authMiddleware.AuthMiddleware())
	{
		attendance := api.Group("/attendance")
		{
			attendance.POST("/upload", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty, models.RoleHOD), hm.attendanceHandler.Upload)
			attendance.POST("/import", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty, models.RoleHOD), hm.attendanceHandler.Import)
			attendance.GET("", hm.attendanceHandler.GetByDate)
			attendance.PUT("", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty, models.RoleHOD), hm.attendanceHandler.Update)
			attendance.GET("/me", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.attendanceHandler.Me)
			attendance.GET("/export/:date/:hour/:subject", hm.attendanceHandler.Export)
		}

		marks := api.Group("/marks")
		{
			marks.POST("/upload", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty, models.RoleHOD), hm.marksHandler.Upload)
			marks.POST("/import", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty, models.RoleHOD), hm.marksHandler.Import)
			marks.GET("", hm.marksHandler.List)
			marks.PUT("", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty, models.RoleHOD), hm.marksHandler.Update)
			marks.GET("/me", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.marksHandler.Me)
		}

		analytics := api.Group("/analytics")
		{
			analytics.GET("", hm.analyticsHandler.SubjectAnalytics)
			analytics.GET("/performance", hm.analyticsHandler.Performance)
		}

		api.GET("/students", hm.analyticsHandler.StudentRoster)
		api.GET("/users/:email", hm.rosterHandler.GetUserByEmail)

		faculty := api.Group("/faculty")
		faculty.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleHOD))
		{
			faculty.GET("", hm.rosterHandler.ListFaculty)
			faculty.PUT("/assign-subject", hm.rosterHandler.AssignSubjects)
			faculty.DELETE("/:id", hm.rosterHandler.RemoveFaculty)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{
				"status":  "unhealthy",
				"service": "academic-record-service",
				"error":   err.Error(),
			})
			return
		}
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "academic-record-service",
		})
	})
}
