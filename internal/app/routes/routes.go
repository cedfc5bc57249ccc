package routes

import (
	"github.com/gin-gonic/gin"
	appauth "github.com/mbdelmundo/thesisdesk/internal/app/auth"
	"github.com/mbdelmundo/thesisdesk/internal/app/controllers"
	"github.com/mbdelmundo/thesisdesk/internal/app/models/dto"
	"github.com/mbdelmundo/thesisdesk/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	adviseeController *controllers.AdviseeController,
	announcementController *controllers.AnnouncementController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/callback", authController.SignIn)
		auth.POST("/signout", authController.SignOut)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.SessionAuth())
	{
		authenticated.GET("/auth/session", authController.GetSession)

		// The announcements board is visible to every signed-in user
		authenticated.GET("/announcements", announcementController.ListAnnouncements)

		// User directory: read access for the administrative roles,
		// destructive operations for ADMIN only
		users := authenticated.Group("/users")
		users.Use(authMiddleware.RequireRole(appauth.Staff()))
		{
			users.GET("", userController.ListUsers)
			users.GET("/:id", userController.GetUser)
			users.POST("", userController.CreateUser)
			users.PUT("/:id", userController.UpdateUser)

			usersAdminProtected := users.Group("")
			usersAdminProtected.Use(authMiddleware.RequireRole(appauth.AdminOnly()))
			{
				usersAdminProtected.DELETE("/:id", userController.DeleteUser)
			}
		}

		// Selection widget lookups sit outside the /users gate because
		// advisers also need them when composing committee assignments
		lookups := authenticated.Group("/users")
		lookups.Use(authMiddleware.RequireRole(appauth.Advising()))
		{
			lookups.GET("/students/search", userController.SearchStudents)
			lookups.GET("/advisers", userController.ListAdvisers)
		}

		// Advisee workflow routes
		advisees := authenticated.Group("/advisees")
		advisees.Use(authMiddleware.RequireRole(appauth.Advising()))
		{
			advisees.GET("", adviseeController.ListAdvisees)
			advisees.GET("/:id", adviseeController.GetAdvisee)
			advisees.POST("", adviseeController.CreateAdvisee)
			advisees.PUT("/:id", adviseeController.UpdateAdvisee)
			advisees.PATCH("/:id/status", adviseeController.UpdateAdviseeStatus)
			advisees.DELETE("/:id", adviseeController.DeleteAdvisee)
		}

		// Announcement management routes
		announcements := authenticated.Group("/announcements")
		announcements.Use(authMiddleware.RequireRole(appauth.Staff()))
		{
			announcements.GET("/all", announcementController.ListAllAnnouncements)
			announcements.GET("/:id", announcementController.GetAnnouncement)
			announcements.POST("", announcementController.CreateAnnouncement)
			announcements.PUT("/:id", announcementController.UpdateAnnouncement)
			announcements.DELETE("/:id", announcementController.DeleteAnnouncement)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Success: true,
			Data:    gin.H{"status": "ok"},
		})
	})

	// Prometheus scrape endpoint (public)
	router.GET("/metrics", middleware.MetricsHandler())

	// Swagger routes are set up in bootstrap.go already
}
