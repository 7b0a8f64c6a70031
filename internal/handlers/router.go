package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/registration-service/internal/auth"
	"github.com/SAP-F-2025/registration-service/internal/models"
	"github.com/SAP-F-2025/registration-service/internal/repositories"
	"github.com/SAP-F-2025/registration-service/internal/services"
	"github.com/SAP-F-2025/registration-service/internal/utils"
)

type HandlerManager struct {
	authHandler        *AuthHandler
	studentHandler     *StudentHandler
	userStudentHandler *UserStudentHandler
	authMiddleware     *JWTAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	tokens *auth.TokenManager,
	userRepo repositories.UserRepository,
	db *gorm.DB,
) *HandlerManager {
	authMiddleware := NewJWTAuthMiddleware(tokens, userRepo, db)

	return &HandlerManager{
		authHandler:        NewAuthHandler(serviceManager.Auth(), logger),
		studentHandler:     NewStudentHandler(serviceManager.Student(), logger),
		userStudentHandler: NewUserStudentHandler(serviceManager.UserStudent(), logger),
		authMiddleware:     authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	// Auth routes - no authentication required
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/signup", hm.authHandler.SignUp)
		authRoutes.POST("/signin", hm.authHandler.SignIn)
	}

	// Student registry routes
	students := api.Group("/students")
	students.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Write operations - Moderators and Admins only
		students.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleModerator), hm.studentHandler.CreateStudent)
		students.POST("/bulk", hm.authMiddleware.RequireRoleMiddleware(models.RoleModerator), hm.studentHandler.CreateStudentsBulk)
		students.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleModerator), hm.studentHandler.UpdateStudent)
		students.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleModerator), hm.studentHandler.DeleteStudent)
		students.DELETE("/bulk", hm.authMiddleware.RequireRoleMiddleware(models.RoleModerator), hm.studentHandler.DeleteStudentsBulk)

		// Read operations - all authenticated users
		students.GET("", hm.studentHandler.ListStudents)
		students.GET("/paginated", hm.studentHandler.ListStudentsPaginated)
		students.GET("/:id", hm.studentHandler.GetStudent)
		students.GET("/email/:email", hm.studentHandler.GetStudentByEmail)

		// Search operations
		students.GET("/search", hm.studentHandler.SearchStudents)
		students.GET("/search/name", hm.studentHandler.SearchStudentsByName)
		students.GET("/search/email", hm.studentHandler.SearchStudentsByEmail)

		// Enrollment date operations
		students.GET("/enrollment/date", hm.studentHandler.ListStudentsByEnrollmentDate)
		students.GET("/enrollment/date-range", hm.studentHandler.ListStudentsByEnrollmentDateRange)

		// Counts and checks
		students.GET("/count", hm.studentHandler.CountStudents)
		students.GET("/count/date", hm.studentHandler.CountStudentsByEnrollmentDate)
		students.GET("/count/date-range", hm.studentHandler.CountStudentsByEnrollmentDateRange)
		students.GET("/exists/email", hm.studentHandler.CheckStudentEmailExists)
		students.GET("/exists/:id", hm.studentHandler.CheckStudentExists)
	}

	// Account-backed student routes
	profiles := api.Group("/profiles")
	profiles.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Self-service operations
		profiles.GET("", hm.userStudentHandler.ListStudents)
		profiles.GET("/me", hm.userStudentHandler.GetCurrentStudent)
		profiles.POST("/complete-profile", hm.userStudentHandler.CompleteProfile)
		profiles.PUT("/profile", hm.userStudentHandler.UpdateProfile)

		// Per-id operations (self-or-elevated checks live in the handlers)
		profiles.GET("/:id", hm.userStudentHandler.GetStudent)
		profiles.DELETE("/:id", hm.userStudentHandler.DeleteStudent)

		// Elevated operations
		profiles.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.userStudentHandler.UpdateStudent)
		profiles.GET("/search", hm.authMiddleware.RequireRoleMiddleware(models.RoleModerator), hm.userStudentHandler.SearchStudents)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "registration-service",
		})
	})
}
