package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gradely/gradebook-backend/internal/config"
	"github.com/gradely/gradebook-backend/internal/handler"
	"github.com/gradely/gradebook-backend/internal/middleware"
	"github.com/gradely/gradebook-backend/internal/response"
	"github.com/gradely/gradebook-backend/internal/service"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Course     *handler.CourseHandler
	Test       *handler.TestHandler
	TestResult *handler.TestResultHandler
	Enrollment *handler.EnrollmentHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// Route shapes follow the resource hierarchy: tests hang off courses,
// results off tests, enrollments off users.
func SetupRouter(
	authService *service.AuthService,
	testService *service.TestService,
	resultService *service.TestResultService,
	authLimiter *middleware.RateLimiter,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Authorization"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Public Auth (Rate Limited) ─────────────────────────────────
	// The 8-digit code space is small; the limiter keeps guessing expensive.
	public := router.Group("/")
	public.Use(authLimiter.Middleware())
	{
		public.POST("/login", handlers.Auth.Login)
		public.POST("/authenticate", handlers.Auth.Authenticate)
	}

	// ─── 2. Authenticated Routes ───────────────────────────────────────
	// Credentials are re-derived from the token store on every request.
	api := router.Group("/")
	api.Use(middleware.RequireAPIToken(authService, log))
	{
		api.GET("/profile", handlers.Auth.GetProfile)
		api.POST("/logout", handlers.Auth.Logout)

		// Users
		api.GET("/users/:user_id", handlers.User.GetUser)
		api.POST("/users", middleware.RequireAdmin(), handlers.User.CreateUser)
		api.PUT("/users/:user_id", middleware.RequireSelfOrAdmin("user_id"), handlers.User.UpdateUser)
		api.DELETE("/users/:user_id", middleware.RequireSelfOrAdmin("user_id"), handlers.User.DeleteUser)

		// Enrollments
		api.GET("/users/:user_id/courses", middleware.RequireSelfOrAdmin("user_id"), handlers.Enrollment.ListUserCourses)
		api.POST("/users/:user_id/courses", middleware.RequireSelfOrAdmin("user_id"), handlers.Enrollment.EnrollUser)
		api.DELETE("/users/:user_id/courses/:course_id", middleware.RequireSelfOrAdmin("user_id"), handlers.Enrollment.WithdrawUser)

		// A user's own results
		api.GET("/users/:user_id/test-results", middleware.RequireSelfOrAdmin("user_id"), handlers.TestResult.ListUserTestResults)

		// Courses
		api.GET("/courses", handlers.Course.ListCourses)
		api.GET("/courses/:course_id", handlers.Course.GetCourse)
		api.POST("/courses", handlers.Course.CreateCourse)
		api.PUT("/courses/:course_id", middleware.RequireCourseTeacherOrAdmin("course_id"), handlers.Course.UpdateCourse)
		api.DELETE("/courses/:course_id", middleware.RequireCourseTeacherOrAdmin("course_id"), handlers.Course.DeleteCourse)

		// Tests
		api.POST("/courses/:course_id/tests", middleware.RequireCourseTeacherOrAdmin("course_id"), handlers.Test.CreateTest)
		api.GET("/courses/tests/:test_id", handlers.Test.GetTest)
		api.PUT("/courses/tests/:test_id", middleware.RequireTestTeacherOrAdmin("test_id", testService.CourseIDOf), handlers.Test.UpdateTest)
		api.DELETE("/courses/tests/:test_id", middleware.RequireTestTeacherOrAdmin("test_id", testService.CourseIDOf), handlers.Test.DeleteTest)

		// Test results
		api.GET("/courses/tests/:test_id/test-results", middleware.RequireTestTeacherOrAdmin("test_id", testService.CourseIDOf), handlers.TestResult.ListTestResults)
		api.POST("/courses/tests/:test_id/test-results", middleware.RequireTestTeacherOrAdmin("test_id", testService.CourseIDOf), handlers.TestResult.CreateTestResult)
		api.PUT("/courses/tests/test-results/:test_result_id", middleware.RequireTestResultGraderOrAdmin("test_result_id", resultService.GraderIDOf), handlers.TestResult.UpdateTestResult)
		api.DELETE("/courses/tests/test-results/:test_result_id", middleware.RequireTestResultGraderOrAdmin("test_result_id", resultService.GraderIDOf), handlers.TestResult.DeleteTestResult)
	}

	return router
}
