package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "ensotrade/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler     *AuthHandler
	UserHandler     *UserHandler
	AnalysisHandler *AnalysisHandler
	JWTSecret       string
	AllowedOrigins  []string
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     config.AllowedOrigins,
		AllowCredentials: true,
	}))
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":  "healthy",
			"service": "ensotrade-api",
		})
	})

	// API group
	api := e.Group("/api")

	// Auth routes (public, delegated to the hosted provider)
	auth := api.Group("/auth")
	{
		auth.POST("/register", config.AuthHandler.Register)
		auth.POST("/login", config.AuthHandler.Login)
		auth.POST("/resend-verification", config.AuthHandler.ResendVerification)
	}

	authRequired := custommiddleware.NewAuthMiddleware(config.JWTSecret)

	// User routes (protected)
	user := api.Group("/user", authRequired)
	{
		user.GET("/profile", config.UserHandler.GetProfile)
		user.PUT("/profile", config.UserHandler.UpdateProfile)
		user.POST("/upgrade-to-pro", config.UserHandler.UpgradeToPro)
	}

	// Analysis routes (protected)
	api.POST("/analyze", config.AnalysisHandler.Analyze, authRequired)
	api.GET("/analyses", config.AnalysisHandler.ListAnalyses, authRequired)
}
