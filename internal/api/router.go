package api

import (
	"net/http"

	"shiplabel/internal/api/middleware"
	"shiplabel/internal/modules/labels"
	"shiplabel/internal/modules/users"

	"github.com/labstack/echo/v4"
)

// SetupRoutes sets up all the API endpoints for the application.
func SetupRoutes(
	e *echo.Echo,
	jwtSecret string,
	userHandler *users.Handler,
	labelHandler *labels.Handler,
) {
	authMiddleware := middleware.JWTAuth(jwtSecret)

	// --- Public Routes ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Shipping Label Service"})
	})

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", userHandler.Signup)
		authGroup.POST("/login", userHandler.Login)
		authGroup.GET("/google/login", userHandler.GoogleLogin)
		authGroup.GET("/google/callback", userHandler.GoogleCallback)
		authGroup.GET("/me", userHandler.Me, authMiddleware)
	}

	// --- Shipping Label Routes ---
	labelGroup := e.Group("/labels", authMiddleware)
	{
		labelGroup.GET("", labelHandler.ListLabels)       // paginated, ?search= and ?status= filters
		labelGroup.POST("", labelHandler.CreateLabel)     // quote + purchase cheapest eligible rate
		labelGroup.POST("/rates", labelHandler.GetRates)  // quote-only, nothing purchased
		labelGroup.GET("/stats", labelHandler.GetStats)
		labelGroup.GET("/:labelId", labelHandler.GetLabel)
		labelGroup.DELETE("/:labelId", labelHandler.CancelLabel)
	}
}
