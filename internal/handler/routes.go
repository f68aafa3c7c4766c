package handler

import (
	"github.com/budgetwise/budgetwise-backend/internal/middleware"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, authHandler *AuthHandler, paymentHandler *PaymentHandler, scheduleHandler *ScheduleHandler, wsHandler *WebSocketHandler) {
	// API docs (public)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API version 1
	api := e.Group("/api/v1")
	api.GET("/openapi.json", ServeOpenAPI3Spec)

	// Auth routes. The callback provisions the workspace, so it only needs a valid token.
	auth := api.Group("/auth")
	auth.POST("/callback", authHandler.Callback, authMiddleware.AuthenticateToken())
	auth.GET("/me", authHandler.Me, authMiddleware.Authenticate())

	// Payment routes (protected)
	payments := api.Group("/payments")
	payments.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	payments.POST("", paymentHandler.CreatePayment)
	payments.GET("", paymentHandler.GetPayments)
	payments.GET("/:id", paymentHandler.GetPayment)
	payments.PUT("/:id", paymentHandler.UpdatePayment)
	payments.PATCH("/:id/active", paymentHandler.SetActive)
	payments.DELETE("/:id", paymentHandler.DeletePayment)
	payments.GET("/:id/next", scheduleHandler.GetNextPaymentDate)
	payments.GET("/:id/dates", scheduleHandler.GetPaymentDates)

	// Schedule routes (protected)
	sched := api.Group("/schedule")
	sched.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	sched.GET("/upcoming", scheduleHandler.GetUpcoming)
	sched.GET("/projection/:year/:month", scheduleHandler.GetProjection)
	sched.GET("/calendar/:year/:month", scheduleHandler.GetCalendar)
	sched.GET("/forecast", scheduleHandler.GetForecast)
	sched.GET("/summary", scheduleHandler.GetSummary)

	// Realtime updates (token may come from the query string on upgrade)
	api.GET("/ws", wsHandler.HandleWS, authMiddleware.Authenticate())
}
