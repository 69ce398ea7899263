package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"voting-api/internal/api/interfaces"
	"voting-api/internal/api/middlewares"
	"voting-api/internal/api/models"
	"voting-api/pkg/logger"
)

// Version is reported by the health endpoint
var Version = "1.0.0"

// HealthCheck reports service and database health
func HealthCheck(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		health := models.HealthResponse{
			Status:      "healthy",
			Timestamp:   time.Now().Unix(),
			Version:     Version,
			Database:    "connected",
			Subscribers: services.Hub().ConnectionCount(),
		}
		status := http.StatusOK

		if err := services.Health(ctx); err != nil {
			logger.FromContext(c, services.GetLogger()).Error("Database health check failed", "error", err)
			health.Status = "unhealthy"
			health.Database = "disconnected"
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, models.BaseResponse{
			Success:   status == http.StatusOK,
			Data:      health,
			Timestamp: health.Timestamp,
			RequestID: c.GetString(middlewares.RequestIDKey),
		})
	}
}
