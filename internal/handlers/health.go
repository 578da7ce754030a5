package handlers

import (
	"context"
	"net/http"
	"time"

	"opsassistant/internal/models"

	"github.com/labstack/echo/v4"
)

// HealthChecker pings a dependency
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler handles basic health check requests
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /healthz [get]
func HealthHandler(version string) echo.HandlerFunc {
	return func(c echo.Context) error {
		response := models.HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
			Version:   version,
		}

		return c.JSON(http.StatusOK, response)
	}
}

// BackendHealthHandler checks that the AI/Gmail backend answers its health check
// @Summary Backend health
// @Tags health
// @Produce json
// @Success 200 {object} models.BackendHealthResponse
// @Failure 503 {object} models.BackendHealthResponse
// @Router /healthz/backend [get]
func BackendHealthHandler(checker HealthChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		response := models.BackendHealthResponse{
			Status:    "unknown",
			Timestamp: time.Now().UTC(),
		}

		if checker == nil {
			response.Status = "unhealthy"
			response.Error = "Backend client not initialized"
			return c.JSON(http.StatusServiceUnavailable, response)
		}

		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		err := checker.Health(ctx)
		response.Latency = time.Since(start)

		if err != nil {
			response.Status = "unhealthy"
			response.Error = err.Error()
			return c.JSON(http.StatusServiceUnavailable, response)
		}

		response.Status = "healthy"
		response.Reachable = true

		return c.JSON(http.StatusOK, response)
	}
}

// StoreHealthHandler checks the session store the dashboard keeps view state in
// @Summary Session store health
// @Tags health
// @Produce json
// @Success 200 {object} models.StoreHealthResponse
// @Failure 503 {object} models.StoreHealthResponse
// @Router /healthz/store [get]
func StoreHealthHandler(kind string, checker HealthChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		response := models.StoreHealthResponse{
			Status:    "unknown",
			Store:     kind,
			Timestamp: time.Now().UTC(),
		}

		if checker == nil {
			response.Status = "unhealthy"
			response.Error = "Session store not initialized"
			return c.JSON(http.StatusServiceUnavailable, response)
		}

		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		err := checker.Health(ctx)
		response.Latency = time.Since(start)

		if err != nil {
			response.Status = "unhealthy"
			response.Error = err.Error()
			return c.JSON(http.StatusServiceUnavailable, response)
		}

		response.Status = "healthy"
		return c.JSON(http.StatusOK, response)
	}
}

// RootHandler handles requests to the root endpoint
func RootHandler(version string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Ops Assistant Dashboard",
			"version": version,
			"status":  "running",
		})
	}
}
