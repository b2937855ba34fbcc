package handlers

import (
	"net/http"
	"os"
	"time"
)

// Root serves basic service information at /.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]string{
		"message":     "Welcome to AquaLytics API",
		"description": "Performance measurement store for competitive swimming",
		"version":     h.version,
		"health":      "/health",
	})
}

// Ping is a liveness probe that does not touch the database.
func (h *Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"message":   "AquaLytics API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
	})
}

// Health is a readiness probe that includes a database round-trip. The
// health check itself never errors; an unreachable database is reported as
// status 503 with "database": "down".
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	dbStatus := "up"
	status := "healthy"
	code := http.StatusOK
	if !h.db.HealthCheck(r.Context()) {
		dbStatus = "down"
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	h.jsonResponse(w, code, map[string]string{
		"status":      status,
		"service":     "AquaLytics API",
		"version":     h.version,
		"environment": env,
		"database":    dbStatus,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}
