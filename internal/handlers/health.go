package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/conectahn/wifi-portal-backend/internal/database"
	"github.com/conectahn/wifi-portal-backend/internal/services"
)

// endpointDirectory is returned by the root descriptor and by the 404
// fallback so portal integrators can discover the surface.
var endpointDirectory = []string{
	"GET  /",
	"GET  /api/health",
	"POST /api/register",
	"GET  /api/users",
	"GET  /api/user/{id}",
	"GET  /api/users/status/{status}",
	"GET  /api/users/contactable",
	"POST /api/contact/{userId}",
	"PUT  /api/user/{id}",
	"GET  /api/stats",
	"GET  /api/export/csv",
	"GET  /api/export/contacts",
}

// ServiceInfo is the root descriptor.
func ServiceInfo(w http.ResponseWriter, r *http.Request) {
	templates := services.TemplateNames()
	sort.Strings(templates)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"service":          "WiFi Portal API",
		"version":          "3.0",
		"endpoints":        endpointDirectory,
		"contactTemplates": templates,
	})
}

// Health reports liveness plus backend connectivity, so operators can tell
// whether new registrations are landing in Mongo or the in-memory fallback.
func Health(w http.ResponseWriter, r *http.Request) {
	mongoUp := database.Healthy(r.Context())

	activeStore := "memory"
	if mongoUp {
		activeStore = "mongodb"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  "ok",
		"mongodb": mongoUp,
		"redis":   database.RedisHealthy(r.Context()),
		"store":   activeStore,
		"time":    time.Now().Format(time.RFC3339),
	})
}

// NotFound answers unmatched routes with the endpoint directory.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]interface{}{
		"success":   false,
		"error":     "Endpoint not found",
		"endpoints": endpointDirectory,
	})
}
