// Package handlers contains HTTP request handlers
package handlers

import (
	"net/http"
	"time"
)

const version = "1.0.0"

type HealthHandler struct {
	startTime time.Time
	data      RestaurantSource
	model     GradePredictor
}

func NewHealthHandler(data RestaurantSource, model GradePredictor) *HealthHandler {
	return &HealthHandler{startTime: time.Now(), data: data, model: model}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "OK",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"version":     version,
		"uptime":      time.Since(h.startTime).String(),
		"restaurants": h.data.Count(),
		"classes":     h.model.Classes(),
	})
}
