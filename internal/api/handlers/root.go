package handlers

import (
	"net/http"
)

type RootHandler struct{}

func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

func (h *RootHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "gradecast",
		"description": "NYC restaurant inspection grade predictions and map data",
		"version":     version,
		"endpoints": map[string]string{
			"GET /api":                            "API information",
			"GET /health":                         "Health check",
			"GET /restaurants":                    "Search restaurants (borough, cuisine, zipcode, grade, lat, lng, near_zip, radius, limit)",
			"GET /restaurants/boroughs":           "List boroughs",
			"GET /restaurants/cuisines":           "List cuisines",
			"GET /restaurants/zipcodes":           "List located zip codes (borough)",
			"GET /restaurants/{camis}":            "Restaurant details",
			"GET /restaurants/{camis}/popup":      "Map popup HTML",
			"GET /restaurants/{camis}/prediction": "Predicted grade for a restaurant",
			"POST /predict":                       "Predict a grade from borough, zipcode, cuisine_description, critical_flag_bin, score",
			"GET /map":                            "Map markers (same filters as /restaurants)",
			"GET /grades/colors":                  "Grade color legend",
		},
	})
}

func (h *RootHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":   "Route not found",
		"message": "Check the root endpoint (/api) for available routes",
	})
}
