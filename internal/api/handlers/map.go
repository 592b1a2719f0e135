package handlers

import (
	"net/http"

	"github.com/randytsao24/gradecast/internal/cache"
	"github.com/randytsao24/gradecast/internal/dataset"
	"github.com/randytsao24/gradecast/internal/grade"
	"github.com/randytsao24/gradecast/internal/mapview"
)

type MapHandler struct {
	data  RestaurantSource
	cache *cache.Cache[[]mapview.Row]
}

func NewMapHandler(data RestaurantSource, rows *cache.Cache[[]mapview.Row]) *MapHandler {
	return &MapHandler{data: data, cache: rows}
}

// Rows returns map-ready markers for the restaurants matching the query filters
func (h *MapHandler) Rows(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query", err.Error())
		return
	}

	rows, err := h.cache.GetOrLoad(q.Key(), func() ([]mapview.Row, error) {
		matches, err := h.data.Query(q)
		if err != nil {
			return nil, err
		}
		return mapview.Project(dataset.Restaurants(matches)), nil
	})
	if err != nil {
		writeQueryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(rows),
		"rows":    rows,
		"legend":  grade.Legend(),
	})
}
