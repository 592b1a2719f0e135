package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/randytsao24/gradecast/internal/dataset"
	"github.com/randytsao24/gradecast/internal/location"
	"github.com/randytsao24/gradecast/internal/mapview"
)

const (
	defaultRadius = 1600 // ~1 mile in meters
	maxRadius     = 8000 // ~5 miles
	minRadius     = 50
	defaultLimit  = 50
	maxLimit      = 500
)

type RestaurantHandler struct {
	data RestaurantSource
}

func NewRestaurantHandler(data RestaurantSource) *RestaurantHandler {
	return &RestaurantHandler{data: data}
}

// List returns restaurants matching the query filters
func (h *RestaurantHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query", err.Error())
		return
	}
	q.Limit = parseIntParam(r, "limit", defaultLimit, 1, maxLimit)

	matches, err := h.data.Query(q)
	if err != nil {
		writeQueryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"count":       len(matches),
		"restaurants": matches,
	})
}

// Get returns one restaurant by CAMIS id
func (h *RestaurantHandler) Get(w http.ResponseWriter, r *http.Request) {
	camis := r.PathValue("camis")

	rest, err := h.data.Get(camis)
	if err != nil {
		writeNotFound(w, camis, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"restaurant": rest,
	})
}

// Popup returns the HTML map popup for one restaurant
func (h *RestaurantHandler) Popup(w http.ResponseWriter, r *http.Request) {
	camis := r.PathValue("camis")

	rest, err := h.data.Get(camis)
	if err != nil {
		writeNotFound(w, camis, err)
		return
	}

	html, err := mapview.PopupHTML(rest)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render popup", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

// GetBoroughs returns all boroughs in the dataset
func (h *RestaurantHandler) GetBoroughs(w http.ResponseWriter, r *http.Request) {
	boroughs := h.data.Boroughs()

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"count":    len(boroughs),
		"boroughs": boroughs,
	})
}

// GetCuisines returns all cuisines in the dataset
func (h *RestaurantHandler) GetCuisines(w http.ResponseWriter, r *http.Request) {
	cuisines := h.data.Cuisines()

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"count":    len(cuisines),
		"cuisines": cuisines,
	})
}

// GetZipCodes returns located zip codes, optionally filtered by borough
func (h *RestaurantHandler) GetZipCodes(w http.ResponseWriter, r *http.Request) {
	zips := h.data.ZipCodes(r.URL.Query().Get("borough"))

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"count":    len(zips),
		"zipcodes": zips,
	})
}

// parseQuery reads the shared restaurant filters. lat and lng must be given together.
func parseQuery(r *http.Request) (dataset.Query, error) {
	params := r.URL.Query()
	q := dataset.Query{
		Borough: params.Get("borough"),
		Cuisine: params.Get("cuisine"),
		Zipcode: params.Get("zipcode"),
		Grade:   params.Get("grade"),
		NearZip: params.Get("near_zip"),
	}

	latStr := strings.TrimSpace(params.Get("lat"))
	lngStr := strings.TrimSpace(params.Get("lng"))
	if latStr != "" || lngStr != "" {
		if latStr == "" || lngStr == "" {
			return q, errors.New("lat and lng query parameters must be given together")
		}
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return q, errors.New("invalid lat parameter")
		}
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			return q, errors.New("invalid lng parameter")
		}
		q.Near = &location.Point{Lat: lat, Lng: lng}
	}

	if q.Near != nil || q.NearZip != "" {
		q.RadiusMeters = float64(parseIntParam(r, "radius", defaultRadius, minRadius, maxRadius))
	}
	return q, nil
}

func writeQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dataset.ErrUnknownZip):
		writeError(w, http.StatusNotFound, "Zip code not found", err.Error())
	case errors.Is(err, dataset.ErrInvalidNear):
		writeError(w, http.StatusBadRequest, "Invalid coordinates", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Query failed", err.Error())
	}
}

func writeNotFound(w http.ResponseWriter, camis string, err error) {
	if errors.Is(err, dataset.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Restaurant not found", "No restaurant with CAMIS "+camis)
		return
	}
	writeError(w, http.StatusInternalServerError, "Lookup failed", err.Error())
}
