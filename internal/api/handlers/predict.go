package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/randytsao24/gradecast/internal/features"
	"github.com/randytsao24/gradecast/internal/grade"
)

const maxPredictBody = 1 << 20

type PredictHandler struct {
	data  RestaurantSource
	model GradePredictor
}

func NewPredictHandler(data RestaurantSource, model GradePredictor) *PredictHandler {
	return &PredictHandler{data: data, model: model}
}

// Predict scores a JSON record carrying the five model fields
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPredictBody)).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "Body must be a JSON object")
		return
	}
	if fields == nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "Body must be a JSON object")
		return
	}

	res, err := h.model.RunFields(fields)
	if err != nil {
		writePredictError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"prediction": res,
		"color":      grade.Color(res.Grade),
	})
}

// PredictRestaurant scores a restaurant from the dataset
func (h *PredictHandler) PredictRestaurant(w http.ResponseWriter, r *http.Request) {
	camis := r.PathValue("camis")

	rest, err := h.data.Get(camis)
	if err != nil {
		writeNotFound(w, camis, err)
		return
	}

	res, err := h.model.RunRestaurant(rest)
	if err != nil {
		writePredictError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"restaurant":     rest,
		"prediction":     res,
		"color":          grade.Color(res.Grade),
		"official_grade": rest.Grade,
	})
}

func writePredictError(w http.ResponseWriter, err error) {
	var missing *features.MissingFieldError
	if errors.As(err, &missing) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":     "Missing required field",
			"message":   missing.Error(),
			"field":     missing.Field,
			"available": missing.Available,
		})
		return
	}

	slog.Error("prediction failed", "error", err)
	writeError(w, http.StatusInternalServerError, "Prediction failed", err.Error())
}
