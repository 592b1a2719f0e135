package handlers

import (
	"github.com/randytsao24/gradecast/internal/dataset"
	"github.com/randytsao24/gradecast/internal/location"
	"github.com/randytsao24/gradecast/internal/models"
	"github.com/randytsao24/gradecast/internal/predict"
)

// RestaurantSource abstracts the inspection dataset for testability.
type RestaurantSource interface {
	Count() int
	Get(camis string) (models.Restaurant, error)
	Query(q dataset.Query) ([]dataset.Match, error)
	Boroughs() []string
	Cuisines() []string
	ZipCodes(borough string) []location.ZipCode
}

// GradePredictor abstracts the encode/predict/rank pipeline.
type GradePredictor interface {
	Classes() []string
	RunFields(fields map[string]any) (predict.Result, error)
	RunRestaurant(r models.Restaurant) (predict.Result, error)
}
