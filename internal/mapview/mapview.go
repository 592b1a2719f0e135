// Package mapview prepares restaurant records for the map layer.
package mapview

import (
	"math"
	"strconv"
	"strings"

	"github.com/randytsao24/gradecast/internal/grade"
	"github.com/randytsao24/gradecast/internal/models"
)

const (
	UnknownName  = "Unknown Restaurant"
	NotAvailable = "N/A"
)

// Row is one map marker.
type Row struct {
	Latitude           float64    `json:"latitude"`
	Longitude          float64    `json:"longitude"`
	DBA                *string    `json:"dba"`
	Name               string     `json:"name"`
	Grade              *string    `json:"grade"`
	GradeDisplay       string     `json:"grade_display"`
	CuisineDescription string     `json:"cuisine_description"`
	Borough            string     `json:"borough"`
	Zipcode            *string    `json:"zipcode"`
	Score              *float64   `json:"score"`
	ScoreDisplay       string     `json:"score_display"`
	Color              grade.RGBA `json:"color"`
}

// Project converts records to map rows, dropping any without usable coordinates.
// Input order is preserved and the result is never nil.
func Project(records []models.Restaurant) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		if !located(r) {
			continue
		}

		score := r.Score
		if score != nil && math.IsNaN(*score) {
			score = nil
		}

		rows = append(rows, Row{
			Latitude:           *r.Latitude,
			Longitude:          *r.Longitude,
			DBA:                r.DBA,
			Name:               Display(r.DBA, UnknownName),
			Grade:              r.Grade,
			GradeDisplay:       Display(r.Grade, NotAvailable),
			CuisineDescription: r.CuisineDescription,
			Borough:            r.Borough,
			Zipcode:            r.Zipcode,
			Score:              score,
			ScoreDisplay:       FormatScore(score),
			Color:              grade.RGBAOf(r.Grade),
		})
	}
	return rows
}

func located(r models.Restaurant) bool {
	return r.HasCoordinates() && !math.IsNaN(*r.Latitude) && !math.IsNaN(*r.Longitude)
}

// Display returns *v, or fallback when v is nil or blank.
func Display(v *string, fallback string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return fallback
	}
	return *v
}

// FormatScore renders a score the way the cleaned dataset prints it ("12.0"),
// or "N/A" when absent.
func FormatScore(score *float64) string {
	if score == nil || math.IsNaN(*score) {
		return NotAvailable
	}
	s := strconv.FormatFloat(*score, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
