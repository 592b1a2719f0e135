package features

import (
	"fmt"
	"sort"
	"strings"

	"github.com/randytsao24/gradecast/internal/models"
)

// Record keys the encoder consumes, in vector order.
const (
	FieldBorough         = "borough"
	FieldZipcode         = "zipcode"
	FieldCuisine         = "cuisine_description"
	FieldCriticalFlagBin = "critical_flag_bin"
	FieldScore           = "score"
)

// Required lists the keys a loosely-typed record must carry.
var Required = []string{FieldBorough, FieldZipcode, FieldCuisine, FieldCriticalFlagBin, FieldScore}

// Input holds the raw value of each required field. Values keep whatever type the
// source gave them (string, number, bool, nil); Encode coerces them.
type Input struct {
	Borough            any
	Zipcode            any
	CuisineDescription any
	CriticalFlagBin    any
	Score              any
}

// MissingFieldError is returned when a record lacks a required key.
type MissingFieldError struct {
	Field     string
	Available []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s (available: %s)", e.Field, strings.Join(e.Available, ", "))
}

// ParseInput validates that fields carries every required key and collects their values.
// A key holding nil counts as present; only an absent key is an error.
func ParseInput(fields map[string]any) (Input, error) {
	for _, key := range Required {
		if _, ok := fields[key]; !ok {
			available := make([]string, 0, len(fields))
			for k := range fields {
				available = append(available, k)
			}
			sort.Strings(available)
			return Input{}, &MissingFieldError{Field: key, Available: available}
		}
	}

	return Input{
		Borough:            fields[FieldBorough],
		Zipcode:            fields[FieldZipcode],
		CuisineDescription: fields[FieldCuisine],
		CriticalFlagBin:    fields[FieldCriticalFlagBin],
		Score:              fields[FieldScore],
	}, nil
}

// InputFromRestaurant extracts the model input from a typed record.
func InputFromRestaurant(r models.Restaurant) Input {
	in := Input{
		Borough:            r.Borough,
		CuisineDescription: r.CuisineDescription,
		CriticalFlagBin:    r.CriticalFlagBin,
	}
	if r.Zipcode != nil {
		in.Zipcode = *r.Zipcode
	}
	if r.Score != nil {
		in.Score = *r.Score
	}
	return in
}
