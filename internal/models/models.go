// Package models defines shared data types
package models

// Restaurant is the latest known inspection state of one restaurant.
// Optional fields are nil when the source row left them blank.
type Restaurant struct {
	CAMIS              string   `json:"camis"`
	DBA                *string  `json:"dba"`
	Borough            string   `json:"borough"`
	Zipcode            *string  `json:"zipcode"`
	CuisineDescription string   `json:"cuisine_description"`
	CriticalFlag       string   `json:"critical_flag,omitempty"`
	CriticalFlagBin    int      `json:"critical_flag_bin"`
	Score              *float64 `json:"score"`
	Grade              *string  `json:"grade"`
	InspectionDate     string   `json:"inspection_date,omitempty"`
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (r Restaurant) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Ptr returns a pointer to v, for filling optional fields.
func Ptr[T any](v T) *T {
	return &v
}
