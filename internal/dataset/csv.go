package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/randytsao24/gradecast/internal/models"
	"github.com/randytsao24/gradecast/internal/textutil"
)

// Cleaned-dataset column names. Header matching ignores case and surrounding space.
const (
	colCAMIS           = "camis"
	colDBA             = "dba"
	colBoro            = "boro"
	colBorough         = "borough"
	colZipcode         = "zipcode"
	colCuisine         = "cuisine_description"
	colCriticalFlag    = "critical_flag"
	colCriticalFlagBin = "critical_flag_bin"
	colScore           = "score"
	colGrade           = "grade"
	colInspectionDate  = "inspection_date"
	colLatitude        = "latitude"
	colLongitude       = "longitude"
)

// LoadCSV reads the cleaned inspection CSV at path.
func LoadCSV(path string) ([]models.Restaurant, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer file.Close()

	return ReadCSV(file)
}

// ReadCSV parses cleaned inspection rows. "boro" is accepted for "borough";
// critical_flag_bin is derived from critical_flag when the column is absent.
func ReadCSV(r io.Reader) ([]models.Restaurant, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("dataset has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	if _, ok := cols[colBorough]; !ok {
		if i, ok := cols[colBoro]; ok {
			cols[colBorough] = i
		}
	}
	_, hasFlagBin := cols[colCriticalFlagBin]

	var restaurants []models.Restaurant
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d: %w", line, err)
		}

		row := csvRow{cols: cols, record: record}
		rest := models.Restaurant{
			CAMIS:              row.text(colCAMIS),
			DBA:                row.optional(colDBA),
			Borough:            textutil.Canonical(row.text(colBorough)),
			Zipcode:            row.optional(colZipcode),
			CuisineDescription: textutil.Canonical(row.text(colCuisine)),
			CriticalFlag:       row.text(colCriticalFlag),
			Score:              row.float(colScore),
			Grade:              row.optional(colGrade),
			InspectionDate:     row.text(colInspectionDate),
			Latitude:           row.float(colLatitude),
			Longitude:          row.float(colLongitude),
		}
		if hasFlagBin {
			rest.CriticalFlagBin = row.flag(colCriticalFlagBin)
		} else {
			rest.CriticalFlagBin = criticalFlagBin(rest.CriticalFlag)
		}

		restaurants = append(restaurants, rest)
	}

	return restaurants, nil
}

func criticalFlagBin(flag string) int {
	if strings.EqualFold(strings.TrimSpace(flag), "critical") {
		return 1
	}
	return 0
}

type csvRow struct {
	cols   map[string]int
	record []string
}

func (r csvRow) text(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r csvRow) optional(col string) *string {
	s := r.text(col)
	if s == "" {
		return nil
	}
	return &s
}

func (r csvRow) float(col string) *float64 {
	s := r.text(col)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func (r csvRow) flag(col string) int {
	s := r.text(col)
	if s == "" {
		return 0
	}
	f, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return int(f)
}
