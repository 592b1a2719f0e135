// Package dataset loads the cleaned restaurant inspection data and answers
// lookups over it.
package dataset

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/randytsao24/gradecast/internal/grade"
	"github.com/randytsao24/gradecast/internal/location"
	"github.com/randytsao24/gradecast/internal/models"
	"github.com/randytsao24/gradecast/internal/textutil"
)

// DefaultRadiusMeters applies to proximity queries that give no radius.
const DefaultRadiusMeters = 1000

var (
	ErrNotFound    = errors.New("restaurant not found")
	ErrUnknownZip  = errors.New("zip code has no located restaurants")
	ErrInvalidNear = errors.New("invalid coordinates")
)

// inspection date layouts seen in NYC Open Data exports
var dateLayouts = []string{
	"2006-01-02T15:04:05.000",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// Query filters restaurants. Empty fields match everything.
type Query struct {
	Borough      string
	Cuisine      string
	Zipcode      string
	Grade        string
	Near         *location.Point
	NearZip      string
	RadiusMeters float64
	Limit        int
}

// Key returns a stable cache key for q.
func (q Query) Key() string {
	var b strings.Builder
	b.WriteString("borough=" + strings.ToLower(textutil.Canonical(q.Borough)))
	b.WriteString("|cuisine=" + strings.ToLower(textutil.Canonical(q.Cuisine)))
	b.WriteString("|zip=" + strings.TrimSpace(q.Zipcode))
	b.WriteString("|grade=" + strings.ToUpper(strings.TrimSpace(q.Grade)))
	if q.Near != nil {
		b.WriteString("|near=" + strconv.FormatFloat(q.Near.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(q.Near.Lng, 'f', 6, 64))
	}
	if q.NearZip != "" {
		b.WriteString("|nearzip=" + strings.TrimSpace(q.NearZip))
	}
	if q.Near != nil || q.NearZip != "" {
		b.WriteString("|radius=" + strconv.FormatFloat(q.radius(), 'f', -1, 64))
	}
	b.WriteString("|limit=" + strconv.Itoa(q.Limit))
	return b.String()
}

func (q Query) radius() float64 {
	if q.RadiusMeters <= 0 {
		return DefaultRadiusMeters
	}
	return q.RadiusMeters
}

// Match is a restaurant returned by Query. Distances are set for proximity queries.
type Match struct {
	models.Restaurant
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
	DistanceMiles  *float64 `json:"distance_miles,omitempty"`
}

// Restaurants strips the distances from matches.
func Restaurants(matches []Match) []models.Restaurant {
	out := make([]models.Restaurant, len(matches))
	for i, m := range matches {
		out[i] = m.Restaurant
	}
	return out
}

// Service holds the latest inspection of each restaurant. It is immutable after
// construction and safe for concurrent use.
type Service struct {
	restaurants []models.Restaurant
	byID        map[string]int
	zips        *location.ZipCodeService
}

// New builds a service from raw inspection rows, keeping only the most recent
// inspection per CAMIS.
func New(records []models.Restaurant) *Service {
	latest := Latest(records)

	s := &Service{
		restaurants: latest,
		byID:        make(map[string]int, len(latest)),
		zips:        location.NewZipCodeService(),
	}
	for i, r := range latest {
		if r.CAMIS != "" {
			s.byID[r.CAMIS] = i
		}
		if r.Zipcode != nil {
			var p location.Point
			if r.HasCoordinates() {
				p = location.Point{Lat: *r.Latitude, Lng: *r.Longitude}
			}
			s.zips.Add(*r.Zipcode, r.Borough, p)
		}
	}
	return s
}

// Load reads the dataset at path. Files ending in .db, .sqlite or .sqlite3 are
// read as SQLite; anything else as CSV.
func Load(ctx context.Context, path string) (*Service, error) {
	var (
		records []models.Restaurant
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		records, err = LoadSQLite(ctx, path)
	default:
		records, err = LoadCSV(path)
	}
	if err != nil {
		return nil, fmt.Errorf("loading dataset %s: %w", filepath.Base(path), err)
	}
	return New(records), nil
}

// Latest keeps the most recent inspection for each CAMIS, ordered newest first.
// Rows with unparseable dates sort after dated rows; rows without a CAMIS are all kept.
func Latest(records []models.Restaurant) []models.Restaurant {
	type dated struct {
		r  models.Restaurant
		at time.Time
		ok bool
	}

	rows := make([]dated, len(records))
	for i, r := range records {
		at, ok := parseDate(r.InspectionDate)
		rows[i] = dated{r: r, at: at, ok: ok}
	}

	slices.SortStableFunc(rows, func(a, b dated) int {
		switch {
		case a.ok && !b.ok:
			return -1
		case !a.ok && b.ok:
			return 1
		case a.ok && b.ok:
			return b.at.Compare(a.at)
		}
		return 0
	})

	seen := make(map[string]bool, len(rows))
	out := make([]models.Restaurant, 0, len(rows))
	for _, d := range rows {
		if d.r.CAMIS != "" {
			if seen[d.r.CAMIS] {
				continue
			}
			seen[d.r.CAMIS] = true
		}
		out = append(out, d.r)
	}
	return out
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// All returns every restaurant.
func (s *Service) All() []models.Restaurant {
	return slices.Clone(s.restaurants)
}

// Count returns the number of restaurants.
func (s *Service) Count() int {
	return len(s.restaurants)
}

// Get returns the restaurant with the given CAMIS id.
func (s *Service) Get(camis string) (models.Restaurant, error) {
	i, ok := s.byID[strings.TrimSpace(camis)]
	if !ok {
		return models.Restaurant{}, fmt.Errorf("%w: %s", ErrNotFound, camis)
	}
	return s.restaurants[i], nil
}

// Query returns the restaurants matching q. Proximity queries are sorted by distance;
// others keep dataset order.
func (s *Service) Query(q Query) ([]Match, error) {
	near := q.Near
	if near == nil && strings.TrimSpace(q.NearZip) != "" {
		zip, ok := s.zips.Get(q.NearZip)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownZip, q.NearZip)
		}
		near = &zip.Center
	}
	if near != nil && !near.Valid() {
		return nil, ErrInvalidNear
	}

	borough := textutil.Canonical(q.Borough)
	cuisine := textutil.Canonical(q.Cuisine)
	zipcode := strings.TrimSpace(q.Zipcode)
	wantGrade, _ := grade.Normalize(q.Grade)
	radius := q.radius()

	matches := make([]Match, 0)
	for _, r := range s.restaurants {
		if borough != "" && !strings.EqualFold(r.Borough, borough) {
			continue
		}
		if cuisine != "" && !strings.EqualFold(r.CuisineDescription, cuisine) {
			continue
		}
		if zipcode != "" && (r.Zipcode == nil || strings.TrimSpace(*r.Zipcode) != zipcode) {
			continue
		}
		if wantGrade != "" {
			if r.Grade == nil {
				continue
			}
			if g, _ := grade.Normalize(*r.Grade); g != wantGrade {
				continue
			}
		}

		m := Match{Restaurant: r}
		if near != nil {
			if !r.HasCoordinates() {
				continue
			}
			dist := near.DistanceTo(location.Point{Lat: *r.Latitude, Lng: *r.Longitude})
			if dist > radius {
				continue
			}
			miles := location.MetersToMiles(dist)
			m.DistanceMeters = &dist
			m.DistanceMiles = &miles
		}
		matches = append(matches, m)
	}

	if near != nil {
		slices.SortStableFunc(matches, func(a, b Match) int {
			return cmp.Compare(*a.DistanceMeters, *b.DistanceMeters)
		})
	}
	if q.Limit > 0 && q.Limit < len(matches) {
		matches = matches[:q.Limit]
	}
	return matches, nil
}

// Boroughs returns the distinct boroughs in the dataset, sorted.
func (s *Service) Boroughs() []string {
	return s.distinct(func(r models.Restaurant) string { return r.Borough })
}

// Cuisines returns the distinct cuisines in the dataset, sorted.
func (s *Service) Cuisines() []string {
	return s.distinct(func(r models.Restaurant) string { return r.CuisineDescription })
}

// ZipCodes returns the located zip codes, optionally limited to one borough.
func (s *Service) ZipCodes(borough string) []location.ZipCode {
	if borough = textutil.Canonical(borough); borough != "" {
		return s.zips.GetByBorough(borough)
	}
	return s.zips.GetAll()
}

func (s *Service) distinct(field func(models.Restaurant) string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, r := range s.restaurants {
		v := field(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
