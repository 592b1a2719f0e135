package location

import (
	"sort"
	"strings"
	"sync"
)

// ZipCode is a ZIP area summarised from the restaurants located in it
type ZipCode struct {
	Code        string `json:"code"`
	Borough     string `json:"borough"`
	Center      Point  `json:"center"`
	Restaurants int    `json:"restaurants"`
}

type zipAccumulator struct {
	borough  string
	latSum   float64
	lngSum   float64
	points   int
	boroughs map[string]int
}

// ZipCodeService indexes ZIP codes by the restaurant locations seen in each one
type ZipCodeService struct {
	zipCodes map[string]*zipAccumulator
	mu       sync.RWMutex
}

// NewZipCodeService creates an empty zip code index
func NewZipCodeService() *ZipCodeService {
	return &ZipCodeService{
		zipCodes: make(map[string]*zipAccumulator),
	}
}

// Add records one restaurant at p in zip code. Invalid points count toward the
// borough but not the center.
func (s *ZipCodeService) Add(code, borough string, p Point) {
	code = strings.TrimSpace(code)
	if code == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.zipCodes[code]
	if !ok {
		acc = &zipAccumulator{boroughs: make(map[string]int)}
		s.zipCodes[code] = acc
	}
	if borough != "" {
		acc.boroughs[borough]++
		if acc.borough == "" || acc.boroughs[borough] > acc.boroughs[acc.borough] {
			acc.borough = borough
		}
	}
	if p.Valid() && p.InNYC() {
		acc.latSum += p.Lat
		acc.lngSum += p.Lng
		acc.points++
	}
}

// Get returns a zip code by its code. Codes with no located restaurants are not found.
func (s *ZipCodeService) Get(code string) (ZipCode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	code = strings.TrimSpace(code)
	acc, exists := s.zipCodes[code]
	if !exists || acc.points == 0 {
		return ZipCode{}, false
	}
	return acc.zipCode(code), true
}

// GetAll returns all located zip codes ordered by code
func (s *ZipCodeService) GetAll() []ZipCode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]ZipCode, 0, len(s.zipCodes))
	for code, acc := range s.zipCodes {
		if acc.points == 0 {
			continue
		}
		result = append(result, acc.zipCode(code))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Code < result[j].Code
	})
	return result
}

// GetByBorough returns the located zip codes whose majority borough is borough
func (s *ZipCodeService) GetByBorough(borough string) []ZipCode {
	var result []ZipCode
	for _, zip := range s.GetAll() {
		if strings.EqualFold(zip.Borough, borough) {
			result = append(result, zip)
		}
	}
	return result
}

// Count returns the number of located zip codes
func (s *ZipCodeService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, acc := range s.zipCodes {
		if acc.points > 0 {
			n++
		}
	}
	return n
}

func (a *zipAccumulator) zipCode(code string) ZipCode {
	return ZipCode{
		Code:    code,
		Borough: a.borough,
		Center: Point{
			Lat: a.latSum / float64(a.points),
			Lng: a.lngSum / float64(a.points),
		},
		Restaurants: a.points,
	}
}
