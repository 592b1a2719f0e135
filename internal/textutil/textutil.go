// Package textutil normalizes the free-text fields restaurant records are keyed on.
package textutil

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Canonical trims surrounding whitespace and title-cases s, the form borough and
// cuisine values take in the encoder tables ("  LATIN american " -> "Latin American").
func Canonical(s string) string {
	s = strings.TrimSpace(norm.NFC.String(s))
	if s == "" {
		return ""
	}
	// Casers keep state between calls and must not be shared across goroutines.
	return cases.Title(language.Und).String(s)
}

// CleanZip converts a ZIP value to its integer form. It reports false for
// anything that is not a whole number.
func CleanZip(v any) (int, bool) {
	switch z := v.(type) {
	case nil:
		return 0, false
	case bool:
		return 0, false
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(z))
		if err != nil {
			return 0, false
		}
		return n, true
	case *string:
		if z == nil {
			return 0, false
		}
		return CleanZip(*z)
	case float64:
		if math.IsNaN(z) || math.IsInf(z, 0) {
			return 0, false
		}
	case float32:
		if math.IsNaN(float64(z)) || math.IsInf(float64(z), 0) {
			return 0, false
		}
	}

	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
