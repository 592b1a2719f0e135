package features

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// FallbackReason explains why a field was replaced by 0.
type FallbackReason string

const (
	ReasonMissing         FallbackReason = "missing"
	ReasonUnparsable      FallbackReason = "unparsable"
	ReasonUnknownCategory FallbackReason = "unknown_category"
)

// Fallback records one field that Encode defaulted.
type Fallback struct {
	Field  string         `json:"field"`
	Reason FallbackReason `json:"reason"`
	Value  string         `json:"value,omitempty"`
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func text(v any) string {
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

func zipcodeValue(v any) (float64, FallbackReason) {
	switch z := v.(type) {
	case nil:
		return 0, ReasonMissing
	case bool:
		return 0, ReasonUnparsable
	case string:
		v = strings.TrimSpace(strings.ReplaceAll(z, ",", ""))
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || !finite(f) {
		return 0, ReasonUnparsable
	}
	return f, ""
}

func scoreValue(v any) (float64, FallbackReason) {
	switch s := v.(type) {
	case nil:
		return 0, ReasonMissing
	case string:
		v = strings.TrimSpace(s)
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || !finite(f) {
		return 0, ReasonUnparsable
	}
	return f, ""
}

func flagValue(v any) (float64, FallbackReason) {
	switch f := v.(type) {
	case nil:
		return 0, ReasonMissing
	case string:
		v = strings.TrimSpace(f)
	case float64:
		if !finite(f) {
			return 0, ReasonUnparsable
		}
	case float32:
		if !finite(float64(f)) {
			return 0, ReasonUnparsable
		}
	}

	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, ReasonUnparsable
	}
	return float64(n), ""
}
