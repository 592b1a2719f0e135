// Package features turns restaurant records into the numeric vectors the grade
// classifier was trained on.
package features

import (
	"errors"
	"log/slog"

	"github.com/randytsao24/gradecast/internal/textutil"
)

// Vector positions. The classifier depends on this order.
const (
	BoroughCode = iota
	ZipcodeNumeric
	CuisineCode
	CriticalFlag
	Score

	Width
)

// Columns names each vector position.
var Columns = [Width]string{FieldBorough, FieldZipcode, FieldCuisine, FieldCriticalFlagBin, FieldScore}

// Vector is one encoded record.
type Vector [Width]float64

// Slice returns the vector as a one-row feature slice.
func (v Vector) Slice() []float64 {
	out := make([]float64, Width)
	copy(out, v[:])
	return out
}

// Encoding is the result of encoding one record.
type Encoding struct {
	Vector    Vector
	Fallbacks []Fallback
}

// Defaulted reports whether field was replaced by its fallback.
func (e Encoding) Defaulted(field string) bool {
	for _, f := range e.Fallbacks {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Encoder applies the borough and cuisine tables. It is immutable and safe for
// concurrent use.
type Encoder struct {
	borough Categories
	cuisine Categories
}

// NewEncoder builds an encoder from loaded metadata.
func NewEncoder(meta *Metadata) (*Encoder, error) {
	if meta == nil {
		return nil, errors.New("features: metadata is required")
	}

	enc := &Encoder{
		borough: meta.Encoder(FieldBorough),
		cuisine: meta.Encoder(FieldCuisine),
	}
	if enc.borough.Len() == 0 {
		slog.Warn("borough encoder table is empty; every borough encodes to 0")
	}
	if enc.cuisine.Len() == 0 {
		slog.Warn("cuisine encoder table is empty; every cuisine encodes to 0")
	}
	if !meta.ColumnsMatch() {
		slog.Warn("metadata feature_columns differ from encoder order",
			"feature_columns", meta.FeatureColumns,
			"encoder_order", Columns,
		)
	}
	return enc, nil
}

// Encode converts in into a vector. It never fails: unknown categories and
// malformed numbers become 0 and are listed in Fallbacks.
func (e *Encoder) Encode(in Input) Encoding {
	var out Encoding

	fallback := func(field string, reason FallbackReason, raw any) {
		fb := Fallback{Field: field, Reason: reason}
		if raw != nil {
			fb.Value = text(raw)
		}
		out.Fallbacks = append(out.Fallbacks, fb)
	}

	out.Vector[BoroughCode] = e.category(e.borough, FieldBorough, in.Borough, fallback)

	zip, reason := zipcodeValue(in.Zipcode)
	if reason != "" {
		fallback(FieldZipcode, reason, in.Zipcode)
	}
	out.Vector[ZipcodeNumeric] = zip

	out.Vector[CuisineCode] = e.category(e.cuisine, FieldCuisine, in.CuisineDescription, fallback)

	flag, reason := flagValue(in.CriticalFlagBin)
	if reason != "" {
		fallback(FieldCriticalFlagBin, reason, in.CriticalFlagBin)
	}
	out.Vector[CriticalFlag] = flag

	score, reason := scoreValue(in.Score)
	if reason != "" {
		fallback(FieldScore, reason, in.Score)
	}
	out.Vector[Score] = score

	return out
}

func (e *Encoder) category(table Categories, field string, raw any, fallback func(string, FallbackReason, any)) float64 {
	if raw == nil {
		fallback(field, ReasonMissing, nil)
		return 0
	}
	code, ok := table.Code(textutil.Canonical(text(raw)))
	if !ok {
		fallback(field, ReasonUnknownCategory, raw)
		return 0
	}
	return float64(code)
}
