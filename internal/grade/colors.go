// Package grade maps inspection grade letters to display colors.
package grade

import (
	"fmt"
	"strings"
)

// Inspection grades. P is pending, Z is not yet graded.
const (
	A = "A"
	B = "B"
	C = "C"
	P = "P"
	Z = "Z"
)

// Labels lists the recognized grades in display order.
var Labels = []string{A, B, C, P, Z}

// RGBA is a color with transparency, serialized as [r, g, b, a] for map layers.
type RGBA struct {
	R, G, B, A uint8
}

// MarshalJSON encodes the color as a four element array.
func (c RGBA) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("[%d,%d,%d,%d]", c.R, c.G, c.B, c.A)), nil
}

type color struct {
	hex         string
	rgba        RGBA
	description string
}

var colors = map[string]color{
	A: {"#2ECC71", RGBA{46, 204, 113, 200}, "Grade A"},
	B: {"#F1C40F", RGBA{241, 196, 15, 200}, "Grade B"},
	C: {"#E67E22", RGBA{230, 126, 34, 200}, "Grade C"},
	P: {"#3498DB", RGBA{52, 152, 219, 200}, "Grade pending"},
	Z: {"#95A5A6", RGBA{149, 165, 166, 200}, "Not yet graded"},
}

// Fallback colors flag records with no usable grade. Neither matches a known grade.
const FallbackHex = "#5D6D7E"

var FallbackRGBA = RGBA{93, 109, 126, 140}

// Normalize upper-cases and trims g, reporting whether the result is a known grade.
func Normalize(g string) (string, bool) {
	g = strings.ToUpper(strings.TrimSpace(g))
	_, ok := colors[g]
	return g, ok
}

// Color returns the hex color for g, or FallbackHex.
func Color(g string) string {
	if key, ok := Normalize(g); ok {
		return colors[key].hex
	}
	return FallbackHex
}

// ColorRGBA returns the RGBA color for g, or FallbackRGBA.
func ColorRGBA(g string) RGBA {
	if key, ok := Normalize(g); ok {
		return colors[key].rgba
	}
	return FallbackRGBA
}

// ColorOf is Color for an optional grade; nil resolves to the fallback.
func ColorOf(g *string) string {
	if g == nil {
		return FallbackHex
	}
	return Color(*g)
}

// RGBAOf is ColorRGBA for an optional grade; nil resolves to the fallback.
func RGBAOf(g *string) RGBA {
	if g == nil {
		return FallbackRGBA
	}
	return ColorRGBA(*g)
}

// Describe returns a short human label for g.
func Describe(g string) string {
	if key, ok := Normalize(g); ok {
		return colors[key].description
	}
	return "No grade"
}

// Swatch is one entry of the color legend.
type Swatch struct {
	Grade       string `json:"grade"`
	Description string `json:"description"`
	Hex         string `json:"hex"`
	RGBA        RGBA   `json:"rgba"`
}

// Legend returns the swatches for every known grade followed by the fallback.
func Legend() []Swatch {
	out := make([]Swatch, 0, len(Labels)+1)
	for _, l := range Labels {
		c := colors[l]
		out = append(out, Swatch{Grade: l, Description: c.description, Hex: c.hex, RGBA: c.rgba})
	}
	return append(out, Swatch{Description: Describe(""), Hex: FallbackHex, RGBA: FallbackRGBA})
}
