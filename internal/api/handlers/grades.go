package handlers

import (
	"net/http"

	"github.com/randytsao24/gradecast/internal/grade"
)

type GradeHandler struct{}

func NewGradeHandler() *GradeHandler {
	return &GradeHandler{}
}

// Colors returns the grade color legend in hex and RGBA form
func (h *GradeHandler) Colors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"grades":  grade.Legend(),
		"fallback": map[string]any{
			"hex":  grade.FallbackHex,
			"rgba": grade.FallbackRGBA,
		},
	})
}
