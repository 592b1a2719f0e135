package classifier

import (
	"path/filepath"
	"strings"
)

// Model is a loaded classifier artifact.
type Model interface {
	Classes() []string
	Predict(x []float64) (string, error)
	PredictProba(x []float64) ([]float64, error)
	Close() error
}

// Load opens the artifact at cfg.ModelPath. Files ending in .onnx go through ONNX
// Runtime; anything else is read as an exported tree ensemble.
func Load(cfg ONNXConfig) (Model, error) {
	if strings.EqualFold(filepath.Ext(cfg.ModelPath), ".onnx") {
		m, err := NewONNX(cfg)
		if err != nil {
			return nil, err
		}
		return m, nil
	}

	f, err := LoadForest(cfg.ModelPath)
	if err != nil {
		return nil, err
	}
	return f, nil
}
