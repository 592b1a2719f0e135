package features

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata is the training-time description of the model inputs.
type Metadata struct {
	// FeatureColumns is informational; the encoder always emits the fixed Columns order.
	FeatureColumns []string              `json:"feature_columns" yaml:"feature_columns"`
	Encoders       map[string]Categories `json:"encoders" yaml:"encoders"`
	// Classes is the label order of the classifier output, needed by backends
	// whose artifact does not carry it.
	Classes []string `json:"classes,omitempty" yaml:"classes,omitempty"`
}

// LoadMetadata reads a metadata artifact. Files ending in .yaml or .yml are parsed
// as YAML, anything else as JSON.
func LoadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}

	var meta Metadata
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &meta)
	default:
		err = json.Unmarshal(data, &meta)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing metadata %s: %w", filepath.Base(path), err)
	}

	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("metadata %s: %w", filepath.Base(path), err)
	}
	return &meta, nil
}

// Validate checks that both required keys are present.
func (m *Metadata) Validate() error {
	if m.FeatureColumns == nil {
		return errors.New("feature_columns is required")
	}
	if m.Encoders == nil {
		return errors.New("encoders is required")
	}
	return nil
}

// Encoder returns the table for a feature name; missing tables are empty.
func (m *Metadata) Encoder(name string) Categories {
	return m.Encoders[name]
}

// ColumnsMatch reports whether FeatureColumns names the fixed vector order.
func (m *Metadata) ColumnsMatch() bool {
	if len(m.FeatureColumns) != Width {
		return false
	}
	for i, c := range m.FeatureColumns {
		if c != Columns[i] {
			return false
		}
	}
	return true
}
