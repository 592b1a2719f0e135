// Package predict runs encoded restaurant vectors through the grade classifier
// and shapes its output for display.
package predict

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/randytsao24/gradecast/internal/features"
)

// Classifier is the trained model, consumed as a black box.
type Classifier interface {
	Classes() []string
	Predict(x []float64) (string, error)
	PredictProba(x []float64) ([]float64, error)
}

// LabelProbability is one entry of a Distribution.
type LabelProbability struct {
	Label       string
	Probability float64
}

// Distribution holds one probability per classifier label, in the classifier's own
// label order.
type Distribution []LabelProbability

// Get returns the probability for label.
func (d Distribution) Get(label string) (float64, bool) {
	for _, lp := range d {
		if lp.Label == label {
			return lp.Probability, true
		}
	}
	return 0, false
}

// Map returns the distribution as a label -> probability map.
func (d Distribution) Map() map[string]float64 {
	m := make(map[string]float64, len(d))
	for _, lp := range d {
		m[lp.Label] = lp.Probability
	}
	return m
}

// MarshalJSON writes the distribution as an object whose keys keep label order.
func (d Distribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, lp := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(lp.Label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(lp.Probability)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Prediction is the classifier output for one vector.
type Prediction struct {
	Grade         string       `json:"grade"`
	Probabilities Distribution `json:"probabilities"`
	RawOutput     []float64    `json:"raw_output"`
}

// Predictor adapts a Classifier to encoded vectors.
type Predictor struct {
	clf     Classifier
	classes []string
}

// NewPredictor wraps clf. A classifier without labels cannot serve predictions.
func NewPredictor(clf Classifier) (*Predictor, error) {
	if clf == nil {
		return nil, errors.New("predict: classifier is required")
	}
	classes := clf.Classes()
	if len(classes) == 0 {
		return nil, errors.New("predict: classifier reports no classes")
	}
	return &Predictor{clf: clf, classes: classes}, nil
}

// Classes returns the classifier's label order.
func (p *Predictor) Classes() []string {
	out := make([]string, len(p.classes))
	copy(out, p.classes)
	return out
}

// Predict returns the predicted grade and the full distribution for v.
func (p *Predictor) Predict(v features.Vector) (Prediction, error) {
	label, err := p.clf.Predict(v.Slice())
	if err != nil {
		return Prediction{}, fmt.Errorf("predicting grade: %w", err)
	}

	proba, err := p.clf.PredictProba(v.Slice())
	if err != nil {
		return Prediction{}, fmt.Errorf("predicting probabilities: %w", err)
	}
	if len(proba) != len(p.classes) {
		return Prediction{}, fmt.Errorf("classifier returned %d probabilities for %d classes", len(proba), len(p.classes))
	}

	dist := make(Distribution, len(proba))
	for i, prob := range proba {
		dist[i] = LabelProbability{Label: p.classes[i], Probability: prob}
	}

	return Prediction{
		Grade:         label,
		Probabilities: dist,
		RawOutput:     proba,
	}, nil
}
