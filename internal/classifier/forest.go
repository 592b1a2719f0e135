// Package classifier loads trained grade models and runs inference on encoded vectors.
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/floats"
)

// ErrFeatureCount is returned when an input row has the wrong number of features.
var ErrFeatureCount = errors.New("classifier: feature count mismatch")

const leaf = -1

type node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value"`
}

func (n node) isLeaf() bool {
	return n.Left == leaf && n.Right == leaf
}

type tree struct {
	Nodes []node `json:"nodes"`
}

// forestFile is the exported form of a fitted decision tree ensemble. Each leaf
// holds per-class weights in Classes order; a single tree is a forest of one.
type forestFile struct {
	Classes   []string `json:"classes"`
	NFeatures int      `json:"n_features"`
	Trees     []tree   `json:"trees"`
}

// Forest is a decision tree ensemble. Class probabilities are the mean of the
// normalized leaf distributions reached in each tree.
type Forest struct {
	classes   []string
	nFeatures int
	trees     []tree
}

// LoadForest reads an exported ensemble from path.
func LoadForest(path string) (*Forest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model: %w", err)
	}
	defer f.Close()

	return DecodeForest(f)
}

// DecodeForest parses and validates an exported ensemble.
func DecodeForest(r io.Reader) (*Forest, error) {
	var file forestFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}

	if len(file.Classes) == 0 {
		return nil, errors.New("model has no classes")
	}
	if file.NFeatures <= 0 {
		return nil, errors.New("model n_features must be positive")
	}
	if len(file.Trees) == 0 {
		return nil, errors.New("model has no trees")
	}
	for i, t := range file.Trees {
		if err := t.validate(len(file.Classes), file.NFeatures); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}

	return &Forest{
		classes:   file.Classes,
		nFeatures: file.NFeatures,
		trees:     file.Trees,
	}, nil
}

func (t tree) validate(nClasses, nFeatures int) error {
	if len(t.Nodes) == 0 {
		return errors.New("no nodes")
	}
	for i, n := range t.Nodes {
		if n.isLeaf() {
			if len(n.Value) != nClasses {
				return fmt.Errorf("leaf %d has %d class weights, want %d", i, len(n.Value), nClasses)
			}
			if floats.Sum(n.Value) <= 0 {
				return fmt.Errorf("leaf %d has no weight", i)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d of %d", i, n.Feature, nFeatures)
		}
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(t.Nodes) {
				return fmt.Errorf("node %d has invalid child %d", i, child)
			}
		}
	}
	return nil
}

// leafFor walks from the root to the leaf x falls into. Children always follow
// their parent, so the walk terminates.
func (t tree) leafFor(x []float64) node {
	n := t.Nodes[0]
	for !n.isLeaf() {
		if x[n.Feature] <= n.Threshold {
			n = t.Nodes[n.Left]
		} else {
			n = t.Nodes[n.Right]
		}
	}
	return n
}

// Classes returns the label order of PredictProba.
func (f *Forest) Classes() []string {
	out := make([]string, len(f.classes))
	copy(out, f.classes)
	return out
}

// PredictProba returns one probability per class, in Classes order.
func (f *Forest) PredictProba(x []float64) ([]float64, error) {
	if len(x) != f.nFeatures {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrFeatureCount, len(x), f.nFeatures)
	}

	proba := make([]float64, len(f.classes))
	dist := make([]float64, len(f.classes))
	for _, t := range f.trees {
		copy(dist, t.leafFor(x).Value)
		floats.Scale(1/floats.Sum(dist), dist)
		floats.Add(proba, dist)
	}
	floats.Scale(1/float64(len(f.trees)), proba)
	return proba, nil
}

// Predict returns the most probable class. Ties go to the earliest class.
func (f *Forest) Predict(x []float64) (string, error) {
	proba, err := f.PredictProba(x)
	if err != nil {
		return "", err
	}
	return f.classes[floats.MaxIdx(proba)], nil
}

// Close is a no-op; a Forest holds no external resources.
func (f *Forest) Close() error {
	return nil
}
