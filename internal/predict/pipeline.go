package predict

import (
	"errors"
	"log/slog"

	"github.com/randytsao24/gradecast/internal/features"
	"github.com/randytsao24/gradecast/internal/models"
)

// Result is a prediction together with the inputs that produced it.
type Result struct {
	Prediction
	Ranked    []Ranked            `json:"ranked"`
	Features  features.Vector     `json:"features"`
	Fallbacks []features.Fallback `json:"fallbacks"`
}

// Pipeline is encoder, predictor and formatter wired together. Both parts are
// built once at startup and never change.
type Pipeline struct {
	encoder   *features.Encoder
	predictor *Predictor
}

// NewPipeline wires an encoder to a predictor.
func NewPipeline(enc *features.Encoder, p *Predictor) (*Pipeline, error) {
	if enc == nil || p == nil {
		return nil, errors.New("predict: encoder and predictor are required")
	}
	return &Pipeline{encoder: enc, predictor: p}, nil
}

// Classes returns the classifier's label order.
func (p *Pipeline) Classes() []string {
	return p.predictor.Classes()
}

// Run encodes in, predicts and ranks the result.
func (p *Pipeline) Run(in features.Input) (Result, error) {
	enc := p.encoder.Encode(in)
	if len(enc.Fallbacks) > 0 {
		slog.Debug("encoder fallbacks", "fallbacks", enc.Fallbacks)
	}

	pred, err := p.predictor.Predict(enc.Vector)
	if err != nil {
		return Result{}, err
	}

	fallbacks := enc.Fallbacks
	if fallbacks == nil {
		fallbacks = []features.Fallback{}
	}

	return Result{
		Prediction: pred,
		Ranked:     Rank(pred.Probabilities),
		Features:   enc.Vector,
		Fallbacks:  fallbacks,
	}, nil
}

// RunFields validates a loosely-typed record before running it.
func (p *Pipeline) RunFields(fields map[string]any) (Result, error) {
	in, err := features.ParseInput(fields)
	if err != nil {
		return Result{}, err
	}
	return p.Run(in)
}

// RunRestaurant runs a typed dataset record.
func (p *Pipeline) RunRestaurant(r models.Restaurant) (Result, error) {
	return p.Run(features.InputFromRestaurant(r))
}
