package predict

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randytsao24/gradecast/internal/features"
	"github.com/randytsao24/gradecast/internal/models"
)

type stubClassifier struct {
	classes []string
	proba   []float64
	label   string
	err     error
	seen    []float64
}

func (s *stubClassifier) Classes() []string { return s.classes }

func (s *stubClassifier) Predict(x []float64) (string, error) {
	s.seen = x
	return s.label, s.err
}

func (s *stubClassifier) PredictProba(x []float64) ([]float64, error) {
	return s.proba, s.err
}

func gradeStub() *stubClassifier {
	return &stubClassifier{
		classes: []string{"A", "B", "C"},
		proba:   []float64{0.70, 0.20, 0.10},
		label:   "A",
	}
}

func TestRankOrdersByPercentage(t *testing.T) {
	got := Rank(Distribution{{"A", 0.70}, {"B", 0.20}, {"C", 0.10}})
	want := []Ranked{{"A", 70}, {"B", 20}, {"C", 10}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Rank mismatch (-want +got):\n%s", diff)
	}
}

func TestRankIgnoresInputOrder(t *testing.T) {
	got := Rank(Distribution{{"C", 0.05}, {"P", 0.15}, {"A", 0.55}, {"B", 0.25}})
	labels := make([]string, len(got))
	for i, r := range got {
		labels[i] = r.Label
	}
	assert.Equal(t, []string{"A", "B", "P", "C"}, labels)
}

func TestRankRoundsToTwoDecimals(t *testing.T) {
	got := Rank(Distribution{{"A", 1.0 / 3}, {"B", 2.0 / 3}})
	assert.Equal(t, []Ranked{{"B", 66.67}, {"A", 33.33}}, got)
}

func TestRankTiesBreakByLabel(t *testing.T) {
	got := Rank(Distribution{{"Z", 0.25}, {"B", 0.25}, {"A", 0.5}})
	assert.Equal(t, []Ranked{{"A", 50}, {"B", 25}, {"Z", 25}}, got)
}

func TestRankSumsToHundred(t *testing.T) {
	dists := []Distribution{
		{{"A", 1.0 / 3}, {"B", 1.0 / 3}, {"C", 1.0 / 3}},
		{{"A", 0.123456}, {"B", 0.654321}, {"C", 0.222223}},
		{{"A", 1}},
	}
	for _, d := range dists {
		ranked := Rank(d)
		sum := 0.0
		for i, r := range ranked {
			sum += r.Percentage
			if i > 0 {
				assert.LessOrEqual(t, r.Percentage, ranked[i-1].Percentage)
			}
		}
		assert.InDelta(t, 100, sum, 0.01*float64(len(d)))
	}
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil))
}

func TestDistributionKeepsLabelOrder(t *testing.T) {
	d := Distribution{{"B", 0.2}, {"A", 0.8}}

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `{"B":0.2,"A":0.8}`, string(data))

	p, ok := d.Get("A")
	assert.True(t, ok)
	assert.Equal(t, 0.8, p)

	_, ok = d.Get("C")
	assert.False(t, ok)

	assert.Equal(t, map[string]float64{"A": 0.8, "B": 0.2}, d.Map())
}

func TestPredictorPredict(t *testing.T) {
	clf := gradeStub()
	p, err := NewPredictor(clf)
	require.NoError(t, err)

	pred, err := p.Predict(features.Vector{2, 11372, 5, 0, 12})
	require.NoError(t, err)

	assert.Equal(t, "A", pred.Grade)
	assert.Equal(t, []float64{0.70, 0.20, 0.10}, pred.RawOutput)
	assert.Equal(t, Distribution{{"A", 0.70}, {"B", 0.20}, {"C", 0.10}}, pred.Probabilities)
	assert.Equal(t, []float64{2, 11372, 5, 0, 12}, clf.seen)
}

func TestPredictorErrors(t *testing.T) {
	_, err := NewPredictor(nil)
	assert.Error(t, err)

	_, err = NewPredictor(&stubClassifier{})
	assert.Error(t, err)

	short := gradeStub()
	short.proba = []float64{1}
	p, err := NewPredictor(short)
	require.NoError(t, err)
	_, err = p.Predict(features.Vector{})
	assert.ErrorContains(t, err, "1 probabilities for 3 classes")

	boom := errors.New("boom")
	failing := gradeStub()
	failing.err = boom
	p, err = NewPredictor(failing)
	require.NoError(t, err)
	_, err = p.Predict(features.Vector{})
	assert.ErrorIs(t, err, boom)
}

func testPipeline(t *testing.T, clf Classifier) *Pipeline {
	t.Helper()

	borough, err := features.NewCategories(map[string]int{"Bronx": 0, "Brooklyn": 1, "Queens": 2})
	require.NoError(t, err)
	cuisine, err := features.NewCategories(map[string]int{"American": 0, "Latin American": 5})
	require.NoError(t, err)

	enc, err := features.NewEncoder(&features.Metadata{
		FeatureColumns: features.Columns[:],
		Encoders: map[string]features.Categories{
			features.FieldBorough: borough,
			features.FieldCuisine: cuisine,
		},
	})
	require.NoError(t, err)

	p, err := NewPredictor(clf)
	require.NoError(t, err)

	pipe, err := NewPipeline(enc, p)
	require.NoError(t, err)
	return pipe
}

func TestPipelineRunFields(t *testing.T) {
	pipe := testPipeline(t, gradeStub())

	res, err := pipe.RunFields(map[string]any{
		"borough":             "queens",
		"zipcode":             "11372",
		"cuisine_description": "Latin American",
		"critical_flag_bin":   0,
		"score":               12,
	})
	require.NoError(t, err)

	assert.Equal(t, "A", res.Grade)
	assert.Equal(t, features.Vector{2, 11372, 5, 0, 12}, res.Features)
	assert.Equal(t, []Ranked{{"A", 70}, {"B", 20}, {"C", 10}}, res.Ranked)
	assert.NotNil(t, res.Fallbacks)
	assert.Empty(t, res.Fallbacks)
}

func TestPipelineMissingField(t *testing.T) {
	pipe := testPipeline(t, gradeStub())

	_, err := pipe.RunFields(map[string]any{"borough": "Queens"})

	var missing *features.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, features.FieldZipcode, missing.Field)
}

func TestPipelineReportsFallbacks(t *testing.T) {
	pipe := testPipeline(t, gradeStub())

	res, err := pipe.RunRestaurant(models.Restaurant{
		CAMIS:              "50000001",
		Borough:            "Narnia",
		CuisineDescription: "American",
	})
	require.NoError(t, err)

	fields := make([]string, len(res.Fallbacks))
	for i, f := range res.Fallbacks {
		fields[i] = f.Field
	}
	assert.Contains(t, fields, features.FieldBorough)
	assert.Contains(t, fields, features.FieldZipcode)
	assert.Contains(t, fields, features.FieldScore)
	assert.Equal(t, 0.0, res.Features[features.BoroughCode])
}

func TestResultJSON(t *testing.T) {
	pipe := testPipeline(t, gradeStub())

	res, err := pipe.Run(features.Input{
		Borough:            "Brooklyn",
		Zipcode:            11201,
		CuisineDescription: "American",
		CriticalFlagBin:    1,
		Score:              20.0,
	})
	require.NoError(t, err)

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "A", body["grade"])
	assert.Contains(t, body, "probabilities")
	assert.Contains(t, body, "raw_output")
	assert.Contains(t, body, "ranked")
	assert.Equal(t, []any{1.0, 11201.0, 0.0, 1.0, 20.0}, body["features"])
	assert.Equal(t, []any{}, body["fallbacks"])
}

func TestNewPipelineRequiresParts(t *testing.T) {
	_, err := NewPipeline(nil, nil)
	assert.Error(t, err)
}
