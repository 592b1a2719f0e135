package classifier

import (
	"errors"
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
	"gonum.org/v1/gonum/floats"
)

// ONNXConfig describes an ONNX export of the grade model. The export must emit a
// [1, len(Classes)] float probability tensor (no zipmap).
type ONNXConfig struct {
	ModelPath   string
	LibraryPath string
	InputName   string
	OutputName  string
	Classes     []string
	NFeatures   int
}

// ONNX runs an exported model through ONNX Runtime.
type ONNX struct {
	session   *ort.DynamicAdvancedSession
	classes   []string
	nFeatures int
	ownsEnv   bool
}

// NewONNX initializes the runtime (once per process) and opens a session.
func NewONNX(cfg ONNXConfig) (*ONNX, error) {
	if len(cfg.Classes) == 0 {
		return nil, errors.New("onnx model needs the class order from metadata")
	}
	if cfg.NFeatures <= 0 {
		return nil, errors.New("onnx model n_features must be positive")
	}

	ownsEnv := false
	if !ort.IsInitialized() {
		if cfg.LibraryPath != "" {
			ort.SetSharedLibraryPath(cfg.LibraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initializing onnxruntime: %w", err)
		}
		ownsEnv = true
	}

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{cfg.InputName}, []string{cfg.OutputName}, nil)
	if err != nil {
		if ownsEnv {
			_ = ort.DestroyEnvironment()
		}
		return nil, fmt.Errorf("opening onnx session: %w", err)
	}

	classes := make([]string, len(cfg.Classes))
	copy(classes, cfg.Classes)

	return &ONNX{
		session:   session,
		classes:   classes,
		nFeatures: cfg.NFeatures,
		ownsEnv:   ownsEnv,
	}, nil
}

// Classes returns the label order of PredictProba.
func (o *ONNX) Classes() []string {
	out := make([]string, len(o.classes))
	copy(out, o.classes)
	return out
}

// PredictProba runs the session on a single row.
func (o *ONNX) PredictProba(x []float64) ([]float64, error) {
	if len(x) != o.nFeatures {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrFeatureCount, len(x), o.nFeatures)
	}

	row := make([]float32, len(x))
	for i, v := range x {
		row[i] = float32(v)
	}

	input, err := ort.NewTensor(ort.NewShape(1, int64(len(row))), row)
	if err != nil {
		return nil, fmt.Errorf("creating input tensor: %w", err)
	}
	defer input.Destroy()

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(o.classes))))
	if err != nil {
		return nil, fmt.Errorf("creating output tensor: %w", err)
	}
	defer output.Destroy()

	if err := o.session.Run([]ort.Value{input}, []ort.Value{output}); err != nil {
		return nil, fmt.Errorf("running onnx session: %w", err)
	}

	data := output.GetData()
	proba := make([]float64, len(data))
	for i, p := range data {
		proba[i] = float64(p)
	}
	return proba, nil
}

// Predict returns the most probable class.
func (o *ONNX) Predict(x []float64) (string, error) {
	proba, err := o.PredictProba(x)
	if err != nil {
		return "", err
	}
	return o.classes[floats.MaxIdx(proba)], nil
}

// Close releases the session and, if this model started it, the runtime.
func (o *ONNX) Close() error {
	err := o.session.Destroy()
	if o.ownsEnv {
		err = errors.Join(err, ort.DestroyEnvironment())
	}
	return err
}
