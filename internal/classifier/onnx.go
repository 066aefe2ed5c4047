package classifier

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

// initORT initializes the ONNX Runtime environment. Safe to call multiple
// times; only the first call has any effect.
func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// ONNXClassifier scores readings with an exported gradient-boosted binary
// model. The session is created once and is safe for concurrent Run calls.
type ONNXClassifier struct {
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
}

// NewONNXClassifier loads the model and creates an inference session.
// runtimePath locates the ONNX Runtime shared library; when empty it is
// resolved as libonnxruntime.so next to the model file.
func NewONNXClassifier(modelPath, runtimePath string) (*ONNXClassifier, error) {
	if runtimePath == "" {
		runtimePath = filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")
	}

	if err := initORT(runtimePath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	// Inspect the model to discover tensor names and shapes.
	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}

	if len(inputs) != 1 {
		return nil, fmt.Errorf("onnx: expected a single input tensor, got %d", len(inputs))
	}
	inputName := inputs[0].Name

	// Binary classifier exports carry a label output and a probability
	// output of shape [batch, 2]; score against the probabilities.
	outputName, err := probabilityOutput(outputs)
	if err != nil {
		return nil, err
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(1)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{inputName},
		[]string{outputName},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}

	return &ONNXClassifier{
		session:    session,
		inputName:  inputName,
		outputName: outputName,
	}, nil
}

// probabilityOutput picks the [batch, 2] float output carrying class
// probabilities.
func probabilityOutput(outputs []ort.InputOutputInfo) (string, error) {
	for _, out := range outputs {
		dims := out.Dimensions
		if len(dims) == 2 && dims[len(dims)-1] == 2 {
			return out.Name, nil
		}
	}
	return "", fmt.Errorf("onnx: model has no [batch, 2] probability output")
}

// Predict runs a single scoring call and returns P(anomalous), the second
// column of the probability output.
func (c *ONNXClassifier) Predict(ctx context.Context, features Features) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("onnx: prediction aborted: %w", err)
	}

	input, err := ort.NewTensor(ort.NewShape(1, 4), features.Vector())
	if err != nil {
		return 0, fmt.Errorf("onnx: failed to create input tensor: %w", err)
	}
	defer input.Destroy()

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 2))
	if err != nil {
		return 0, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer output.Destroy()

	if err := c.session.Run([]ort.Value{input}, []ort.Value{output}); err != nil {
		return 0, fmt.Errorf("onnx: inference failed: %w", err)
	}

	probs := output.GetData()
	if len(probs) != 2 {
		return 0, fmt.Errorf("onnx: unexpected probability shape: %d values", len(probs))
	}

	return float64(probs[1]), nil
}

// Close releases the ONNX session resources.
func (c *ONNXClassifier) Close() error {
	return c.session.Destroy()
}
