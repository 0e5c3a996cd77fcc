package classify

import (
	"fmt"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// tensor layouts a classifier model may declare for its image input.
type layout int

const (
	layoutNHWC layout = iota // [N, H, W, C]
	layoutNCHW               // [N, C, H, W]
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

// onnxSession wraps a DynamicAdvancedSession for single-input image
// classifiers producing a flat score vector.
type onnxSession struct {
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
	layout     layout
	height     int // model input height (introspected or default)
	width      int // model input width
	numClasses int // 0 when the model declares a dynamic output dim
}

// newONNXSession loads the ONNX model and creates an inference session.
// defaultW/defaultH apply when the model declares dynamic spatial dims.
// libPath empty resolves to libonnxruntime.so next to the model artifact.
func newONNXSession(modelPath, libPath string, defaultW, defaultH int) (*onnxSession, error) {
	if libPath == "" {
		libPath = filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")
	}
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	// Inspect the model to discover tensor names and shapes.
	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}
	if len(inputs) != 1 {
		return nil, fmt.Errorf("onnx: expected a single image input, got %d inputs", len(inputs))
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("onnx: model has no outputs")
	}

	s := &onnxSession{
		inputName:  inputs[0].Name,
		outputName: outputs[0].Name,
		width:      defaultW,
		height:     defaultH,
	}
	s.applyInputShape(inputs[0].Dimensions)

	// Output may be [N, classes] or a flat [classes]; dynamic dims leave
	// numClasses at 0 and the caller sizes the vector from the vocabulary.
	outDims := outputs[0].Dimensions
	if n := len(outDims); n > 0 && outDims[n-1] > 0 {
		s.numClasses = int(outDims[n-1])
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(4)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{s.inputName},
		[]string{s.outputName},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}
	s.session = session
	return s, nil
}

// applyInputShape overrides the default resolution from the model's declared
// input shape when it is static. Unrecognized or dynamic shapes are ignored
// and the defaults stand.
func (s *onnxSession) applyInputShape(dims []int64) {
	if len(dims) != 4 {
		return
	}
	switch {
	case dims[3] == 3:
		s.layout = layoutNHWC
		if dims[1] > 0 && dims[2] > 0 {
			s.height, s.width = int(dims[1]), int(dims[2])
		}
	case dims[1] == 3:
		s.layout = layoutNCHW
		if dims[2] > 0 && dims[3] > 0 {
			s.height, s.width = int(dims[2]), int(dims[3])
		}
	}
}

// infer runs a single forward pass over a preprocessed NHWC tensor and
// returns the raw output vector. numClasses sizes the output when the model
// declares a dynamic output dim.
func (s *onnxSession) infer(t *Tensor, numClasses int) ([]float32, error) {
	data := t.Data
	if s.layout == layoutNCHW {
		data = t.toCHW()
	}

	var shape ort.Shape
	if s.layout == layoutNCHW {
		shape = ort.NewShape(1, 3, int64(t.H), int64(t.W))
	} else {
		shape = ort.NewShape(1, int64(t.H), int64(t.W), 3)
	}

	tIn, err := ort.NewTensor(shape, data)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create input tensor: %w", err)
	}
	defer tIn.Destroy()

	n := s.numClasses
	if n == 0 {
		n = numClasses
	}
	tOut, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(n)))
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer tOut.Destroy()

	err = s.session.Run(
		[]ort.Value{tIn},
		[]ort.Value{tOut},
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: inference failed: %w", err)
	}

	// Copy data out before the tensor is destroyed.
	src := tOut.GetData()
	result := make([]float32, len(src))
	copy(result, src)
	return result, nil
}

// close releases the ONNX session resources.
func (s *onnxSession) close() error {
	return s.session.Destroy()
}
