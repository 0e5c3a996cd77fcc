// Package classify owns the crop-disease classifier: an optional ONNX
// session plus the label vocabulary. When no model artifact is available it
// degrades to a deterministic demo fallback instead of failing — Predict
// always returns a usable result.
package classify

import (
	"image"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/verdant-labs/cropscan/internal/model"
	"github.com/verdant-labs/cropscan/internal/vocab"
)

// Classifier maps images to crop-disease predictions. Immutable after
// construction; safe for concurrent use (ONNX sessions allow concurrent Run).
type Classifier struct {
	vocab     *vocab.Vocabulary
	sess      *onnxSession // nil in demo mode
	width     int
	height    int
	modelName string // artifact basename reported on real predictions
}

// New builds a Classifier over the given vocabulary. The model artifact is
// loaded only if modelPath names an existing file; a missing artifact or any
// load failure is logged and leaves the classifier in demo mode. New never
// fails.
func New(modelPath, ortLibPath string, v *vocab.Vocabulary, width, height int) *Classifier {
	if width <= 0 || height <= 0 {
		width, height = 224, 224
	}
	c := &Classifier{vocab: v, width: width, height: height}

	if modelPath == "" {
		slog.Info("no model path configured, running in demo mode")
		return c
	}
	if _, err := os.Stat(modelPath); err != nil {
		slog.Warn("model artifact missing, running in demo mode", "path", modelPath)
		return c
	}

	sess, err := newONNXSession(modelPath, ortLibPath, width, height)
	if err != nil {
		slog.Warn("model load failed, running in demo mode", "path", modelPath, "error", err)
		return c
	}

	c.sess = sess
	c.width = sess.width
	c.height = sess.height
	c.modelName = filepath.Base(modelPath)
	if sess.numClasses > 0 && sess.numClasses != v.Len() {
		slog.Warn("model output size does not match vocabulary",
			"model_classes", sess.numClasses, "vocab_classes", v.Len())
	}
	slog.Info("model loaded", "path", modelPath,
		"input", [2]int{sess.width, sess.height}, "classes", v.Len())
	return c
}

// ModelLoaded reports whether a real classifier is backing predictions.
func (c *Classifier) ModelLoaded() bool {
	return c.sess != nil
}

// InputSize returns the target (width, height) images are resized to.
func (c *Classifier) InputSize() (int, int) {
	return c.width, c.height
}

// Vocabulary returns the label vocabulary backing this classifier.
func (c *Classifier) Vocabulary() *vocab.Vocabulary {
	return c.vocab
}

// Close releases the ONNX session, if any.
func (c *Classifier) Close() error {
	if c.sess != nil {
		return c.sess.close()
	}
	return nil
}

// Preprocess converts an image into this classifier's input tensor. Exposed
// for tests and tooling; Predict calls it internally.
func (c *Classifier) Preprocess(img image.Image) *Tensor {
	return Preprocess(img, c.width, c.height)
}

// Predict classifies an image. It never fails: internal errors produce a
// fallback result referencing the first vocabulary label with confidence 0
// and SourceError.
func (c *Classifier) Predict(img image.Image) (p model.Prediction) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("prediction panicked", "panic", r)
			p = c.errorResult()
		}
	}()

	t := c.Preprocess(img)
	if c.sess == nil {
		return c.demoResult(t)
	}

	scores, err := c.sess.infer(t, c.vocab.Len())
	if err != nil {
		slog.Error("inference failed", "error", err)
		return c.errorResult()
	}
	if len(scores) == 0 {
		slog.Error("inference returned an empty score vector")
		return c.errorResult()
	}

	probs := asProbabilities(scores)
	idx := argmax(probs)
	return c.result(idx, float64(probs[idx]), model.SourceModel, c.modelName)
}

// demoResult derives a deterministic placeholder prediction from the mean
// pixel intensity. Same image, same answer.
func (c *Classifier) demoResult(t *Tensor) model.Prediction {
	m := t.Mean()
	idx := int(m * float64(c.vocab.Len()))
	confidence := 0.5 + math.Mod(m, 0.5)
	return c.result(idx, confidence, model.SourceDemo, model.SourceDemo.String())
}

func (c *Classifier) errorResult() model.Prediction {
	return c.result(0, 0.0, model.SourceError, model.SourceError.String())
}

func (c *Classifier) result(idx int, confidence float64, src model.Source, used string) model.Prediction {
	detailed := c.vocab.Class(idx)
	return model.Prediction{
		Plant:         vocab.PlantOf(detailed),
		Disease:       c.vocab.Slug(detailed),
		Confidence:    confidence,
		DetailedClass: detailed,
		Source:        src,
		ModelUsed:     used,
	}
}

// asProbabilities interprets a raw score vector. If it already sums to ≈1 it
// is treated as probabilities; otherwise it is treated as logits and passed
// through a numerically stable softmax.
func asProbabilities(scores []float32) []float32 {
	var sum float64
	for _, v := range scores {
		sum += float64(v)
	}
	if math.Abs(sum-1.0) <= 1e-3 {
		return scores
	}
	return softmax(scores)
}

// softmax subtracts the max before exponentiating for numerical stability.
func softmax(scores []float32) []float32 {
	maxv := scores[0]
	for _, v := range scores[1:] {
		if v > maxv {
			maxv = v
		}
	}
	out := make([]float32, len(scores))
	var sum float64
	for i, v := range scores {
		e := math.Exp(float64(v - maxv))
		out[i] = float32(e)
		sum += e
	}
	for i := range out {
		out[i] = float32(float64(out[i]) / sum)
	}
	return out
}

func argmax(v []float32) int {
	best := 0
	for i, x := range v {
		if x > v[best] {
			best = i
		}
	}
	return best
}
