package model

// Source tags where a prediction came from, so callers and tests can tell a
// real model verdict apart from a degraded fallback.
type Source int

const (
	// SourceModel means the prediction came from a loaded classifier.
	SourceModel Source = iota
	// SourceDemo means no classifier was available and a deterministic
	// placeholder was produced instead.
	SourceDemo
	// SourceError means prediction failed internally and a safe fallback
	// referencing the first vocabulary label was returned.
	SourceError
)

// String returns the wire form used in the model_used field for degraded
// sources. For SourceModel the adapter reports the artifact basename instead.
func (s Source) String() string {
	switch s {
	case SourceDemo:
		return "demo-mode"
	case SourceError:
		return "error"
	default:
		return "model"
	}
}

// Prediction is the classifier's output — one verdict per analyzed image.
type Prediction struct {
	Plant         string  // plant name, e.g. "Tomato"
	Disease       string  // normalized slug, e.g. "tomato_late_blight"
	Confidence    float64 // probability in [0,1]
	DetailedClass string  // full PlantVillage-style label, e.g. "Tomato___Late_blight"
	Source        Source
	ModelUsed     string // artifact basename, "demo-mode", or "error"
}

// Degraded reports whether the prediction is a fallback rather than a real
// model verdict.
func (p Prediction) Degraded() bool {
	return p.Source != SourceModel
}
