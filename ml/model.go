package ml

import "errors"

var (
	// ErrArtifactNotFound means the model artifact file does not exist.
	ErrArtifactNotFound = errors.New("model artifact not found")
	// ErrArtifactCorrupt means the artifact exists but cannot be deserialized.
	ErrArtifactCorrupt = errors.New("model artifact corrupt")
)

// Predictor maps a single numeric input to a numeric output. Implementations
// must be safe for concurrent use after loading.
type Predictor interface {
	Predict(x float64) (float64, error)
}

// Model is a trainable predictor with a persistent artifact.
type Model interface {
	Predictor
	Train(xs, ys []float64) error
	Save(path string) error
	Load(path string) error
}

// Info describes a loaded model for the metadata endpoint.
type Info struct {
	Type      string  `json:"type"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Samples   int     `json:"samples"`
	TrainedAt string  `json:"trained_at"`
}
