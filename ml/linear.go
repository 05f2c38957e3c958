package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"
)

// artifactVersion guards against loading artifacts written by an incompatible
// build.
const artifactVersion = 1

// LinearModel is a least-squares fit of y = slope*x + intercept.
type LinearModel struct {
	slope     float64
	intercept float64
	samples   int
	trainedAt time.Time
}

type linearArtifact struct {
	Version   int       `json:"version"`
	Slope     float64   `json:"slope"`
	Intercept float64   `json:"intercept"`
	Samples   int       `json:"samples"`
	TrainedAt time.Time `json:"trained_at"`
}

// NewLinearModel returns an untrained model.
func NewLinearModel() *LinearModel {
	return &LinearModel{}
}

// Train fits the coefficients with ordinary least squares.
func (m *LinearModel) Train(xs, ys []float64) error {
	if len(xs) == 0 || len(ys) == 0 {
		return errors.New("xs or ys empty")
	}
	if len(xs) != len(ys) {
		return errors.New("xs and ys size mismatch")
	}
	if len(xs) < 2 {
		return errors.New("need at least two samples")
	}

	n := float64(len(xs))
	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return errors.New("degenerate input: all xs identical")
	}

	m.slope = (n*sumXY - sumX*sumY) / denom
	m.intercept = (sumY - m.slope*sumX) / n
	m.samples = len(xs)
	m.trainedAt = time.Now()
	return nil
}

// Predict returns the fitted value for x.
func (m *LinearModel) Predict(x float64) (float64, error) {
	if m.samples == 0 {
		return 0, errors.New("model not trained")
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, errors.New("input is not a finite number")
	}
	return m.slope*x + m.intercept, nil
}

// Save writes the artifact as JSON.
func (m *LinearModel) Save(path string) error {
	if m.samples == 0 {
		return errors.New("model not trained")
	}
	payload, err := json.Marshal(linearArtifact{
		Version:   artifactVersion,
		Slope:     m.slope,
		Intercept: m.intercept,
		Samples:   m.samples,
		TrainedAt: m.trainedAt,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// Load reads an artifact written by Save.
func (m *LinearModel) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
		}
		return err
	}

	var artifact linearArtifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return fmt.Errorf("%w: %v", ErrArtifactCorrupt, err)
	}
	if artifact.Version != artifactVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrArtifactCorrupt, artifact.Version)
	}
	if !isFinite(artifact.Slope) || !isFinite(artifact.Intercept) {
		return fmt.Errorf("%w: non-finite coefficients", ErrArtifactCorrupt)
	}
	if artifact.Samples <= 0 {
		return fmt.Errorf("%w: empty training set", ErrArtifactCorrupt)
	}

	m.slope = artifact.Slope
	m.intercept = artifact.Intercept
	m.samples = artifact.Samples
	m.trainedAt = artifact.TrainedAt
	return nil
}

// Info reports the fitted coefficients.
func (m *LinearModel) Info() Info {
	return Info{
		Type:      "linear",
		Slope:     m.slope,
		Intercept: m.intercept,
		Samples:   m.samples,
		TrainedAt: m.trainedAt.Format(time.RFC3339),
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
