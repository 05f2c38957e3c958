package ml

import (
	"errors"
	"math/rand"
)

// GenerateDataset builds a synthetic training set y = slope*x + intercept +
// gaussian noise, deterministic for a fixed seed. xs are drawn uniformly from
// [0, 100).
func GenerateDataset(n int, slope, intercept, noise float64, seed int64) (xs, ys []float64, err error) {
	if n <= 0 {
		return nil, nil, errors.New("n must be positive")
	}
	if noise < 0 {
		return nil, nil, errors.New("noise must be non-negative")
	}

	rng := rand.New(rand.NewSource(seed))
	xs = make([]float64, n)
	ys = make([]float64, n)
	for i := 0; i < n; i++ {
		x := rng.Float64() * 100
		xs[i] = x
		ys[i] = slope*x + intercept + rng.NormFloat64()*noise
	}
	return xs, ys, nil
}

// SplitDataset separates a dataset into train and test partitions. Invalid
// ratios fall back to 0.2.
func SplitDataset(xs, ys []float64, testRatio float64) (trainX, trainY, testX, testY []float64) {
	if testRatio <= 0 || testRatio >= 1 {
		testRatio = 0.2
	}

	split := int(float64(len(xs)) * (1 - testRatio))
	for i := range xs {
		if i < split {
			trainX = append(trainX, xs[i])
			trainY = append(trainY, ys[i])
		} else {
			testX = append(testX, xs[i])
			testY = append(testY, ys[i])
		}
	}
	return trainX, trainY, testX, testY
}
