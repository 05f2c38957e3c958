package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"linserve/ml"
)

func main() {
	samples := flag.Int("samples", 1000, "number of synthetic samples")
	slope := flag.Float64("slope", 2.0, "true slope of the generated data")
	intercept := flag.Float64("intercept", 0.0, "true intercept of the generated data")
	noise := flag.Float64("noise", 1.0, "gaussian noise stddev")
	seed := flag.Int64("seed", 42, "random seed")
	testRatio := flag.Float64("test_ratio", 0.2, "test ratio")
	modelPath := flag.String("model_path", "./models/linreg.model", "model output path")
	flag.Parse()

	xs, ys, err := ml.GenerateDataset(*samples, *slope, *intercept, *noise, *seed)
	if err != nil {
		log.Fatalf("failed to build training data: %v", err)
	}

	trainX, trainY, testX, testY := ml.SplitDataset(xs, ys, *testRatio)

	model := ml.NewLinearModel()
	if err := model.Train(trainX, trainY); err != nil {
		log.Fatalf("failed to train model: %v", err)
	}

	r2, mae, rmse := evaluateModel(model, testX, testY)
	log.Printf("r2=%.4f mae=%.4f rmse=%.4f", r2, mae, rmse)

	info := model.Info()
	log.Printf("fitted slope=%.4f intercept=%.4f on %d samples", info.Slope, info.Intercept, info.Samples)

	if err := os.MkdirAll(filepath.Dir(*modelPath), 0o755); err != nil {
		log.Fatalf("failed to create model dir: %v", err)
	}
	if err := model.Save(*modelPath); err != nil {
		log.Fatalf("failed to save model: %v", err)
	}

	fmt.Printf("model saved to %s\n", *modelPath)
}

func evaluateModel(model *ml.LinearModel, testX, testY []float64) (r2, mae, rmse float64) {
	if len(testX) == 0 {
		return 0, 0, 0
	}

	var mean float64
	for _, y := range testY {
		mean += y
	}
	mean /= float64(len(testY))

	var ssRes, ssTot, absSum float64
	for i, x := range testX {
		predicted, err := model.Predict(x)
		if err != nil {
			continue
		}
		diff := testY[i] - predicted
		ssRes += diff * diff
		absSum += math.Abs(diff)
		ssTot += (testY[i] - mean) * (testY[i] - mean)
	}

	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}
	mae = absSum / float64(len(testX))
	rmse = math.Sqrt(ssRes / float64(len(testX)))
	return r2, mae, rmse
}
