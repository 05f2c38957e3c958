package ml

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func saveArtifact(t *testing.T, path string, slope, intercept float64) {
	t.Helper()
	xs := []float64{0, 1, 2, 3}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = slope*x + intercept
	}
	model := NewLinearModel()
	if err := model.Train(xs, ys); err != nil {
		t.Fatalf("train: %v", err)
	}
	if err := model.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
}

func awaitReload(t *testing.T, reloaded <-chan *LinearModel) *LinearModel {
	t.Helper()
	select {
	case m := <-reloaded:
		return m
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
		return nil
	}
}

func TestWatcherReloadsOnRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linreg.model")
	saveArtifact(t, path, 2, 0)

	reloaded := make(chan *LinearModel, 4)
	watcher, err := WatchArtifact(path, "linear", func(m *LinearModel) {
		reloaded <- m
	})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer watcher.Close()

	saveArtifact(t, path, 3, 1)

	fresh := awaitReload(t, reloaded)
	got, err := fresh.Predict(1)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if math.Abs(got-4) > 1e-9 {
		t.Fatalf("expected reloaded model to predict 4, got %v", got)
	}
}

func TestWatcherSkipsCorruptArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linreg.model")
	saveArtifact(t, path, 2, 0)

	reloaded := make(chan *LinearModel, 4)
	watcher, err := WatchArtifact(path, "linear", func(m *LinearModel) {
		reloaded <- m
	})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer watcher.Close()

	if err := os.WriteFile(path, []byte("garbage"), 0o600); err != nil {
		t.Fatalf("write corrupt artifact: %v", err)
	}

	// The debounce is 200ms; give the watcher time to see the write.
	select {
	case <-reloaded:
		t.Fatal("corrupt artifact must not trigger a swap")
	case <-time.After(700 * time.Millisecond):
	}

	// The watcher survives the bad write and picks up the next good one.
	saveArtifact(t, path, 5, 0)

	fresh := awaitReload(t, reloaded)
	got, err := fresh.Predict(2)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if math.Abs(got-10) > 1e-9 {
		t.Fatalf("expected recovered model to predict 10, got %v", got)
	}
}
