package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"linserve/db"
	"linserve/ml"
	"linserve/monitoring"
)

func TestHandleHealth(t *testing.T) {
	mux, _ := newTestMux(&fakePredictor{value: 1})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload["status"] != "ok" {
		t.Fatalf("unexpected status: %v", payload["status"])
	}
}

func TestHandleModel(t *testing.T) {
	handler := NewHandler("X", &fakePredictor{value: 1},
		ml.Info{Type: "linear", Slope: 2, Intercept: 1, Samples: 100}, nil, monitoring.NewStats())
	mux := http.NewServeMux()
	handler.Register(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/model", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var payload struct {
		Model        ml.Info `json:"model"`
		InputFeature string  `json:"input_feature"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload.InputFeature != "X" {
		t.Fatalf("unexpected input feature: %s", payload.InputFeature)
	}
	if payload.Model.Slope != 2 || payload.Model.Samples != 100 {
		t.Fatalf("unexpected model info: %+v", payload.Model)
	}
}

func TestHandlePredictionsHistory(t *testing.T) {
	store, err := db.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	handler := NewHandler("X", &fakePredictor{value: 3}, ml.Info{Type: "linear"}, store, monitoring.NewStats())
	mux := http.NewServeMux()
	handler.Register(mux)

	// Serve two predictions, then read them back.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"X": 1.5}`))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("predict failed: %d %s", w.Code, w.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/predictions?limit=10", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var payload struct {
		Count int                   `json:"count"`
		Data  []db.PredictionRecord `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload.Count != 2 || len(payload.Data) != 2 {
		t.Fatalf("expected 2 records, got %+v", payload)
	}
	if payload.Data[0].Input != 1.5 || payload.Data[0].Output != 3 {
		t.Fatalf("unexpected record: %+v", payload.Data[0])
	}
}

func TestHandlePredictStoreFailureStillServes(t *testing.T) {
	store, err := db.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	// Closed store makes every SavePrediction fail.
	store.Close()

	handler := NewHandler("X", &fakePredictor{value: 7}, ml.Info{Type: "linear"}, store, monitoring.NewStats())
	mux := http.NewServeMux()
	handler.Register(mux)

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"X": 2}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 despite store failure, got %d", w.Code)
	}
	var payload map[string]float64
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload["prediction"] != 7 {
		t.Fatalf("unexpected prediction: %v", payload["prediction"])
	}
}

func TestHandlePredictionsDisabled(t *testing.T) {
	mux, _ := newTestMux(&fakePredictor{value: 1})

	req := httptest.NewRequest(http.MethodGet, "/api/predictions", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
