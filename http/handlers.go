package http

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"linserve/db"
	"linserve/ml"
	"linserve/monitoring"
)

// Handler serves the prediction API. All dependencies are provided at
// construction; there is no package-level state.
type Handler struct {
	feature string
	store   *db.Store
	stats   *monitoring.Stats

	mu        sync.RWMutex
	predictor ml.Predictor
	info      ml.Info
}

// NewHandler creates the API handler. store may be nil to disable history.
func NewHandler(feature string, predictor ml.Predictor, info ml.Info, store *db.Store, stats *monitoring.Stats) *Handler {
	return &Handler{
		feature:   feature,
		store:     store,
		stats:     stats,
		predictor: predictor,
		info:      info,
	}
}

// Register binds all routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /predict", h.handlePredict)
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /api/model", h.handleModel)
	mux.HandleFunc("GET /api/predictions", h.handlePredictions)
}

// SetPredictor swaps the served predictor. Used by the artifact watcher after
// a successful hot reload.
func (h *Handler) SetPredictor(p ml.Predictor, info ml.Info) {
	h.mu.Lock()
	h.predictor = p
	h.info = info
	h.mu.Unlock()
}

func (h *Handler) currentPredictor() (ml.Predictor, ml.Info) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.predictor, h.info
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.finishError(w, start, http.StatusBadRequest, fmt.Sprintf("invalid json body: %v", err))
		return
	}

	raw, ok := body[h.feature]
	if !ok {
		h.finishError(w, start, http.StatusBadRequest, fmt.Sprintf("missing field %q", h.feature))
		return
	}
	value, ok := raw.(float64)
	if !ok {
		h.finishError(w, start, http.StatusBadRequest, fmt.Sprintf("field %q must be a number", h.feature))
		return
	}

	predictor, _ := h.currentPredictor()
	prediction, err := predictor.Predict(value)
	if err != nil {
		h.finishError(w, start, http.StatusInternalServerError, fmt.Sprintf("prediction failed: %v", err))
		return
	}

	latency := time.Since(start)
	if h.stats != nil {
		h.stats.RecordRequest(latency, false)
	}
	if h.store != nil {
		if err := h.store.SavePrediction(value, prediction, latency); err != nil {
			log.Printf("Failed to record prediction: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]float64{"prediction": prediction})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleModel(w http.ResponseWriter, r *http.Request) {
	_, info := h.currentPredictor()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"model":         info,
		"input_feature": h.feature,
	})
}

func (h *Handler) handlePredictions(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotFound, "prediction history is disabled")
		return
	}

	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	records, err := h.store.QueryRecent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []db.PredictionRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(records),
		"data":  records,
	})
}

// finishError records a failed prediction request and writes the error body.
func (h *Handler) finishError(w http.ResponseWriter, start time.Time, status int, message string) {
	if h.stats != nil {
		h.stats.RecordRequest(time.Since(start), true)
	}
	writeError(w, status, message)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
