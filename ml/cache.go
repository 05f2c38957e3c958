package ml

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedPredictor memoizes predictions of a wrapped predictor. Prediction is a
// pure function of the input for a loaded model, so cached entries never go
// stale while the same model is served.
type CachedPredictor struct {
	inner Predictor
	cache *lru.Cache[float64, float64]
}

// NewCachedPredictor wraps inner with an LRU of the given size.
func NewCachedPredictor(inner Predictor, size int) (*CachedPredictor, error) {
	cache, err := lru.New[float64, float64](size)
	if err != nil {
		return nil, err
	}
	return &CachedPredictor{inner: inner, cache: cache}, nil
}

// Predict returns the cached value when present, otherwise delegates to the
// wrapped predictor. Errors are never cached.
func (c *CachedPredictor) Predict(x float64) (float64, error) {
	if v, ok := c.cache.Get(x); ok {
		return v, nil
	}
	v, err := c.inner.Predict(x)
	if err != nil {
		return 0, err
	}
	c.cache.Add(x, v)
	return v, nil
}

// Len reports the number of cached entries.
func (c *CachedPredictor) Len() int {
	return c.cache.Len()
}
