// Package monitoring 提供服务运行状态统计与实时推送
package monitoring

import (
	"sync"
	"time"
)

// Snapshot 服务状态快照
type Snapshot struct {
	TotalRequests   int64         `json:"total_requests"`
	TotalErrors     int64         `json:"total_errors"`
	AvgLatencyMS    float64       `json:"avg_latency_ms"`
	LastRequestTime time.Time     `json:"last_request_time"`
	StartTime       time.Time     `json:"start_time"`
	Uptime          time.Duration `json:"uptime"`
}

// Stats 请求统计收集器
type Stats struct {
	mu              sync.RWMutex
	totalRequests   int64
	totalErrors     int64
	latencySum      time.Duration
	lastRequestTime time.Time
	startTime       time.Time
}

// NewStats 创建统计收集器
func NewStats() *Stats {
	return &Stats{startTime: time.Now()}
}

// RecordRequest 记录一次预测请求
func (s *Stats) RecordRequest(latency time.Duration, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalRequests++
	if failed {
		s.totalErrors++
	}
	s.latencySum += latency
	s.lastRequestTime = time.Now()
}

// Snapshot 返回当前统计快照
func (s *Stats) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		TotalRequests:   s.totalRequests,
		TotalErrors:     s.totalErrors,
		LastRequestTime: s.lastRequestTime,
		StartTime:       s.startTime,
		Uptime:          time.Since(s.startTime),
	}
	if s.totalRequests > 0 {
		snap.AvgLatencyMS = float64(s.latencySum.Microseconds()) / float64(s.totalRequests) / 1000
	}
	return snap
}
