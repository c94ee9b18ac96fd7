// Package logger provides structured logging and metrics tracking for the
// scraper.
//
// Call sites log through package-level functions with arbitrary structured
// fields; output goes through a shared zap core so every entry carries a
// timestamp and level. Metrics tracking covers counters (incrementing values)
// and timings (duration measurements) with statistical aggregation, used to
// report per-cycle scrape totals.
//
// Example usage:
//
//	logger.Info("parsed listing", logger.Fields{
//	    "term":     "202610",
//	    "sections": 412,
//	})
//
//	logger.IncrCounter("sections.upserted")
//	logger.RecordTiming("desc.fetch", duration)
package logger

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Fields represents structured log fields
type Fields map[string]interface{}

var (
	mu         sync.RWMutex
	defaultLog = zap.Must(zap.NewProduction()).Sugar()
)

// Init replaces the default logger. With verbose set, debug-level entries are
// emitted in zap's development (console) encoding.
func Init(verbose bool) {
	var l *zap.Logger
	if verbose {
		l = zap.Must(zap.NewDevelopment())
	} else {
		l = zap.Must(zap.NewProduction())
	}
	SetDefault(l)
}

// SetDefault sets the zap logger used by the package-level functions.
func SetDefault(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLog = l.Sugar()
}

func kv(fields Fields) []interface{} {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}

// Debug logs a debug message with optional structured fields.
func Debug(message string, fields Fields) {
	mu.RLock()
	defer mu.RUnlock()
	defaultLog.Debugw(message, kv(fields)...)
}

// Info logs an informational message with optional structured fields.
func Info(message string, fields Fields) {
	mu.RLock()
	defer mu.RUnlock()
	defaultLog.Infow(message, kv(fields)...)
}

// Warn logs a warning message with optional structured fields.
func Warn(message string, fields Fields) {
	mu.RLock()
	defer mu.RUnlock()
	defaultLog.Warnw(message, kv(fields)...)
}

// Error logs an error message with optional structured fields and an error.
func Error(message string, fields Fields, err error) {
	mu.RLock()
	defer mu.RUnlock()
	args := kv(fields)
	if err != nil {
		args = append(args, "error", err.Error())
	}
	defaultLog.Errorw(message, args...)
}

// Metrics tracks operational metrics including counters and timings.
// All operations are thread-safe.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	timings  map[string][]time.Duration
}

var defaultMetrics = NewMetrics()

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		timings:  make(map[string][]time.Duration),
	}
}

// IncrCounter increments a counter by 1. Thread-safe.
func (m *Metrics) IncrCounter(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

// RecordTiming records a duration measurement. Thread-safe.
func (m *Metrics) RecordTiming(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings[name] = append(m.timings[name], duration)
}

// GetSnapshot returns a copy of all metrics: counter values plus
// count/total/average/min/max statistics per timing.
func (m *Metrics) GetSnapshot() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	counters := make(map[string]int64, len(m.counters))
	for k, v := range m.counters {
		counters[k] = v
	}

	timings := make(map[string]map[string]interface{})
	for name, durations := range m.timings {
		if len(durations) == 0 {
			continue
		}

		var total time.Duration
		min := durations[0]
		max := durations[0]
		for _, d := range durations {
			total += d
			if d < min {
				min = d
			}
			if d > max {
				max = d
			}
		}

		timings[name] = map[string]interface{}{
			"count":   len(durations),
			"total":   total.String(),
			"average": (total / time.Duration(len(durations))).String(),
			"min":     min.String(),
			"max":     max.String(),
		}
	}

	return map[string]interface{}{
		"counters": counters,
		"timings":  timings,
	}
}

// IncrCounter increments a counter on the default metrics tracker.
func IncrCounter(name string) {
	defaultMetrics.IncrCounter(name)
}

// RecordTiming records a timing on the default metrics tracker.
func RecordTiming(name string, duration time.Duration) {
	defaultMetrics.RecordTiming(name, duration)
}

// GetMetricsSnapshot returns a snapshot of all metrics from the default tracker.
func GetMetricsSnapshot() map[string]interface{} {
	return defaultMetrics.GetSnapshot()
}
