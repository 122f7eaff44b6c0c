package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for HTTP traffic and
// workflow execution.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	runCount     map[string]int64
	stepCount    map[string]int64
	memoHits     map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		runCount:     make(map[string]int64),
		stepCount:    make(map[string]int64),
		memoHits:     make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordRun counts a terminal workflow run outcome.
func (m *Metrics) RecordRun(workflowID, status string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runCount[workflowID+"|"+status]++
}

// RecordStep counts a step execution. Memoized replays are tracked
// separately from real executions.
func (m *Metrics) RecordStep(workflowID, step string, memoized bool) {
	if m == nil {
		return
	}
	key := workflowID + "|" + step
	m.mu.Lock()
	defer m.mu.Unlock()
	if memoized {
		m.memoHits[key]++
		return
	}
	m.stepCount[key]++
}

// RunCount returns the counter for a workflow/status pair.
func (m *Metrics) RunCount(workflowID, status string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runCount[workflowID+"|"+status]
}

// StepCount returns real (non-memoized) executions of a step.
func (m *Metrics) StepCount(workflowID, step string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stepCount[workflowID+"|"+step]
}
