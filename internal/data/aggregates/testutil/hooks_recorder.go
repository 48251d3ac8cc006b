package testutil

import (
	"sync"
	"time"

	"github.com/yungbote/applyflow-backend/internal/data/aggregates"
)

// HooksRecorder keeps every aggregate hook signal, keyed by operation.
type HooksRecorder struct {
	mu        sync.Mutex
	statuses  map[string][]string
	conflicts map[string]int
	retries   map[string]int
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveOperation(op, status string, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.statuses == nil {
		h.statuses = map[string][]string{}
	}
	h.statuses[op] = append(h.statuses[op], status)
}

func (h *HooksRecorder) IncConflict(op string) { h.bump(&h.conflicts, op) }

func (h *HooksRecorder) IncRetry(op string) { h.bump(&h.retries, op) }

func (h *HooksRecorder) bump(m *map[string]int, op string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if *m == nil {
		*m = map[string]int{}
	}
	(*m)[op]++
}

// Statuses returns the outcomes observed for op, in order.
func (h *HooksRecorder) Statuses(op string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.statuses[op]...)
}

func (h *HooksRecorder) Conflicts(op string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conflicts[op]
}

func (h *HooksRecorder) Retries(op string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.retries[op]
}
