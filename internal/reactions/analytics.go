// Package reactions holds the consumers of committed transitions. Each one
// owns a single side effect and is isolated from the others by the
// dispatcher in internal/events.
package reactions

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/yungbote/applyflow-backend/internal/domain/applications"
	"github.com/yungbote/applyflow-backend/internal/events"
	"github.com/yungbote/applyflow-backend/internal/observability"
	"github.com/yungbote/applyflow-backend/internal/platform/logger"
)

const ReactionAnalytics = "analytics"

// CountSource supplies the persisted figures a resync rebuilds counters from.
type CountSource interface {
	CountByStatus(ctx context.Context) (map[applications.Status]int64, error)
	CountTransitions(ctx context.Context) (int64, error)
}

// AnalyticsSnapshot is a point-in-time copy of the counters.
type AnalyticsSnapshot struct {
	ByStatus         map[applications.Status]int64 `json:"byStatus"`
	TotalTransitions int64                         `json:"totalTransitions"`
}

// AnalyticsCounters is advisory state derived from the application records.
// Counters can drift (including below zero) until the next Resync.
// Updates share resyncMu so a Resync never overwrites one in flight.
type AnalyticsCounters struct {
	log     *logger.Logger
	metrics *observability.Metrics

	resyncMu sync.RWMutex

	byStatus [applications.StatusCount]atomic.Int64
	total    atomic.Int64
}

func NewAnalyticsCounters(log *logger.Logger, metrics *observability.Metrics) *AnalyticsCounters {
	return &AnalyticsCounters{
		log:     log.With("reaction", ReactionAnalytics),
		metrics: metrics,
	}
}

func (a *AnalyticsCounters) Name() string { return ReactionAnalytics }

func (a *AnalyticsCounters) Handle(ctx context.Context, ev events.TransitionOccurred) error {
	from, to := ev.PreviousStatus.Index(), ev.NewStatus.Index()
	if from < 0 || to < 0 {
		return fmt.Errorf("analytics: unknown status pair %q -> %q", ev.PreviousStatus, ev.NewStatus)
	}
	a.resyncMu.RLock()
	defer a.resyncMu.RUnlock()
	a.byStatus[from].Add(-1)
	a.byStatus[to].Add(1)
	a.total.Add(1)
	a.publish(ev.PreviousStatus, ev.NewStatus)
	return nil
}

// RecordCreated counts a new application in its initial status.
func (a *AnalyticsCounters) RecordCreated(status applications.Status) {
	if i := status.Index(); i >= 0 {
		a.resyncMu.RLock()
		defer a.resyncMu.RUnlock()
		a.byStatus[i].Add(1)
		a.publish(status)
	}
}

// RecordDeleted removes a deleted application from its last status.
func (a *AnalyticsCounters) RecordDeleted(status applications.Status) {
	if i := status.Index(); i >= 0 {
		a.resyncMu.RLock()
		defer a.resyncMu.RUnlock()
		a.byStatus[i].Add(-1)
		a.publish(status)
	}
}

func (a *AnalyticsCounters) Count(status applications.Status) int64 {
	if i := status.Index(); i >= 0 {
		return a.byStatus[i].Load()
	}
	return 0
}

func (a *AnalyticsCounters) TotalTransitions() int64 { return a.total.Load() }

func (a *AnalyticsCounters) Snapshot() AnalyticsSnapshot {
	out := AnalyticsSnapshot{ByStatus: make(map[applications.Status]int64, applications.StatusCount)}
	for i, s := range applications.AllStatuses() {
		out.ByStatus[s] = a.byStatus[i].Load()
	}
	out.TotalTransitions = a.total.Load()
	return out
}

// Resync overwrites the counters with figures recomputed from the store.
// Statuses missing from the source are reset to zero. Updates arriving while
// the store is read wait and apply on top of the new figures.
func (a *AnalyticsCounters) Resync(ctx context.Context, src CountSource) (AnalyticsSnapshot, error) {
	a.resyncMu.Lock()
	defer a.resyncMu.Unlock()
	counts, err := src.CountByStatus(ctx)
	if err != nil {
		return AnalyticsSnapshot{}, fmt.Errorf("analytics resync: count by status: %w", err)
	}
	total, err := src.CountTransitions(ctx)
	if err != nil {
		return AnalyticsSnapshot{}, fmt.Errorf("analytics resync: count transitions: %w", err)
	}
	before := a.Snapshot()
	for i, s := range applications.AllStatuses() {
		a.byStatus[i].Store(counts[s])
	}
	a.total.Store(total)
	a.publish(applications.AllStatuses()...)

	after := a.Snapshot()
	drift := false
	for _, s := range applications.AllStatuses() {
		if before.ByStatus[s] != after.ByStatus[s] {
			drift = true
			break
		}
	}
	if drift || before.TotalTransitions != after.TotalTransitions {
		a.log.Info("analytics counters corrected", "before", before, "after", after)
	}
	return after, nil
}

func (a *AnalyticsCounters) publish(statuses ...applications.Status) {
	for _, s := range statuses {
		a.metrics.SetStatusCount(s.String(), a.Count(s))
	}
}
