package services

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	dataagg "github.com/yungbote/applyflow-backend/internal/data/aggregates"
	"github.com/yungbote/applyflow-backend/internal/data/repos"
	"github.com/yungbote/applyflow-backend/internal/domain/applications"
	"github.com/yungbote/applyflow-backend/internal/platform/dbctx"
	"github.com/yungbote/applyflow-backend/internal/platform/logger"
	"github.com/yungbote/applyflow-backend/internal/reactions"
)

type Summary struct {
	TotalApplications    int64                         `json:"totalApplications"`
	ApplicationsByStatus map[applications.Status]int64 `json:"applicationsByStatus"`
	TotalTransitions     int64                         `json:"totalTransitions"`
	SuccessRate          float64                       `json:"successRate"`
	RejectionRate        float64                       `json:"rejectionRate"`
}

type AnalyticsService interface {
	// Summary reads application counts from the store and the transition
	// total from the in-process counters.
	Summary(ctx context.Context) (*Summary, error)
	Resync(ctx context.Context) (reactions.AnalyticsSnapshot, error)
	// StartResyncLoop resyncs on every tick until ctx ends. A non-positive
	// interval disables it.
	StartResyncLoop(ctx context.Context, every time.Duration)
}

type analyticsService struct {
	log          *logger.Logger
	applications repos.ApplicationRepo
	events       repos.TransitionEventRepo
	counters     *reactions.AnalyticsCounters
}

func NewAnalyticsService(log *logger.Logger, applications repos.ApplicationRepo, events repos.TransitionEventRepo, counters *reactions.AnalyticsCounters) AnalyticsService {
	return &analyticsService{
		log:          log.With("service", "AnalyticsService"),
		applications: applications,
		events:       events,
		counters:     counters,
	}
}

func (s *analyticsService) Summary(ctx context.Context) (*Summary, error) {
	const op = "analytics.summary"
	var (
		total    int64
		byStatus map[applications.Status]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.applications.Count(dbctx.Context{Ctx: gctx})
		total = n
		return err
	})
	g.Go(func() error {
		m, err := s.CountByStatus(gctx)
		byStatus = m
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dataagg.MapError(op, err)
	}

	out := &Summary{
		TotalApplications:    total,
		ApplicationsByStatus: byStatus,
		TotalTransitions:     s.counters.TotalTransitions(),
	}
	if total > 0 {
		out.SuccessRate = percent(byStatus[applications.StatusHired], total)
		out.RejectionRate = percent(byStatus[applications.StatusRejected], total)
	}
	return out, nil
}

// CountByStatus reports every status, including those with no applications.
func (s *analyticsService) CountByStatus(ctx context.Context) (map[applications.Status]int64, error) {
	raw, err := s.applications.CountByStatus(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, err
	}
	out := make(map[applications.Status]int64, applications.StatusCount)
	for _, st := range applications.AllStatuses() {
		out[st] = raw[st.String()]
	}
	return out, nil
}

func (s *analyticsService) CountTransitions(ctx context.Context) (int64, error) {
	return s.events.Count(dbctx.Context{Ctx: ctx})
}

func (s *analyticsService) Resync(ctx context.Context) (reactions.AnalyticsSnapshot, error) {
	snap, err := s.counters.Resync(ctx, s)
	if err != nil {
		return reactions.AnalyticsSnapshot{}, dataagg.MapError("analytics.resync", err)
	}
	return snap, nil
}

func (s *analyticsService) StartResyncLoop(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.Resync(ctx); err != nil {
					s.log.Warn("analytics resync failed", "error", err)
				}
			}
		}
	}()
}

func percent(part, total int64) float64 {
	return math.Round(float64(part)*100/float64(total)*100) / 100
}
