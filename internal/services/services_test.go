package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	dataagg "github.com/yungbote/applyflow-backend/internal/data/aggregates"
	"github.com/yungbote/applyflow-backend/internal/data/repos"
	repotest "github.com/yungbote/applyflow-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/applyflow-backend/internal/domain/aggregates"
	"github.com/yungbote/applyflow-backend/internal/domain/applications"
	"github.com/yungbote/applyflow-backend/internal/events"
	"github.com/yungbote/applyflow-backend/internal/observability"
	"github.com/yungbote/applyflow-backend/internal/platform/clock"
	"github.com/yungbote/applyflow-backend/internal/platform/dbctx"
	"github.com/yungbote/applyflow-backend/internal/reactions"
)

type fixture struct {
	clock         *clock.Fake
	metrics       *observability.Metrics
	agg           domainagg.ApplicationAggregate
	apps          repos.ApplicationRepo
	events        repos.TransitionEventRepo
	counters      *reactions.AnalyticsCounters
	dispatcher    *events.Dispatcher
	applications  ApplicationService
	notifications NotificationService
	analytics     AnalyticsService
	coordinator   TransitionCoordinator
}

func newFixture(t *testing.T, extra ...events.Reaction) *fixture {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)
	f := &fixture{
		clock:   clock.NewFake(time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)),
		metrics: observability.New(time.Second),
		apps:    repos.NewApplicationRepo(db, log),
		events:  repos.NewTransitionEventRepo(db, log),
	}
	f.agg = dataagg.NewApplicationAggregate(dataagg.ApplicationAggregateDeps{
		Base:         dataagg.BaseDeps{DB: db, Log: log, Hooks: dataagg.NewMetricsHooks(f.metrics)},
		Applications: f.apps,
		Events:       f.events,
	})
	f.counters = reactions.NewAnalyticsCounters(log, f.metrics)
	f.notifications = NewNotificationService(log, repos.NewNotificationRepo(db, log), nil)
	f.dispatcher = events.NewDispatcher(log, f.metrics, true,
		f.counters,
		reactions.NewAuditLogger(log),
		reactions.NewNotificationGenerator(log, nil, f.notifications, f.clock, nil),
	)
	for _, r := range extra {
		f.dispatcher.Register(r)
	}
	f.applications = NewApplicationService(log, ApplicationServiceDeps{
		Aggregate:    f.agg,
		Applications: f.apps,
		Counters:     f.counters,
		Clock:        f.clock,
	})
	f.analytics = NewAnalyticsService(log, f.apps, f.events, f.counters)
	f.coordinator = NewTransitionCoordinator(log, TransitionCoordinatorDeps{
		Aggregate: f.agg,
		Publisher: f.dispatcher,
		Clock:     f.clock,
		Metrics:   f.metrics,
	})
	return f
}

func (f *fixture) create(t *testing.T, company, position string) *applications.Application {
	t.Helper()
	app, err := f.applications.Create(context.Background(), CreateApplicationInput{Company: company, Position: position})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return app
}

type countingPublisher struct {
	mu     sync.Mutex
	events []events.TransitionOccurred
}

func (p *countingPublisher) Dispatch(_ context.Context, ev events.TransitionOccurred) events.Report {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
	return events.Report{}
}

func (p *countingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func TestAcmeLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	app := f.create(t, "  Acme ", "Engineer")
	if app.Company() != "Acme" || app.Status() != applications.StatusApplied || app.Version() != 1 {
		t.Fatalf("unexpected created app: company=%q status=%s version=%d", app.Company(), app.Status(), app.Version())
	}

	f.clock.Advance(time.Hour)
	got, err := f.coordinator.ApplyTransition(ctx, app.ID(), applications.StatusInterview, "phone screen booked")
	if err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	if got.Status() != applications.StatusInterview || got.Version() != 2 {
		t.Fatalf("status=%s version=%d", got.Status(), got.Version())
	}
	if !got.UpdatedAt().Equal(f.clock.Now()) {
		t.Fatalf("updatedAt=%s want %s", got.UpdatedAt(), f.clock.Now())
	}

	timeline, err := f.applications.Timeline(ctx, app.ID())
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if len(timeline) != 1 {
		t.Fatalf("timeline len=%d want=1", len(timeline))
	}
	ev := timeline[0]
	if ev.PreviousStatus != applications.StatusApplied || ev.NewStatus != applications.StatusInterview || ev.Comment != "phone screen booked" {
		t.Fatalf("unexpected event: %+v", ev)
	}

	notes, err := f.notifications.ListUnread(ctx)
	if err != nil {
		t.Fatalf("ListUnread: %v", err)
	}
	if len(notes) != 1 || notes[0].Message != "Interview scheduled for Engineer position at Acme" {
		t.Fatalf("notifications=%+v", notes)
	}

	if f.counters.Count(applications.StatusApplied) != 0 || f.counters.Count(applications.StatusInterview) != 1 || f.counters.TotalTransitions() != 1 {
		t.Fatalf("counters=%+v", f.counters.Snapshot())
	}

	f.clock.Advance(time.Hour)
	if _, err := f.coordinator.ApplyTransition(ctx, app.ID(), applications.StatusOffer, ""); err != nil {
		t.Fatalf("to offer: %v", err)
	}
	f.clock.Advance(time.Hour)
	final, err := f.coordinator.ApplyTransition(ctx, app.ID(), applications.StatusHired, "")
	if err != nil {
		t.Fatalf("to hired: %v", err)
	}
	if final.Version() != 4 || len(final.Events()) != 3 || final.Events()[0].NewStatus != applications.StatusHired {
		t.Fatalf("final version=%d events=%d", final.Version(), len(final.Events()))
	}

	_, err = f.coordinator.ApplyTransition(ctx, app.ID(), applications.StatusRejected, "")
	if !domainagg.IsCode(err, domainagg.CodeInvalidTransition) {
		t.Fatalf("transition out of HIRED: want invalid_transition got %v", err)
	}

	summary, err := f.analytics.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.TotalApplications != 1 || summary.TotalTransitions != 3 || summary.SuccessRate != 100 || summary.RejectionRate != 0 {
		t.Fatalf("summary=%+v", summary)
	}
}

func TestInvalidTransitionIsNotPersistedOrPublished(t *testing.T) {
	f := newFixture(t)
	pub := &countingPublisher{}
	f.coordinator = NewTransitionCoordinator(repotest.Logger(t), TransitionCoordinatorDeps{Aggregate: f.agg, Publisher: pub, Clock: f.clock})
	app := f.create(t, "Acme", "Engineer")

	_, err := f.coordinator.ApplyTransition(context.Background(), app.ID(), applications.StatusHired, "")
	var ite *applications.InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("want InvalidTransitionError, got %v", err)
	}
	if ite.From != applications.StatusApplied || ite.To != applications.StatusHired {
		t.Fatalf("unexpected pair: %+v", ite)
	}
	if pub.count() != 0 {
		t.Fatalf("rejected transition was published")
	}
	n, err := f.events.CountByApplication(dbctx.Context{Ctx: context.Background()}, app.ID())
	if err != nil || n != 0 {
		t.Fatalf("events persisted=%d err=%v", n, err)
	}

	if _, err := f.coordinator.ApplyTransition(context.Background(), app.ID(), applications.StatusApplied, ""); !domainagg.IsCode(err, domainagg.CodeInvalidTransition) {
		t.Fatalf("same-status transition: %v", err)
	}
	if _, err := f.coordinator.ApplyTransition(context.Background(), app.ID(), applications.StatusOffer, strings.Repeat("x", applications.MaxCommentLength+1)); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("long comment: %v", err)
	}
	if _, err := f.coordinator.ApplyTransition(context.Background(), app.ID(), "ARCHIVED", ""); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("unknown status: %v", err)
	}
	if pub.count() != 0 {
		t.Fatalf("failed transitions were published")
	}
}

func TestTransitionUnknownApplication(t *testing.T) {
	f := newFixture(t)
	_, err := f.coordinator.ApplyTransition(context.Background(), uuid.New(), applications.StatusInterview, "")
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("want not_found, got %v", err)
	}
	if _, err := f.applications.Timeline(context.Background(), uuid.New()); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("timeline of unknown app: %v", err)
	}
}

// barrierAggregate holds every load until two callers have loaded, so both
// transitions start from the same version.
type barrierAggregate struct {
	domainagg.ApplicationAggregate
	mu      sync.Mutex
	arrived int
	release chan struct{}
}

func (b *barrierAggregate) LoadApplication(ctx context.Context, id uuid.UUID) (*applications.Application, error) {
	app, err := b.ApplicationAggregate.LoadApplication(ctx, id)
	b.mu.Lock()
	b.arrived++
	if b.arrived == 2 {
		close(b.release)
	}
	b.mu.Unlock()
	select {
	case <-b.release:
	case <-time.After(5 * time.Second):
	}
	return app, err
}

func TestConcurrentTransitionsOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	app := f.create(t, "Acme", "Engineer")
	pub := &countingPublisher{}
	coord := NewTransitionCoordinator(repotest.Logger(t), TransitionCoordinatorDeps{
		Aggregate: &barrierAggregate{ApplicationAggregate: f.agg, release: make(chan struct{})},
		Publisher: pub,
		Clock:     f.clock,
		Metrics:   f.metrics,
	})

	targets := []applications.Status{applications.StatusInterview, applications.StatusRejected}
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = coord.ApplyTransition(context.Background(), app.ID(), target, "")
		}()
	}
	wg.Wait()

	wins, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case domainagg.IsCode(err, domainagg.CodeConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("wins=%d conflicts=%d errs=%v", wins, conflicts, errs)
	}
	if pub.count() != 1 {
		t.Fatalf("published=%d want=1", pub.count())
	}
	n, err := f.events.CountByApplication(dbctx.Context{Ctx: context.Background()}, app.ID())
	if err != nil || n != 1 {
		t.Fatalf("events persisted=%d err=%v", n, err)
	}
	loaded, err := f.applications.Get(context.Background(), app.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loaded.Version() != 2 || loaded.Status() != pub.events[0].NewStatus {
		t.Fatalf("loaded status=%s version=%d", loaded.Status(), loaded.Version())
	}
}

type panickingReaction struct{}

func (panickingReaction) Name() string { return "panics" }
func (panickingReaction) Handle(context.Context, events.TransitionOccurred) error {
	panic("reaction exploded")
}

func TestTransitionsWithStalledOrBackwardClock(t *testing.T) {
	cases := []struct {
		name string
		step time.Duration
	}{
		{"stalled", 0},
		{"backward", -10 * time.Millisecond},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			for i := 0; i < 10; i++ {
				app := f.create(t, "Acme", "Engineer")
				if _, err := f.coordinator.ApplyTransition(ctx, app.ID(), applications.StatusInterview, ""); err != nil {
					t.Fatalf("interview: %v", err)
				}
				f.clock.Advance(tc.step)
				if _, err := f.coordinator.ApplyTransition(ctx, app.ID(), applications.StatusOffer, ""); err != nil {
					t.Fatalf("offer: %v", err)
				}

				got, err := f.applications.Get(ctx, app.ID())
				if err != nil {
					t.Fatalf("Get #%d: %v", i, err)
				}
				if got.Status() != applications.StatusOffer {
					t.Fatalf("status=%s want OFFER", got.Status())
				}
				timeline, err := f.applications.Timeline(ctx, app.ID())
				if err != nil {
					t.Fatalf("Timeline: %v", err)
				}
				if len(timeline) != 2 || timeline[0].NewStatus != applications.StatusOffer || timeline[1].NewStatus != applications.StatusInterview {
					t.Fatalf("timeline out of order: %+v", timeline)
				}
				if timeline[0].Timestamp.Before(timeline[1].Timestamp) {
					t.Fatalf("timestamps run against the history: %v < %v", timeline[0].Timestamp, timeline[1].Timestamp)
				}
				if _, err := f.coordinator.ApplyTransition(ctx, app.ID(), applications.StatusHired, ""); err != nil {
					t.Fatalf("hired: %v", err)
				}
			}
		})
	}
}

func TestReactionFailureDoesNotAffectTransition(t *testing.T) {
	f := newFixture(t, panickingReaction{})
	app := f.create(t, "Globex", "Analyst")

	got, err := f.coordinator.ApplyTransition(context.Background(), app.ID(), applications.StatusRejected, "")
	if err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	if got.Status() != applications.StatusRejected {
		t.Fatalf("status=%s", got.Status())
	}
	notes, err := f.notifications.ListByApplication(context.Background(), app.ID())
	if err != nil {
		t.Fatalf("ListByApplication: %v", err)
	}
	if len(notes) != 1 || notes[0].Message != "Application for Analyst at Globex was not successful" {
		t.Fatalf("notifications=%+v", notes)
	}
	if f.counters.Count(applications.StatusRejected) != 1 {
		t.Fatalf("analytics reaction skipped: %+v", f.counters.Snapshot())
	}
	if f.metrics.ReactionCount("panics", "panic") != 1 {
		t.Fatalf("panic not recorded")
	}
}

func TestSummaryRates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.analytics.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if empty.TotalApplications != 0 || empty.SuccessRate != 0 || empty.RejectionRate != 0 {
		t.Fatalf("empty summary=%+v", empty)
	}
	if len(empty.ApplicationsByStatus) != applications.StatusCount {
		t.Fatalf("every status should be listed: %+v", empty.ApplicationsByStatus)
	}

	paths := map[int][]applications.Status{
		0: {applications.StatusInterview, applications.StatusHired},
		1: {applications.StatusOffer, applications.StatusHired},
		2: {applications.StatusInterview, applications.StatusOffer, applications.StatusHired},
		3: {applications.StatusRejected},
		4: {applications.StatusInterview, applications.StatusRejected},
	}
	for i := 0; i < 10; i++ {
		app := f.create(t, "Co", "Role")
		for _, st := range paths[i] {
			f.clock.Advance(time.Minute)
			if _, err := f.coordinator.ApplyTransition(ctx, app.ID(), st, ""); err != nil {
				t.Fatalf("app %d to %s: %v", i, st, err)
			}
		}
	}

	s, err := f.analytics.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.TotalApplications != 10 || s.SuccessRate != 30 || s.RejectionRate != 20 {
		t.Fatalf("summary=%+v", s)
	}
	if s.ApplicationsByStatus[applications.StatusApplied] != 5 || s.TotalTransitions != 10 {
		t.Fatalf("summary=%+v", s)
	}
}

func TestPercentRounding(t *testing.T) {
	if got := percent(1, 3); got != 33.33 {
		t.Fatalf("percent(1,3)=%v", got)
	}
	if got := percent(2, 3); got != 66.67 {
		t.Fatalf("percent(2,3)=%v", got)
	}
}

func TestResyncAfterRestart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.create(t, "Acme", "Engineer")
	if _, err := f.coordinator.ApplyTransition(ctx, app.ID(), applications.StatusOffer, ""); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}

	fresh := reactions.NewAnalyticsCounters(repotest.Logger(t), nil)
	svc := NewAnalyticsService(repotest.Logger(t), f.apps, f.events, fresh)
	snap, err := svc.Resync(ctx)
	if err != nil {
		t.Fatalf("Resync: %v", err)
	}
	if snap.ByStatus[applications.StatusOffer] != 1 || snap.ByStatus[applications.StatusApplied] != 0 || snap.TotalTransitions != 1 {
		t.Fatalf("snapshot=%+v", snap)
	}
}

func TestDeleteApplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.create(t, "Acme", "Engineer")
	if _, err := f.coordinator.ApplyTransition(ctx, app.ID(), applications.StatusInterview, ""); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}

	if err := f.applications.Delete(ctx, app.ID()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.counters.Count(applications.StatusInterview) != 0 {
		t.Fatalf("counters=%+v", f.counters.Snapshot())
	}
	if _, err := f.applications.Get(ctx, app.ID()); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("Get after delete: %v", err)
	}
	if err := f.applications.Delete(ctx, app.ID()); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	notes, err := f.notifications.ListByApplication(ctx, app.ID())
	if err != nil || len(notes) != 1 {
		t.Fatalf("notifications should survive delete: %d err=%v", len(notes), err)
	}
}

func TestListOrderingAndFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.create(t, "Acme", "Engineer")
	f.clock.Advance(time.Hour)
	second := f.create(t, "Globex", "Analyst")
	if _, err := f.coordinator.ApplyTransition(ctx, first.ID(), applications.StatusInterview, ""); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}

	all, err := f.applications.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].ID() != second.ID() || all[1].ID() != first.ID() {
		t.Fatalf("list should be newest applied first")
	}

	interviewing, err := f.applications.ListByStatus(ctx, applications.StatusInterview)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(interviewing) != 1 || interviewing[0].ID() != first.ID() {
		t.Fatalf("interviewing=%d", len(interviewing))
	}
	if _, err := f.applications.ListByStatus(ctx, "ARCHIVED"); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("unknown status filter: %v", err)
	}
	if _, err := f.applications.Create(ctx, CreateApplicationInput{Company: " ", Position: "x"}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("blank company: %v", err)
	}
}

func TestNotificationReadState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, target := range []applications.Status{applications.StatusInterview, applications.StatusOffer} {
		app := f.create(t, "Acme", "Engineer")
		f.clock.Advance(time.Minute)
		if _, err := f.coordinator.ApplyTransition(ctx, app.ID(), target, ""); err != nil {
			t.Fatalf("ApplyTransition: %v", err)
		}
	}

	all, err := f.notifications.List(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("List: %d err=%v", len(all), err)
	}
	if !all[0].CreatedAt.After(all[1].CreatedAt) {
		t.Fatalf("notifications should be newest first")
	}

	read, err := f.notifications.MarkRead(ctx, all[0].ID)
	if err != nil || !read.Read {
		t.Fatalf("MarkRead: %+v err=%v", read, err)
	}
	if _, err := f.notifications.MarkRead(ctx, all[0].ID); err != nil {
		t.Fatalf("MarkRead twice: %v", err)
	}
	if _, err := f.notifications.MarkRead(ctx, uuid.New()); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("MarkRead unknown: %v", err)
	}
	if n, _ := f.notifications.CountUnread(ctx); n != 1 {
		t.Fatalf("unread=%d want=1", n)
	}
	flipped, err := f.notifications.MarkAllRead(ctx)
	if err != nil || flipped != 1 {
		t.Fatalf("MarkAllRead=%d err=%v", flipped, err)
	}
	if n, _ := f.notifications.CountUnread(ctx); n != 0 {
		t.Fatalf("unread=%d want=0", n)
	}
}
