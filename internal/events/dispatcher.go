package events

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/applyflow-backend/internal/observability"
	"github.com/yungbote/applyflow-backend/internal/platform/ctxutil"
	"github.com/yungbote/applyflow-backend/internal/platform/logger"
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
	outcomePanic = "panic"
)

// Report lists how each reaction finished. It is informational only.
type Report struct {
	Succeeded []string
	Failed    map[string]error
}

func (r Report) OK() bool { return len(r.Failed) == 0 }

// FailureHook observes a reaction that errored or panicked.
type FailureHook func(reaction string, ev TransitionOccurred, err error)

type Dispatcher struct {
	log      *logger.Logger
	metrics  *observability.Metrics
	parallel bool

	mu        sync.RWMutex
	reactions []Reaction
	onFailure []FailureHook
}

func NewDispatcher(log *logger.Logger, metrics *observability.Metrics, parallel bool, reactions ...Reaction) *Dispatcher {
	return &Dispatcher{
		log:       log.With("service", "TransitionDispatcher"),
		metrics:   metrics,
		parallel:  parallel,
		reactions: append([]Reaction(nil), reactions...),
	}
}

func (d *Dispatcher) Register(r Reaction) {
	if r == nil {
		return
	}
	d.mu.Lock()
	d.reactions = append(d.reactions, r)
	d.mu.Unlock()
}

// OnFailure registers a hook fired when a reaction errors or panics.
func (d *Dispatcher) OnFailure(fn FailureHook) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	d.onFailure = append(d.onFailure, fn)
	d.mu.Unlock()
}

// Dispatch runs every reaction and returns once all of them finished. A
// failing or panicking reaction never stops the others and never surfaces
// as an error. Reactions run on a context that survives caller cancellation.
func (d *Dispatcher) Dispatch(ctx context.Context, ev TransitionOccurred) Report {
	d.mu.RLock()
	reactions := append([]Reaction(nil), d.reactions...)
	hooks := append([]FailureHook(nil), d.onFailure...)
	d.mu.RUnlock()

	ctx = context.WithoutCancel(ctx)
	results := make([]error, len(reactions))
	if d.parallel {
		var g errgroup.Group
		for i, r := range reactions {
			g.Go(func() error {
				results[i] = d.run(ctx, r, ev)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, r := range reactions {
			results[i] = d.run(ctx, r, ev)
		}
	}

	report := Report{Failed: map[string]error{}}
	for i, r := range reactions {
		if results[i] == nil {
			report.Succeeded = append(report.Succeeded, r.Name())
			continue
		}
		report.Failed[r.Name()] = results[i]
		for _, fn := range hooks {
			d.fireHook(fn, r.Name(), ev, results[i])
		}
	}
	return report
}

func (d *Dispatcher) run(ctx context.Context, r Reaction, ev TransitionOccurred) (err error) {
	start := time.Now()
	name := r.Name()
	outcome := outcomeOK
	defer func() {
		if rec := recover(); rec != nil {
			outcome = outcomePanic
			err = fmt.Errorf("reaction %s panicked: %v", name, rec)
			d.log.Error("reaction panicked",
				append(ctxutil.LogFields(ctx),
					"reaction", name,
					"application_id", ev.ApplicationID,
					"panic", rec,
					"stack", string(debug.Stack()),
				)...,
			)
		}
		d.metrics.ObserveReaction(name, outcome, time.Since(start))
	}()

	if err = r.Handle(ctx, ev); err != nil {
		outcome = outcomeError
		d.log.Error("reaction failed",
			append(ctxutil.LogFields(ctx),
				"reaction", name,
				"application_id", ev.ApplicationID,
				"previous_status", ev.PreviousStatus,
				"new_status", ev.NewStatus,
				"error", err,
			)...,
		)
	}
	return err
}

func (d *Dispatcher) fireHook(fn FailureHook, name string, ev TransitionOccurred, err error) {
	defer func() { _ = recover() }()
	fn(name, ev, err)
}
