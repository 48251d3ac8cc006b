package aggregates_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/applyflow-backend/internal/data/aggregates"
	"github.com/yungbote/applyflow-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/applyflow-backend/internal/data/repos"
	repotest "github.com/yungbote/applyflow-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/applyflow-backend/internal/domain/aggregates"
	"github.com/yungbote/applyflow-backend/internal/domain/applications"
	"github.com/yungbote/applyflow-backend/internal/platform/dbctx"
)

func TestApplicationAggregateOwnsItsTransactions(t *testing.T) {
	db := repotest.DB(t)
	agg := aggregates.NewApplicationAggregate(aggregates.ApplicationAggregateDeps{
		Base:         aggregates.BaseDeps{DB: db},
		Applications: repos.NewApplicationRepo(db, repotest.Logger(t)),
		Events:       repos.NewTransitionEventRepo(db, repotest.Logger(t)),
	})
	if !agg.Contract().RequiresAggregateOwnedTx() {
		t.Fatalf("application aggregate must own its write transactions")
	}
}

func TestApplicationAggregateTxFailures(t *testing.T) {
	cases := []struct {
		name     string
		runner   *testutil.InjectedTxRunner
		wantCode domainagg.ErrorCode
		conflict int
		retry    int
	}{
		{
			name:     "begin times out",
			runner:   &testutil.InjectedTxRunner{FailBegin: fmt.Errorf("begin: %w", context.DeadlineExceeded)},
			wantCode: domainagg.CodeRetryable,
			retry:    1,
		},
		{
			name:     "conflict before body",
			runner:   &testutil.InjectedTxRunner{FailBeforeBody: aggregates.ErrConflict},
			wantCode: domainagg.CodeConflict,
			conflict: 1,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := repotest.DB(t)
			log := repotest.Logger(t)
			apps := repos.NewApplicationRepo(db, log)
			hooks := &testutil.HooksRecorder{}
			agg := aggregates.NewApplicationAggregate(aggregates.ApplicationAggregateDeps{
				Base:         aggregates.BaseDeps{DB: db, Log: log, Runner: tc.runner, Hooks: hooks},
				Applications: apps,
				Events:       repos.NewTransitionEventRepo(db, log),
			})

			app, err := applications.New(uuid.New(), "Acme", "Engineer", applications.Details{}, time.Now())
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			err = agg.CreateApplication(context.Background(), app)
			if !domainagg.IsCode(err, tc.wantCode) {
				t.Fatalf("code: want=%s got=%v", tc.wantCode, err)
			}
			if _, commits, _ := tc.runner.Counts(); commits != 0 {
				t.Fatalf("commit must not run: %d", commits)
			}
			const op = "applications.create"
			if got := hooks.Statuses(op); len(got) != 1 || got[0] != string(tc.wantCode) {
				t.Fatalf("statuses: %v", got)
			}
			if hooks.Conflicts(op) != tc.conflict || hooks.Retries(op) != tc.retry {
				t.Fatalf("conflicts=%d retries=%d", hooks.Conflicts(op), hooks.Retries(op))
			}
			exists, err := apps.Exists(dbctx.Context{Ctx: context.Background()}, app.ID())
			if err != nil || exists {
				t.Fatalf("failed create must not persist: exists=%v err=%v", exists, err)
			}
		})
	}
}

func TestApplicationAggregateCommitFailureDropsRowAndEvent(t *testing.T) {
	db := repotest.DB(t)
	log := repotest.Logger(t)
	ctx := context.Background()
	apps := repos.NewApplicationRepo(db, log)
	evs := repos.NewTransitionEventRepo(db, log)
	deps := aggregates.ApplicationAggregateDeps{
		Base:         aggregates.BaseDeps{DB: db, Log: log},
		Applications: apps,
		Events:       evs,
	}
	healthy := aggregates.NewApplicationAggregate(deps)

	now := time.Now().UTC()
	app, err := applications.New(uuid.New(), "Acme", "Engineer", applications.Details{}, now)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := healthy.CreateApplication(ctx, app); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}
	ev, err := app.Transition(applications.StatusInterview, "", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}

	runner := &testutil.InjectedTxRunner{DB: db, FailCommit: fmt.Errorf("commit: %w", aggregates.ErrRetryable)}
	hooks := &testutil.HooksRecorder{}
	deps.Base.Runner = runner
	deps.Base.Hooks = hooks
	failing := aggregates.NewApplicationAggregate(deps)

	_, err = failing.SaveApplicationAndEvent(ctx, domainagg.SaveTransitionInput{Application: app, Event: ev})
	if !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("expected retryable, got %v", err)
	}
	if _, commits, rollbacks := runner.Counts(); commits != 0 || rollbacks != 1 {
		t.Fatalf("commits=%d rollbacks=%d", commits, rollbacks)
	}
	if hooks.Retries("applications.save_transition") != 1 {
		t.Fatalf("retry hook not recorded: %v", hooks.Statuses("applications.save_transition"))
	}

	stored, err := healthy.LoadApplication(ctx, app.ID())
	if err != nil {
		t.Fatalf("LoadApplication: %v", err)
	}
	if stored.Status() != applications.StatusApplied || stored.Version() != 1 || len(stored.Events()) != 0 {
		t.Fatalf("rolled back save leaked: status=%s version=%d events=%d", stored.Status(), stored.Version(), len(stored.Events()))
	}

	if _, err := healthy.SaveApplicationAndEvent(ctx, domainagg.SaveTransitionInput{Application: app, Event: ev}); err != nil {
		t.Fatalf("retry after rollback: %v", err)
	}
	n, err := evs.CountByApplication(dbctx.Context{Ctx: ctx}, app.ID())
	if err != nil || n != 1 {
		t.Fatalf("events after retry: n=%d err=%v", n, err)
	}
}
