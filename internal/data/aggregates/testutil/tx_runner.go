package testutil

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/yungbote/applyflow-backend/internal/data/aggregates"
	"github.com/yungbote/applyflow-backend/internal/platform/dbctx"
)

// InjectedTxRunner fails an aggregate write at a chosen point.
//
// Without DB the body runs against whatever the repos fall back to, so only
// the begin and before-body failures are meaningful. With DB the body runs
// inside a real transaction and FailCommit rolls it back, which lets tests
// prove the row update and its event disappear together.
type InjectedTxRunner struct {
	DB *gorm.DB

	FailBegin      error
	FailBeforeBody error
	FailCommit     error

	mu        sync.Mutex
	begins    int
	commits   int
	rollbacks int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

// Counts reports how many transactions began, committed and rolled back.
func (r *InjectedTxRunner) Counts() (begins, commits, rollbacks int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.begins, r.commits, r.rollbacks
}

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.begins++
	r.mu.Unlock()

	if r.FailBegin != nil {
		return r.FailBegin
	}
	if r.FailBeforeBody != nil {
		r.finish(false)
		return r.FailBeforeBody
	}

	run := func(dbc dbctx.Context) error {
		if fn != nil {
			if err := fn(dbc); err != nil {
				return err
			}
		}
		return r.FailCommit
	}

	var err error
	if r.DB != nil {
		err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return run(dbctx.Context{Ctx: ctx, Tx: tx})
		})
	} else {
		err = run(dbctx.Context{Ctx: ctx})
	}
	r.finish(err == nil)
	return err
}

func (r *InjectedTxRunner) finish(committed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if committed {
		r.commits++
	} else {
		r.rollbacks++
	}
}
