package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/applyflow-backend/internal/platform/dbctx"
)

func TestInjectedTxRunnerFailurePoints(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name       string
		runner     *InjectedTxRunner
		bodyErr    error
		wantErr    error
		wantBody   bool
		wantCommit int
		wantRoll   int
	}{
		{name: "commits", runner: &InjectedTxRunner{}, wantBody: true, wantCommit: 1},
		{name: "body error", runner: &InjectedTxRunner{}, bodyErr: boom, wantErr: boom, wantBody: true, wantRoll: 1},
		{name: "begin fails", runner: &InjectedTxRunner{FailBegin: boom}, wantErr: boom},
		{name: "before body", runner: &InjectedTxRunner{FailBeforeBody: boom}, wantErr: boom, wantRoll: 1},
		{name: "commit fails", runner: &InjectedTxRunner{FailCommit: boom}, wantErr: boom, wantBody: true, wantRoll: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ran := false
			err := tc.runner.InTx(context.Background(), func(dbc dbctx.Context) error {
				ran = true
				if dbc.Tx != nil {
					t.Fatalf("no DB configured, body must not get a transaction")
				}
				return tc.bodyErr
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err=%v want %v", err, tc.wantErr)
			}
			if ran != tc.wantBody {
				t.Fatalf("body ran=%v want %v", ran, tc.wantBody)
			}
			begins, commits, rollbacks := tc.runner.Counts()
			if begins != 1 || commits != tc.wantCommit || rollbacks != tc.wantRoll {
				t.Fatalf("begins=%d commits=%d rollbacks=%d", begins, commits, rollbacks)
			}
		})
	}
}
