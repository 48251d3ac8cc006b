package applications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/applyflow-backend/internal/data/models"
	"github.com/yungbote/applyflow-backend/internal/data/repos/testutil"
	"github.com/yungbote/applyflow-backend/internal/platform/dbctx"
)

func TestApplicationRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewApplicationRepo(tx, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	now := time.Now().UTC().Truncate(time.Second)
	older := testutil.SeedApplication(t, ctx, tx, "Acme", "Engineer", "APPLIED", now.Add(-time.Hour))
	newer := testutil.SeedApplication(t, ctx, tx, "Globex", "Designer", "INTERVIEW", now)
	testutil.SeedApplication(t, ctx, tx, "Initech", "Analyst", "APPLIED", now.Add(-2*time.Hour))

	got, err := repo.GetByID(dbc, older.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Company != "Acme" || got.Version != 1 {
		t.Fatalf("GetByID: unexpected row %+v", got)
	}
	missing, err := repo.GetByID(dbc, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("GetByID missing: row=%v err=%v", missing, err)
	}

	all, err := repo.List(dbc)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ID != newer.ID {
		t.Fatalf("List: want newest first, got %d rows", len(all))
	}

	applied, err := repo.ListByStatus(dbc, "APPLIED")
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(applied) != 2 || applied[0].ID != older.ID {
		t.Fatalf("ListByStatus: unexpected %d rows", len(applied))
	}

	counts, err := repo.CountByStatus(dbc)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts["APPLIED"] != 2 || counts["INTERVIEW"] != 1 {
		t.Fatalf("CountByStatus: %+v", counts)
	}

	n, err := repo.DeleteByID(dbc, older.ID)
	if err != nil || n != 1 {
		t.Fatalf("DeleteByID: n=%d err=%v", n, err)
	}
	exists, err := repo.Exists(dbc, older.ID)
	if err != nil || exists {
		t.Fatalf("Exists after delete: %v %v", exists, err)
	}
}

func TestTransitionEventRepoNewestFirst(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewTransitionEventRepo(tx, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	now := time.Now().UTC().Truncate(time.Second)
	app := testutil.SeedApplication(t, ctx, tx, "Acme", "Engineer", "OFFER", now)
	testutil.SeedEvent(t, ctx, tx, app.ID, 1, "APPLIED", "INTERVIEW", now.Add(2*time.Minute))
	testutil.SeedEvent(t, ctx, tx, app.ID, 2, "INTERVIEW", "OFFER", now.Add(time.Minute))

	events, err := repo.ListByApplication(dbc, app.ID)
	if err != nil {
		t.Fatalf("ListByApplication: %v", err)
	}
	if len(events) != 2 || events[0].NewStatus != "OFFER" || events[1].NewStatus != "INTERVIEW" {
		t.Fatalf("ListByApplication: unexpected order %+v", events)
	}

	n, err := repo.DeleteByApplication(dbc, app.ID)
	if err != nil || n != 2 {
		t.Fatalf("DeleteByApplication: n=%d err=%v", n, err)
	}
	left, err := repo.CountByApplication(dbc, app.ID)
	if err != nil || left != 0 {
		t.Fatalf("CountByApplication: n=%d err=%v", left, err)
	}
}

func TestTransitionEventRepoTiedTimestampsFollowSequence(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewTransitionEventRepo(tx, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	at := time.Now().UTC().Truncate(time.Second)
	app := testutil.SeedApplication(t, ctx, tx, "Acme", "Engineer", "HIRED", at)
	testutil.SeedEvent(t, ctx, tx, app.ID, 1, "APPLIED", "INTERVIEW", at)
	testutil.SeedEvent(t, ctx, tx, app.ID, 2, "INTERVIEW", "OFFER", at)
	testutil.SeedEvent(t, ctx, tx, app.ID, 3, "OFFER", "HIRED", at)

	for i := 0; i < 5; i++ {
		events, err := repo.ListByApplication(dbc, app.ID)
		if err != nil {
			t.Fatalf("ListByApplication: %v", err)
		}
		if len(events) != 3 || events[0].Seq != 3 || events[1].Seq != 2 || events[2].Seq != 1 {
			t.Fatalf("ListByApplication: unexpected order %+v", events)
		}
	}

	dup := &models.ApplicationEvent{
		ID:             uuid.New(),
		ApplicationID:  app.ID,
		Seq:            3,
		PreviousStatus: "OFFER",
		NewStatus:      "REJECTED",
		Timestamp:      at,
	}
	if err := repo.Create(dbc, dup); err == nil {
		t.Fatalf("expected duplicate sequence to be rejected")
	}
}
