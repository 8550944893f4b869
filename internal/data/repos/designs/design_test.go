package designs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/taiyaki-backend/internal/data/repos/testutil"
	types "github.com/yungbote/taiyaki-backend/internal/domain"
	"github.com/yungbote/taiyaki-backend/internal/platform/dbctx"
)

func TestDesignRepoLifecycle(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewDesignRepo(db, testutil.Logger(t))

	d, err := repo.Create(dbc, &types.Design{Email: "a@b.com", SubjectName: "Rex"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.ID == uuid.Nil || d.DesignID == uuid.Nil {
		t.Fatalf("ids not assigned: %+v", d)
	}
	if d.Status != types.DesignStatusPending {
		t.Fatalf("status=%s want pending", d.Status)
	}

	byDesign, err := repo.GetByDesignID(dbc, d.DesignID)
	if err != nil || byDesign == nil || byDesign.ID != d.ID {
		t.Fatalf("GetByDesignID: %v %+v", err, byDesign)
	}
	missing, err := repo.GetByID(dbc, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("GetByID missing: %v %+v", err, missing)
	}

	// Skipping a step must not apply.
	ok, err := repo.TransitionStatus(dbc, d.ID, types.DesignStatusRendered, types.DesignStatusReady, nil)
	if err != nil || ok {
		t.Fatalf("out-of-order transition applied: ok=%v err=%v", ok, err)
	}

	now := time.Now().UTC()
	ok, err = repo.TransitionStatus(dbc, d.ID, types.DesignStatusPending, types.DesignStatusRendered, map[string]interface{}{
		"render_url":  "https://cdn/render.png",
		"rendered_at": now,
	})
	if err != nil || !ok {
		t.Fatalf("pending->rendered: ok=%v err=%v", ok, err)
	}
	got, _ := repo.GetByID(dbc, d.ID)
	if got.Status != types.DesignStatusRendered || got.RenderURL != "https://cdn/render.png" || got.RenderedAt == nil {
		t.Fatalf("unexpected record after render: %+v", got)
	}

	ok, err = repo.MarkError(dbc, d.ID, "shopify request failed: status 422")
	if err != nil || !ok {
		t.Fatalf("MarkError: ok=%v err=%v", ok, err)
	}
	got, _ = repo.GetByID(dbc, d.ID)
	if got.Status != types.DesignStatusError {
		t.Fatalf("status=%s want error", got.Status)
	}
	if got.FailedFromStatus != types.DesignStatusRendered {
		t.Fatalf("failed_from_status=%s want rendered", got.FailedFromStatus)
	}
	if got.ErrorMessage == "" || got.ErrorAt == nil {
		t.Fatalf("error context missing: %+v", got)
	}

	// Terminal records are frozen.
	ok, err = repo.MarkError(dbc, d.ID, "again")
	if err != nil || ok {
		t.Fatalf("MarkError on terminal record applied: ok=%v err=%v", ok, err)
	}
}

func TestDesignRepoListByEmail(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewDesignRepo(db, testutil.Logger(t))

	base := time.Now().UTC().Add(-time.Hour)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		d := &types.Design{Email: "list@b.com", SubjectName: "Rex", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if _, err := repo.Create(dbc, d); err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, d.ID)
	}
	testutil.SeedDesign(t, ctx, db, "other@b.com", types.DesignStatusPending)

	out, err := repo.ListByEmail(dbc, "list@b.com", 2)
	if err != nil {
		t.Fatalf("ListByEmail: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len=%d want 2", len(out))
	}
	if out[0].ID != ids[2] || out[1].ID != ids[1] {
		t.Fatalf("expected newest first")
	}
}
