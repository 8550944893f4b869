package analytics

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/taiyaki-backend/internal/data/repos/testutil"
	types "github.com/yungbote/taiyaki-backend/internal/domain"
	"github.com/yungbote/taiyaki-backend/internal/platform/dbctx"
)

func TestEventRepo(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Context{Ctx: context.Background()}
	repo := NewEventRepo(db, testutil.Logger(t))

	now := time.Now().UTC()
	if _, err := repo.Create(dbc, nil); err != nil {
		t.Fatalf("Create empty: %v", err)
	}
	_, err := repo.Create(dbc, []*types.AnalyticsEvent{
		{SessionID: "s1", EventType: "quiz_started", OccurredAt: now, EventData: datatypes.JSON(`{"step":1}`)},
		{SessionID: "s1", EventType: "quiz_completed", OccurredAt: now.Add(time.Second)},
		{SessionID: "s2", EventType: "quiz_started", OccurredAt: now},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	n, err := repo.Count(dbc)
	if err != nil || n != 3 {
		t.Fatalf("Count=%d err=%v", n, err)
	}
	list, err := repo.ListBySession(dbc, "s1")
	if err != nil || len(list) != 2 || list[0].EventType != "quiz_started" {
		t.Fatalf("ListBySession: %v %+v", err, list)
	}
}
