package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/taiyaki-backend/internal/data/repos"
	types "github.com/yungbote/taiyaki-backend/internal/domain"
	"github.com/yungbote/taiyaki-backend/internal/platform/apierr"
	"github.com/yungbote/taiyaki-backend/internal/platform/ctxutil"
	"github.com/yungbote/taiyaki-backend/internal/platform/dbctx"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
	"github.com/yungbote/taiyaki-backend/internal/realtime"
)

// DesignRef identifies a design by its public design id or its record id.
type DesignRef struct {
	DesignID string
	RecordID string
}

func RecordRef(d *types.Design) DesignRef {
	return DesignRef{RecordID: d.ID.String()}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email is usable as an address and as an
// object-key segment (no path separators, no "..").
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if strings.ContainsAny(email, `/\`) || strings.Contains(email, "..") {
		return false
	}
	return emailPattern.MatchString(email)
}

func loadDesign(ctx context.Context, repo repos.DesignRepo, ref DesignRef) (*types.Design, error) {
	recordID := strings.TrimSpace(ref.RecordID)
	designID := strings.TrimSpace(ref.DesignID)
	if recordID == "" && designID == "" {
		return nil, apierr.Validation("design_id or record_id is required")
	}

	dbc := dbctx.New(ctx)
	var (
		d   *types.Design
		err error
	)
	if recordID != "" {
		id, perr := uuid.Parse(recordID)
		if perr != nil {
			return nil, apierr.Validation("invalid record_id")
		}
		d, err = repo.GetByID(dbc, id)
	} else {
		id, perr := uuid.Parse(designID)
		if perr != nil {
			return nil, apierr.Validation("invalid design_id")
		}
		d, err = repo.GetByDesignID(dbc, id)
	}
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if d == nil {
		return nil, apierr.NotFound("design not found")
	}
	return d, nil
}

// requireStatusFor checks that d holds the status that directly precedes to.
func requireStatusFor(d *types.Design, to types.DesignStatus) error {
	want, ok := to.Predecessor()
	if !ok {
		return apierr.Internal(fmt.Errorf("no step leads to status %q", to))
	}
	if d.Status != want {
		return apierr.State(string(d.Status), string(want))
	}
	return nil
}

// transition applies a compare-and-set status change and reloads the record.
func transition(ctx context.Context, repo repos.DesignRepo, d *types.Design, to types.DesignStatus, updates map[string]interface{}) (*types.Design, error) {
	if !types.CanTransition(d.Status, to) {
		want, _ := to.Predecessor()
		return nil, apierr.State(string(d.Status), string(want))
	}
	dbc := dbctx.New(ctx)
	ok, err := repo.TransitionStatus(dbc, d.ID, d.Status, to, updates)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	fresh, err := repo.GetByID(dbc, d.ID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if fresh == nil {
		return nil, apierr.NotFound("design not found")
	}
	if !ok {
		return nil, apierr.State(string(fresh.Status), string(d.Status))
	}
	return fresh, nil
}

func publishStatus(ctx context.Context, pub StatusPublisher, log *logger.Logger, d *types.Design, message string) {
	if pub == nil || d == nil {
		return
	}
	sessionID := d.SessionID
	if sessionID == "" {
		sessionID = ctxutil.SessionID(ctx)
	}
	ev := realtime.StatusEvent{
		DesignID:  d.DesignID.String(),
		RecordID:  d.ID.String(),
		SessionID: sessionID,
		Status:    string(d.Status),
		Message:   message,
		At:        time.Now().UTC(),
	}
	if err := pub.Publish(ctx, ev); err != nil {
		log.Warn("status publish failed", "design_id", ev.DesignID, "status", ev.Status, "error", err)
	}
}
