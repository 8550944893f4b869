package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/taiyaki-backend/internal/data/repos"
	types "github.com/yungbote/taiyaki-backend/internal/domain"
	"github.com/yungbote/taiyaki-backend/internal/platform/apierr"
	"github.com/yungbote/taiyaki-backend/internal/platform/dbctx"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

// RawEvent is an analytics event as posted by the quiz front end.
type RawEvent struct {
	SessionID string          `json:"session_id"`
	EventType string          `json:"event_type"`
	EventData json.RawMessage `json:"event_data"`
	Timestamp json.RawMessage `json:"timestamp"`
}

type AnalyticsService interface {
	// Track stores every valid event and returns how many were stored.
	Track(ctx context.Context, events []RawEvent) (int, error)
}

type analyticsService struct {
	log       *logger.Logger
	eventRepo repos.AnalyticsEventRepo
}

func NewAnalyticsService(log *logger.Logger, eventRepo repos.AnalyticsEventRepo) AnalyticsService {
	return &analyticsService{
		log:       log.With("service", "AnalyticsService"),
		eventRepo: eventRepo,
	}
}

func (s *analyticsService) Track(ctx context.Context, events []RawEvent) (int, error) {
	if len(events) == 0 {
		return 0, apierr.Validation("events must be a non-empty array")
	}
	valid := make([]*types.AnalyticsEvent, 0, len(events))
	for i, raw := range events {
		ev, ok := toEvent(raw)
		if !ok {
			s.log.Debug("dropping invalid analytics event", "index", i, "event_type", raw.EventType)
			continue
		}
		valid = append(valid, ev)
	}
	if len(valid) == 0 {
		return 0, apierr.Validation("no valid events")
	}
	stored, err := s.eventRepo.Create(dbctx.New(ctx), valid)
	if err != nil {
		s.log.Error("analytics insert failed", "count", len(valid), "error", err)
		return 0, apierr.Internal(err)
	}
	return len(stored), nil
}

func toEvent(raw RawEvent) (*types.AnalyticsEvent, bool) {
	sessionID := strings.TrimSpace(raw.SessionID)
	eventType := strings.TrimSpace(raw.EventType)
	if sessionID == "" || eventType == "" {
		return nil, false
	}
	at, ok := parseEventTime(raw.Timestamp)
	if !ok {
		return nil, false
	}
	ev := &types.AnalyticsEvent{
		SessionID:  sessionID,
		EventType:  eventType,
		OccurredAt: at,
	}
	data := strings.TrimSpace(string(raw.EventData))
	if data != "" && data != "null" {
		var obj map[string]any
		if err := json.Unmarshal(raw.EventData, &obj); err != nil {
			return nil, false
		}
		ev.EventData = datatypes.JSON(raw.EventData)
		if u, ok := obj["page_url"].(string); ok {
			ev.PageURL = strings.TrimSpace(u)
		}
	}
	return ev, true
}

// parseEventTime accepts an RFC 3339 string or epoch milliseconds.
func parseEventTime(raw json.RawMessage) (time.Time, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return time.Time{}, false
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		str = strings.TrimSpace(str)
		if t, err := time.Parse(time.RFC3339Nano, str); err == nil {
			return t.UTC(), true
		}
		if ms, err := strconv.ParseInt(str, 10, 64); err == nil && ms > 0 {
			return time.UnixMilli(ms).UTC(), true
		}
		return time.Time{}, false
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return time.Time{}, false
	}
	ms, err := num.Int64()
	if err != nil {
		f, ferr := num.Float64()
		if ferr != nil {
			return time.Time{}, false
		}
		ms = int64(f)
	}
	if ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).UTC(), true
}
