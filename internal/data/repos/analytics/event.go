package analytics

import (
	"gorm.io/gorm"

	types "github.com/yungbote/taiyaki-backend/internal/domain"
	"github.com/yungbote/taiyaki-backend/internal/platform/dbctx"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

type EventRepo interface {
	Create(dbc dbctx.Context, events []*types.AnalyticsEvent) ([]*types.AnalyticsEvent, error)
	ListBySession(dbc dbctx.Context, sessionID string) ([]*types.AnalyticsEvent, error)
	Count(dbc dbctx.Context) (int64, error)
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return &eventRepo{
		db:  db,
		log: baseLog.With("repo", "AnalyticsEventRepo"),
	}
}

func (r *eventRepo) Create(dbc dbctx.Context, events []*types.AnalyticsEvent) ([]*types.AnalyticsEvent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(events) == 0 {
		return []*types.AnalyticsEvent{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepo) ListBySession(dbc dbctx.Context, sessionID string) ([]*types.AnalyticsEvent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.AnalyticsEvent
	if sessionID == "" {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("session_id = ?", sessionID).
		Order("occurred_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *eventRepo) Count(dbc dbctx.Context) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(dbc.Ctx).Model(&types.AnalyticsEvent{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
