package designs

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/taiyaki-backend/internal/domain"
	"github.com/yungbote/taiyaki-backend/internal/platform/dbctx"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

type DesignRepo interface {
	Create(dbc dbctx.Context, d *types.Design) (*types.Design, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Design, error)
	GetByDesignID(dbc dbctx.Context, designID uuid.UUID) (*types.Design, error)
	ListByEmail(dbc dbctx.Context, email string, limit int) ([]*types.Design, error)
	// TransitionStatus applies updates only while the record still holds from.
	TransitionStatus(dbc dbctx.Context, id uuid.UUID, from, to types.DesignStatus, updates map[string]interface{}) (bool, error)
	MarkError(dbc dbctx.Context, id uuid.UUID, message string) (bool, error)
}

type designRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDesignRepo(db *gorm.DB, baseLog *logger.Logger) DesignRepo {
	return &designRepo{
		db:  db,
		log: baseLog.With("repo", "DesignRepo"),
	}
}

func (r *designRepo) Create(dbc dbctx.Context, d *types.Design) (*types.Design, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if d == nil {
		return nil, errors.New("nil design")
	}
	if err := transaction.WithContext(dbc.Ctx).Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

func (r *designRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Design, error) {
	return r.getOne(dbc, "id = ?", id)
}

func (r *designRepo) GetByDesignID(dbc dbctx.Context, designID uuid.UUID) (*types.Design, error) {
	return r.getOne(dbc, "design_id = ?", designID)
}

func (r *designRepo) getOne(dbc dbctx.Context, where string, id uuid.UUID) (*types.Design, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Design
	err := transaction.WithContext(dbc.Ctx).
		Where(where, id).
		Limit(1).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *designRepo) ListByEmail(dbc dbctx.Context, email string, limit int) ([]*types.Design, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Design
	if email == "" {
		return out, nil
	}
	q := transaction.WithContext(dbc.Ctx).
		Where("email = ?", email).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *designRepo) TransitionStatus(dbc dbctx.Context, id uuid.UUID, from, to types.DesignStatus, updates map[string]interface{}) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return false, nil
	}
	fields := make(map[string]interface{}, len(updates)+2)
	for k, v := range updates {
		fields[k] = v
	}
	fields["status"] = string(to)
	fields["updated_at"] = time.Now().UTC()

	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Design{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		r.log.Debug("status transition skipped", "design_record_id", id, "from", from, "to", to)
	}
	return res.RowsAffected > 0, nil
}

func (r *designRepo) MarkError(dbc dbctx.Context, id uuid.UUID, message string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return false, nil
	}
	now := time.Now().UTC()
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Design{}).
		Where("id = ? AND status NOT IN ?", id, []string{
			string(types.DesignStatusCompleted),
			string(types.DesignStatusError),
		}).
		Updates(map[string]interface{}{
			"failed_from_status": gorm.Expr("status"),
			"status":             string(types.DesignStatusError),
			"error_message":      message,
			"error_at":           now,
			"updated_at":         now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
