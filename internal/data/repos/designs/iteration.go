package designs

import (
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/taiyaki-backend/internal/domain"
	"github.com/yungbote/taiyaki-backend/internal/platform/dbctx"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

type IterationRepo interface {
	Create(dbc dbctx.Context, its []*types.DesignIteration) ([]*types.DesignIteration, error)
	NextNumber(dbc dbctx.Context, designID uuid.UUID) (int, error)
	ListByDesignID(dbc dbctx.Context, designID uuid.UUID) ([]*types.DesignIteration, error)
}

type iterationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIterationRepo(db *gorm.DB, baseLog *logger.Logger) IterationRepo {
	return &iterationRepo{
		db:  db,
		log: baseLog.With("repo", "DesignIterationRepo"),
	}
}

func (r *iterationRepo) Create(dbc dbctx.Context, its []*types.DesignIteration) ([]*types.DesignIteration, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(its) == 0 {
		return []*types.DesignIteration{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&its).Error; err != nil {
		return nil, err
	}
	return its, nil
}

func (r *iterationRepo) NextNumber(dbc dbctx.Context, designID uuid.UUID) (int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var max sql.NullInt64
	err := transaction.WithContext(dbc.Ctx).
		Model(&types.DesignIteration{}).
		Where("design_id = ?", designID).
		Select("MAX(iteration_number)").
		Row().
		Scan(&max)
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 1, nil
	}
	return int(max.Int64) + 1, nil
}

func (r *iterationRepo) ListByDesignID(dbc dbctx.Context, designID uuid.UUID) ([]*types.DesignIteration, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.DesignIteration
	if designID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("design_id = ?", designID).
		Order("iteration_number ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
