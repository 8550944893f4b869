package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/taiyaki-backend/internal/data/repos/analytics"
	"github.com/yungbote/taiyaki-backend/internal/data/repos/designs"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

type DesignRepo = designs.DesignRepo
type DesignIterationRepo = designs.IterationRepo
type AnalyticsEventRepo = analytics.EventRepo

func NewDesignRepo(db *gorm.DB, baseLog *logger.Logger) DesignRepo {
	return designs.NewDesignRepo(db, baseLog)
}

func NewDesignIterationRepo(db *gorm.DB, baseLog *logger.Logger) DesignIterationRepo {
	return designs.NewIterationRepo(db, baseLog)
}

func NewAnalyticsEventRepo(db *gorm.DB, baseLog *logger.Logger) AnalyticsEventRepo {
	return analytics.NewEventRepo(db, baseLog)
}
