package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/taiyaki-backend/internal/data/repos"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

type Repos struct {
	Design          repos.DesignRepo
	DesignIteration repos.DesignIterationRepo
	AnalyticsEvent  repos.AnalyticsEventRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Design:          repos.NewDesignRepo(db, log),
		DesignIteration: repos.NewDesignIterationRepo(db, log),
		AnalyticsEvent:  repos.NewAnalyticsEventRepo(db, log),
	}
}
