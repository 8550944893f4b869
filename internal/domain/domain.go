package domain

import (
	"github.com/yungbote/taiyaki-backend/internal/domain/analytics"
	"github.com/yungbote/taiyaki-backend/internal/domain/charm"
)

type (
	Design          = charm.Design
	DesignIteration = charm.Iteration
	DesignStatus    = charm.Status
	DesignVariant   = charm.Variant
	QuizResponses   = charm.QuizResponses
	AnalyticsEvent  = analytics.Event
)

const (
	DesignStatusPending   = charm.StatusPending
	DesignStatusRendered  = charm.StatusRendered
	DesignStatusReady     = charm.StatusReady
	DesignStatusCompleted = charm.StatusCompleted
	DesignStatusError     = charm.StatusError

	VariantPrimary    = charm.VariantPrimary
	VariantClassic    = charm.VariantClassic
	VariantSculptural = charm.VariantSculptural
)

// Models lists every table managed by migrations.
func Models() []any {
	return []any{
		&charm.Design{},
		&charm.Iteration{},
		&analytics.Event{},
	}
}

func CanTransition(from, to DesignStatus) bool { return charm.CanTransition(from, to) }
