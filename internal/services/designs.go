package services

import (
	"context"
	"strings"

	"github.com/yungbote/taiyaki-backend/internal/data/repos"
	types "github.com/yungbote/taiyaki-backend/internal/domain"
	"github.com/yungbote/taiyaki-backend/internal/platform/apierr"
	"github.com/yungbote/taiyaki-backend/internal/platform/dbctx"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

type DesignQueryService interface {
	ListByEmail(ctx context.Context, email string) ([]*types.Design, error)
	Get(ctx context.Context, ref DesignRef) (*types.Design, error)
}

type designQueryService struct {
	log        *logger.Logger
	designRepo repos.DesignRepo
}

func NewDesignQueryService(log *logger.Logger, designRepo repos.DesignRepo) DesignQueryService {
	return &designQueryService{
		log:        log.With("service", "DesignQueryService"),
		designRepo: designRepo,
	}
}

// ListByEmail returns every design for email, newest first. The address is
// checked before storage is touched.
func (s *designQueryService) ListByEmail(ctx context.Context, email string) ([]*types.Design, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apierr.Validation("email is required")
	}
	if !ValidEmail(email) {
		return nil, apierr.Validation("invalid email format")
	}
	out, err := s.designRepo.ListByEmail(dbctx.New(ctx), email, 0)
	if err != nil {
		s.log.Error("list designs failed", "email", email, "error", err)
		return nil, apierr.Internal(err)
	}
	if out == nil {
		out = []*types.Design{}
	}
	return out, nil
}

func (s *designQueryService) Get(ctx context.Context, ref DesignRef) (*types.Design, error) {
	return loadDesign(ctx, s.designRepo, ref)
}
