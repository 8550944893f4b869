package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/taiyaki-backend/internal/data/repos"
	types "github.com/yungbote/taiyaki-backend/internal/domain"
	"github.com/yungbote/taiyaki-backend/internal/platform/apierr"
	"github.com/yungbote/taiyaki-backend/internal/platform/dbctx"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

type IntakeInput struct {
	Photo       string
	Email       string
	SubjectName string
	Responses   types.QuizResponses
	SessionID   string
}

type IntakeService interface {
	// Intake stores the photo and creates the design record in pending.
	Intake(ctx context.Context, in IntakeInput) (*types.Design, error)
}

type intakeService struct {
	log        *logger.Logger
	store      ObjectStore
	designRepo repos.DesignRepo
	status     StatusPublisher
	now        func() time.Time
}

func NewIntakeService(log *logger.Logger, store ObjectStore, designRepo repos.DesignRepo, status StatusPublisher) IntakeService {
	return &intakeService{
		log:        log.With("service", "IntakeService"),
		store:      store,
		designRepo: designRepo,
		status:     status,
		now:        time.Now,
	}
}

func (s *intakeService) Intake(ctx context.Context, in IntakeInput) (*types.Design, error) {
	email := strings.TrimSpace(in.Email)
	subject := strings.TrimSpace(in.SubjectName)
	if email == "" || !ValidEmail(email) {
		return nil, apierr.Validation("a valid email is required")
	}
	if subject == "" {
		return nil, apierr.Validation("subject_name is required")
	}
	photo, err := decodePhoto(in.Photo)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("uploads/%s/%d.%s", email, s.now().UnixMilli(), photo.Ext)
	url, err := s.store.Put(ctx, key, photo.Data, photo.ContentType)
	if err != nil {
		s.log.Error("photo upload failed", "key", key, "error", err)
		return nil, upstream(storageVendor, fmt.Errorf("store photo: %w", err))
	}

	d := &types.Design{
		ID:          uuid.New(),
		DesignID:    uuid.New(),
		SessionID:   strings.TrimSpace(in.SessionID),
		Email:       email,
		SubjectName: subject,
		PhotoURL:    url,
		PhotoKey:    key,
		Responses:   datatypes.NewJSONType(in.Responses.Normalize()),
		Status:      types.DesignStatusPending,
	}
	created, err := s.designRepo.Create(dbctx.New(ctx), d)
	if err != nil {
		s.log.Error("create design failed", "design_id", d.DesignID, "error", err)
		if derr := s.store.Delete(context.WithoutCancel(ctx), key); derr != nil {
			s.log.Warn("orphaned photo cleanup failed", "key", key, "error", derr)
		}
		return nil, apierr.Internal(fmt.Errorf("create design: %w", err))
	}

	s.log.Info("design created", "design_id", created.DesignID, "record_id", created.ID, "photo_key", key)
	publishStatus(ctx, s.status, s.log, created, "")
	return created, nil
}
