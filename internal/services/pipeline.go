package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/taiyaki-backend/internal/data/repos"
	types "github.com/yungbote/taiyaki-backend/internal/domain"
	"github.com/yungbote/taiyaki-backend/internal/observability"
	"github.com/yungbote/taiyaki-backend/internal/platform/ctxutil"
	"github.com/yungbote/taiyaki-backend/internal/platform/dbctx"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

const errorWriteBackTimeout = 10 * time.Second

type FulfillmentResult struct {
	SessionID string
	Design    *types.Design
}

// FulfillmentError carries whatever identifiers the run had allocated when
// a step failed.
type FulfillmentError struct {
	Step      string
	Err       error
	DesignID  string
	RecordID  string
	SessionID string
}

func (e *FulfillmentError) Error() string { return e.Step + ": " + e.Err.Error() }
func (e *FulfillmentError) Unwrap() error { return e.Err }

type FulfillmentService interface {
	// Run executes intake, render, product and email in order, stopping at
	// the first failure.
	Run(ctx context.Context, in IntakeInput) (*FulfillmentResult, error)
}

type fulfillmentService struct {
	log        *logger.Logger
	intake     IntakeService
	render     RenderService
	product    ProductService
	notifier   NotifierService
	designRepo repos.DesignRepo
	status     StatusPublisher
}

func NewFulfillmentService(
	log *logger.Logger,
	intake IntakeService,
	render RenderService,
	product ProductService,
	notifier NotifierService,
	designRepo repos.DesignRepo,
	status StatusPublisher,
) FulfillmentService {
	return &fulfillmentService{
		log:        log.With("service", "FulfillmentService"),
		intake:     intake,
		render:     render,
		product:    product,
		notifier:   notifier,
		designRepo: designRepo,
		status:     status,
	}
}

func (s *fulfillmentService) Run(ctx context.Context, in IntakeInput) (*FulfillmentResult, error) {
	sessionID := uuid.NewString()
	in.SessionID = sessionID
	ctx = ctxutil.WithSessionID(ctx, sessionID)
	log := s.log.With("session_id", sessionID)

	ctx, span := observability.StartSpan(ctx, "fulfillment.run", attribute.String("session_id", sessionID))
	defer span.End()

	log.Info("fulfillment started")
	d, err := s.intake.Intake(ctx, in)
	if err != nil {
		log.Warn("fulfillment failed", "step", "intake", "error", err)
		span.SetStatus(codes.Error, "intake")
		return nil, &FulfillmentError{Step: "intake", Err: err, SessionID: sessionID}
	}
	span.SetAttributes(attribute.String("design_id", d.DesignID.String()))

	steps := []struct {
		name string
		run  func(context.Context, DesignRef) (*types.Design, error)
	}{
		{"render", s.render.Render},
		{"product", s.product.CreateProduct},
		{"email", s.notifier.SendReadyEmail},
	}
	for _, step := range steps {
		stepCtx, stepSpan := observability.StartSpan(ctx, "fulfillment."+step.name)
		next, err := step.run(stepCtx, RecordRef(d))
		if err != nil {
			stepSpan.RecordError(err)
			stepSpan.SetStatus(codes.Error, step.name)
			stepSpan.End()
			span.SetStatus(codes.Error, step.name)
			log.Warn("fulfillment failed", "step", step.name, "design_id", d.DesignID, "error", err)
			s.markError(ctx, log, d, err)
			return nil, &FulfillmentError{
				Step:      step.name,
				Err:       err,
				DesignID:  d.DesignID.String(),
				RecordID:  d.ID.String(),
				SessionID: sessionID,
			}
		}
		stepSpan.End()
		d = next
	}

	log.Info("fulfillment completed", "design_id", d.DesignID)
	return &FulfillmentResult{SessionID: sessionID, Design: d}, nil
}

// markError records the failure on the design. Its own errors are logged only.
func (s *fulfillmentService) markError(ctx context.Context, log *logger.Logger, d *types.Design, cause error) {
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), errorWriteBackTimeout)
	defer cancel()

	dbc := dbctx.New(wctx)
	ok, err := s.designRepo.MarkError(dbc, d.ID, cause.Error())
	if err != nil {
		log.Error("error write-back failed", "design_id", d.DesignID, "error", err)
		return
	}
	if !ok {
		log.Warn("error write-back skipped", "design_id", d.DesignID)
		return
	}
	failed, err := s.designRepo.GetByID(dbc, d.ID)
	if err != nil || failed == nil {
		return
	}
	publishStatus(wctx, s.status, log, failed, cause.Error())
}

// AsFulfillmentError unwraps err into a *FulfillmentError when possible.
func AsFulfillmentError(err error) (*FulfillmentError, bool) {
	var fe *FulfillmentError
	if errors.As(err, &fe) && fe != nil {
		return fe, true
	}
	return nil, false
}
