package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/taiyaki-backend/internal/data/repos"
	types "github.com/yungbote/taiyaki-backend/internal/domain"
	"github.com/yungbote/taiyaki-backend/internal/platform/apierr"
	"github.com/yungbote/taiyaki-backend/internal/platform/dbctx"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
	"github.com/yungbote/taiyaki-backend/internal/prompt"
)

type VariantRender struct {
	Variant   types.DesignVariant `json:"variant"`
	RenderURL string              `json:"render_url"`
	Prompt    string              `json:"-"`
}

type VariantsResult struct {
	Design   *types.Design
	Variants []VariantRender
}

type RenderService interface {
	// Render generates the primary render and moves the design to rendered.
	Render(ctx context.Context, ref DesignRef) (*types.Design, error)
	// RenderVariants generates the classic and sculptural alternatives
	// concurrently. The record status is left untouched.
	RenderVariants(ctx context.Context, ref DesignRef) (*VariantsResult, error)
	// GenerateImage renders prompt directly and returns a data URL.
	GenerateImage(ctx context.Context, prompt, photo string) (string, error)
}

type renderService struct {
	log           *logger.Logger
	generator     ImageGenerator
	store         ObjectStore
	prompts       *prompt.Builder
	designRepo    repos.DesignRepo
	iterationRepo repos.DesignIterationRepo
	status        StatusPublisher
}

func NewRenderService(
	log *logger.Logger,
	generator ImageGenerator,
	store ObjectStore,
	prompts *prompt.Builder,
	designRepo repos.DesignRepo,
	iterationRepo repos.DesignIterationRepo,
	status StatusPublisher,
) RenderService {
	return &renderService{
		log:           log.With("service", "RenderService"),
		generator:     generator,
		store:         store,
		prompts:       prompts,
		designRepo:    designRepo,
		iterationRepo: iterationRepo,
		status:        status,
	}
}

func (s *renderService) Render(ctx context.Context, ref DesignRef) (*types.Design, error) {
	d, err := loadDesign(ctx, s.designRepo, ref)
	if err != nil {
		return nil, err
	}
	if err := requireStatusFor(d, types.DesignStatusRendered); err != nil {
		return nil, err
	}

	reference, mimeType := s.referencePhoto(ctx, d)
	text := s.prompts.Build(s.promptInput(d, reference != nil))

	start := time.Now()
	img, err := s.generator.Generate(ctx, ImageRequest{Prompt: text, Reference: reference, ReferenceMimeType: mimeType})
	if err != nil {
		s.log.Error("render generation failed", "design_id", d.DesignID, "vendor", s.generator.Vendor(), "error", err)
		return nil, upstream(s.generator.Vendor(), err)
	}
	elapsed := time.Since(start)

	key := fmt.Sprintf("renders/%s/%s.png", d.Email, d.DesignID)
	url, err := s.store.Put(ctx, key, img.Bytes, contentTypeOr(img.MimeType, "image/png"))
	if err != nil {
		return nil, upstream(storageVendor, fmt.Errorf("store render: %w", err))
	}

	now := time.Now().UTC()
	updated, err := transition(ctx, s.designRepo, d, types.DesignStatusRendered, map[string]interface{}{
		"render_url":  url,
		"render_key":  key,
		"ai_prompt":   text,
		"rendered_at": now,
	})
	if err != nil {
		return nil, err
	}

	s.recordIterations(ctx, d, []VariantRender{{Variant: types.VariantPrimary, RenderURL: url, Prompt: text}}, elapsed)
	s.log.Info("design rendered", "design_id", d.DesignID, "duration_ms", elapsed.Milliseconds())
	publishStatus(ctx, s.status, s.log, updated, "")
	return updated, nil
}

func (s *renderService) RenderVariants(ctx context.Context, ref DesignRef) (*VariantsResult, error) {
	d, err := loadDesign(ctx, s.designRepo, ref)
	if err != nil {
		return nil, err
	}
	if d.Status == types.DesignStatusError {
		return nil, apierr.State(string(d.Status), "any status except error")
	}

	reference, mimeType := s.referencePhoto(ctx, d)
	in := s.promptInput(d, reference != nil)
	variants := []types.DesignVariant{types.VariantClassic, types.VariantSculptural}
	results := make([]VariantRender, len(variants))

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for i, v := range variants {
		g.Go(func() error {
			text := s.prompts.BuildVariant(in, v)
			img, err := s.generator.Generate(gctx, ImageRequest{Prompt: text, Reference: reference, ReferenceMimeType: mimeType})
			if err != nil {
				return fmt.Errorf("%s variant: %w", v, err)
			}
			key := fmt.Sprintf("renders/%s/%s-%s.png", d.Email, d.DesignID, v)
			url, err := s.store.Put(gctx, key, img.Bytes, contentTypeOr(img.MimeType, "image/png"))
			if err != nil {
				return upstream(storageVendor, fmt.Errorf("store %s variant: %w", v, err))
			}
			results[i] = VariantRender{Variant: v, RenderURL: url, Prompt: text}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error("variant generation failed", "design_id", d.DesignID, "error", err)
		return nil, upstream(s.generator.Vendor(), err)
	}
	elapsed := time.Since(start)

	s.recordIterations(ctx, d, results, elapsed)
	return &VariantsResult{Design: d, Variants: results}, nil
}

func (s *renderService) GenerateImage(ctx context.Context, text, photo string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apierr.Validation("prompt is required")
	}
	req := ImageRequest{Prompt: text}
	if strings.TrimSpace(photo) != "" {
		p, err := decodePhoto(photo)
		if err != nil {
			return "", err
		}
		req.Reference = p.Data
		req.ReferenceMimeType = p.ContentType
	}
	img, err := s.generator.Generate(ctx, req)
	if err != nil {
		return "", upstream(s.generator.Vendor(), err)
	}
	return dataURL(img.MimeType, img.Bytes), nil
}

func (s *renderService) promptInput(d *types.Design, hasPhoto bool) prompt.Input {
	return prompt.Input{SubjectName: d.SubjectName, HasPhoto: hasPhoto, Responses: d.Quiz()}
}

// referencePhoto loads the uploaded photo. A missing photo degrades to a
// text-only render.
func (s *renderService) referencePhoto(ctx context.Context, d *types.Design) ([]byte, string) {
	if strings.TrimSpace(d.PhotoKey) == "" {
		return nil, ""
	}
	data, err := s.store.Get(ctx, d.PhotoKey)
	if err != nil || len(data) == 0 {
		s.log.Warn("reference photo unavailable", "design_id", d.DesignID, "photo_key", d.PhotoKey, "error", errString(err))
		return nil, ""
	}
	return data, contentTypeForExt(d.PhotoKey)
}

func (s *renderService) recordIterations(ctx context.Context, d *types.Design, renders []VariantRender, elapsed time.Duration) {
	dbc := dbctx.New(ctx)
	next, err := s.iterationRepo.NextNumber(dbc, d.DesignID)
	if err != nil {
		s.log.Warn("iteration number lookup failed", "design_id", d.DesignID, "error", err)
		return
	}
	rows := make([]*types.DesignIteration, 0, len(renders))
	for i, r := range renders {
		rows = append(rows, &types.DesignIteration{
			DesignID:         d.DesignID,
			IterationNumber:  next + i,
			Variant:          r.Variant,
			PromptUsed:       r.Prompt,
			RenderURL:        r.RenderURL,
			GenerationTimeMS: elapsed.Milliseconds(),
		})
	}
	if _, err := s.iterationRepo.Create(dbc, rows); err != nil {
		s.log.Warn("iteration insert failed", "design_id", d.DesignID, "error", err)
	}
}

func contentTypeOr(ct, def string) string {
	if strings.TrimSpace(ct) == "" {
		return def
	}
	return ct
}

func contentTypeForExt(key string) string {
	switch {
	case strings.HasSuffix(key, ".png"):
		return "image/png"
	case strings.HasSuffix(key, ".gif"):
		return "image/gif"
	case strings.HasSuffix(key, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return err.Error()
}
