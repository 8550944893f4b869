package services

import (
	"context"
	"strings"
	"testing"

	"github.com/yungbote/taiyaki-backend/internal/catalog"
	types "github.com/yungbote/taiyaki-backend/internal/domain"
	"github.com/yungbote/taiyaki-backend/internal/platform/apierr"
	"github.com/yungbote/taiyaki-backend/internal/platform/dbctx"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
	"github.com/yungbote/taiyaki-backend/internal/platform/openai"
	"github.com/yungbote/taiyaki-backend/internal/prompt"
)

func TestRenderVariantsTagsResultsByVariant(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	d, err := h.intake.Intake(ctx, intakeInput(t))
	if err != nil {
		t.Fatalf("Intake: %v", err)
	}

	res, err := h.render.RenderVariants(ctx, DesignRef{DesignID: d.DesignID.String()})
	if err != nil {
		t.Fatalf("RenderVariants: %v", err)
	}
	if len(res.Variants) != 2 {
		t.Fatalf("variants=%+v", res.Variants)
	}
	for _, v := range res.Variants {
		wantSuffix := "-" + string(v.Variant) + ".png"
		if !strings.HasSuffix(v.RenderURL, wantSuffix) {
			t.Fatalf("variant %s stored at %q", v.Variant, v.RenderURL)
		}
		wantDirection := map[types.DesignVariant]string{
			types.VariantClassic:    "Classic Elegant",
			types.VariantSculptural: "Modern Sculptural",
		}[v.Variant]
		if !strings.Contains(v.Prompt, wantDirection) {
			t.Fatalf("variant %s prompt missing %q", v.Variant, wantDirection)
		}
	}

	fresh, err := h.queries.Get(ctx, RecordRef(d))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fresh.Status != types.DesignStatusPending {
		t.Fatalf("variants changed status to %s", fresh.Status)
	}

	its, err := h.iterations.ListByDesignID(dbctx.New(ctx), d.DesignID)
	if err != nil {
		t.Fatalf("ListByDesignID: %v", err)
	}
	if len(its) != 2 || its[0].IterationNumber != 1 || its[1].IterationNumber != 2 {
		t.Fatalf("iterations=%+v", its)
	}
}

func TestRenderVariantsFailsWhenEitherCallFails(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	d, err := h.intake.Intake(ctx, intakeInput(t))
	if err != nil {
		t.Fatalf("Intake: %v", err)
	}
	h.gen.err = &openai.HTTPError{StatusCode: 429, Body: "rate limited"}

	_, err = h.render.RenderVariants(ctx, RecordRef(d))
	if !apierr.Is(err, apierr.KindUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	ae := apierr.From(err)
	if ae.Details != "rate limited" || !strings.Contains(ae.Error(), "429") {
		t.Fatalf("error=%q details=%q", ae.Error(), ae.Details)
	}
}

func TestRenderUnknownDesign(t *testing.T) {
	h := newHarness(t)
	_, err := h.render.Render(context.Background(), DesignRef{DesignID: "00000000-0000-0000-0000-000000000001"})
	if !apierr.Is(err, apierr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	_, err = h.render.Render(context.Background(), DesignRef{})
	if !apierr.Is(err, apierr.KindValidation) {
		t.Fatalf("expected validation, got %v", err)
	}
	_, err = h.render.Render(context.Background(), DesignRef{RecordID: "nope"})
	if !apierr.Is(err, apierr.KindValidation) {
		t.Fatalf("expected validation for bad id, got %v", err)
	}
}

func TestGenerateImageReturnsDataURL(t *testing.T) {
	h := newHarness(t)
	h.gen.img = []byte("abc")
	out, err := h.render.GenerateImage(context.Background(), "a charm", "")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if out != "data:image/png;base64,YWJj" {
		t.Fatalf("out=%q", out)
	}
	if _, err := h.render.GenerateImage(context.Background(), "  ", ""); !apierr.Is(err, apierr.KindValidation) {
		t.Fatalf("expected validation for empty prompt, got %v", err)
	}
	if _, err := h.render.GenerateImage(context.Background(), "x", pngDataURL(t)); err != nil {
		t.Fatalf("GenerateImage with photo: %v", err)
	}
	if h.gen.refs != 1 {
		t.Fatalf("reference not forwarded")
	}
}

func TestRenderStorageFailureIsUpstream(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	created, err := h.intake.Intake(ctx, intakeInput(t))
	if err != nil {
		t.Fatalf("Intake: %v", err)
	}
	svc := NewRenderService(logger.Nop(), h.gen, &unavailableStore{}, prompt.NewBuilder(catalog.MustDefault()), h.designs, h.iterations, nil)

	_, err = svc.Render(ctx, RecordRef(created))
	if !apierr.Is(err, apierr.KindUpstream) || !strings.Contains(err.Error(), "Storage request failed") {
		t.Fatalf("Render: %v", err)
	}
	_, err = svc.RenderVariants(ctx, RecordRef(created))
	if !apierr.Is(err, apierr.KindUpstream) || !strings.Contains(err.Error(), "Storage request failed") {
		t.Fatalf("RenderVariants: %v", err)
	}
	d, err := h.queries.Get(ctx, RecordRef(created))
	if err != nil || d.Status != types.DesignStatusPending {
		t.Fatalf("record advanced without a stored render: %v %v", d, err)
	}
}
