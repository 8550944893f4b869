package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yungbote/taiyaki-backend/internal/platform/apierr"
	"github.com/yungbote/taiyaki-backend/internal/platform/gemini"
	"github.com/yungbote/taiyaki-backend/internal/platform/httpx"
	"github.com/yungbote/taiyaki-backend/internal/platform/openai"
	"github.com/yungbote/taiyaki-backend/internal/platform/sendgrid"
	"github.com/yungbote/taiyaki-backend/internal/platform/shopify"
	"github.com/yungbote/taiyaki-backend/internal/realtime"
)

// ObjectStore is satisfied by gcp.Bucket and localstore.Store.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type ImageRequest struct {
	Prompt            string
	Reference         []byte
	ReferenceMimeType string
}

type GeneratedImage struct {
	Bytes    []byte
	MimeType string
}

type ImageGenerator interface {
	// Vendor names the backing service in upstream error messages.
	Vendor() string
	Generate(ctx context.Context, req ImageRequest) (*GeneratedImage, error)
}

type ProductPublisher interface {
	CreateProduct(ctx context.Context, p shopify.Product) (*shopify.CreatedProduct, error)
	StoreDomain() string
}

type Mailer interface {
	Send(ctx context.Context, req sendgrid.SendEmailRequest) (*sendgrid.SendEmailResult, error)
}

type StatusPublisher interface {
	Publish(ctx context.Context, ev realtime.StatusEvent) error
}

// --- image generator adapters ---

type openAIGenerator struct {
	client *openai.Client
}

func NewOpenAIImageGenerator(client *openai.Client) ImageGenerator {
	return &openAIGenerator{client: client}
}

func (g *openAIGenerator) Vendor() string { return "OpenAI" }

func (g *openAIGenerator) Generate(ctx context.Context, req ImageRequest) (*GeneratedImage, error) {
	in := openai.ImageRequest{Prompt: req.Prompt}
	if len(req.Reference) > 0 {
		in.Reference = &openai.ImageInput{ImageURL: dataURL(req.ReferenceMimeType, req.Reference)}
	}
	out, err := g.client.GenerateImage(ctx, in)
	if err != nil {
		return nil, err
	}
	return &GeneratedImage{Bytes: out.Bytes, MimeType: out.MimeType}, nil
}

type geminiGenerator struct {
	client *gemini.Client
}

func NewGeminiImageGenerator(client *gemini.Client) ImageGenerator {
	return &geminiGenerator{client: client}
}

func (g *geminiGenerator) Vendor() string { return "Gemini" }

func (g *geminiGenerator) Generate(ctx context.Context, req ImageRequest) (*GeneratedImage, error) {
	var ref *gemini.Reference
	if len(req.Reference) > 0 {
		ref = &gemini.Reference{Bytes: req.Reference, MimeType: req.ReferenceMimeType}
	}
	out, err := g.client.GenerateImage(ctx, req.Prompt, ref)
	if err != nil {
		return nil, err
	}
	return &GeneratedImage{Bytes: out.Bytes, MimeType: out.MimeType}, nil
}

const storageVendor = "Storage"

// upstream classifies a vendor failure, keeping its status and body.
func upstream(vendor string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae
	}
	status, body := httpx.StatusAndBody(err)
	return apierr.Upstream(vendor, status, strings.TrimSpace(body), err)
}
