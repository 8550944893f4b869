package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/yungbote/taiyaki-backend/internal/platform/envutil"
	"github.com/yungbote/taiyaki-backend/internal/platform/httpx"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:  envutil.String("GEMINI_API_KEY", ""),
		Model:   envutil.String("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		BaseURL: envutil.String("GEMINI_BASE_URL", ""),
		Timeout: envutil.Duration("GEMINI_TIMEOUT_SECONDS", 180*time.Second),
	}
}

type Reference struct {
	Bytes    []byte
	MimeType string
}

type Image struct {
	Bytes    []byte
	MimeType string
	Text     string
}

type Client struct {
	log    *logger.Logger
	client *genai.Client
	model  string
}

func New(ctx context.Context, log *logger.Logger, cfg Config) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash-image"
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Client{
		log:    log.With("service", "GeminiClient", "model", cfg.Model),
		client: gc,
		model:  cfg.Model,
	}, nil
}

// HTTPError adapts genai API failures to httpx.HTTPStatusCoder.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("gemini http %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatusCode() int { return e.StatusCode }
func (e *HTTPError) HTTPBody() string    { return e.Body }

var _ httpx.HTTPStatusCoder = (*HTTPError)(nil)

// GenerateImage asks the image model for one image, optionally conditioned
// on a reference photo. Single attempt.
func (c *Client) GenerateImage(ctx context.Context, prompt string, ref *Reference) (Image, error) {
	var out Image
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return out, errors.New("image prompt required")
	}

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if ref != nil && len(ref.Bytes) > 0 {
		mime := ref.MimeType
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, genai.NewPartFromBytes(ref.Bytes, mime))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return out, &HTTPError{StatusCode: apiErr.Code, Body: apiErr.Message}
		}
		return out, err
	}
	c.log.Debug("Gemini image generated", "duration_ms", time.Since(start).Milliseconds())

	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if p == nil {
				continue
			}
			if p.Text != "" {
				out.Text += p.Text
			}
			if p.InlineData != nil && len(p.InlineData.Data) > 0 && out.Bytes == nil {
				out.Bytes = p.InlineData.Data
				out.MimeType = p.InlineData.MIMEType
			}
		}
	}
	if len(out.Bytes) == 0 {
		return out, errors.New("gemini returned no image data")
	}
	if out.MimeType == "" {
		out.MimeType = "image/png"
	}
	return out, nil
}
