package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/taiyaki-backend/internal/platform/ctxutil"
	"github.com/yungbote/taiyaki-backend/internal/platform/envutil"
	"github.com/yungbote/taiyaki-backend/internal/platform/httpx"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

// ImageInput is a reference image: https://... or data:image/...;base64,...
type ImageInput struct {
	ImageURL string
}

type ImageGeneration struct {
	Bytes         []byte
	MimeType      string
	RevisedPrompt string
}

type ImageRequest struct {
	Prompt    string
	Reference *ImageInput
}

type Config struct {
	APIKey         string
	BaseURL        string
	ImageModel     string
	ResponsesModel string
	ImageSize      string
	ImageQuality   string
	Timeout        time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:         envutil.String("OPENAI_API_KEY", ""),
		BaseURL:        envutil.String("OPENAI_BASE_URL", "https://api.openai.com"),
		ImageModel:     envutil.String("OPENAI_IMAGE_MODEL", "gpt-image-1"),
		ResponsesModel: envutil.String("OPENAI_MODEL", "gpt-4.1-mini"),
		ImageSize:      envutil.String("OPENAI_IMAGE_SIZE", "1024x1024"),
		ImageQuality:   envutil.String("OPENAI_IMAGE_QUALITY", "high"),
		Timeout:        envutil.Duration("OPENAI_TIMEOUT_SECONDS", 180*time.Second),
	}
}

type Client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

func New(log *logger.Logger, cfg Config) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = "gpt-image-1"
	}
	if cfg.ResponsesModel == "" {
		cfg.ResponsesModel = "gpt-4.1-mini"
	}
	if cfg.ImageSize == "" {
		cfg.ImageSize = "1024x1024"
	}
	if cfg.ImageQuality == "" {
		cfg.ImageQuality = "high"
	}
	return &Client{
		log:        log.With("service", "OpenAIClient"),
		cfg:        cfg,
		httpClient: httpx.NewClient(cfg.Timeout),
	}, nil
}

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (e *HTTPError) HTTPBody() string {
	if e == nil {
		return ""
	}
	return e.Body
}

func (c *Client) doOnce(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if td := ctxutil.GetTraceData(ctx); td != nil && td.RequestID != "" {
		req.Header.Set("X-Client-Request-Id", td.RequestID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("OpenAI request failed", "path", path, "error", err.Error())
		return err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}
	c.log.Debug("OpenAI request", "path", path, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if !httpx.IsSuccess(resp.StatusCode) {
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("openai decode error: %w", err)
	}
	return nil
}

// -------------------- Images API --------------------

type imagesGenerationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n,omitempty"`
	Size           string `json:"size,omitempty"`
	Quality        string `json:"quality,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"` // b64_json|url
}

type imagesGenerationResponse struct {
	Data []struct {
		B64JSON       string `json:"b64_json"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
}

// GenerateImage renders a single image. With a reference image it goes
// through the Responses API image_generation tool; otherwise the Images API.
func (c *Client) GenerateImage(ctx context.Context, in ImageRequest) (ImageGeneration, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return ImageGeneration{}, errors.New("image prompt required")
	}
	if in.Reference != nil && strings.TrimSpace(in.Reference.ImageURL) != "" {
		return c.generateWithReference(ctx, prompt, strings.TrimSpace(in.Reference.ImageURL))
	}
	return c.generateFromText(ctx, prompt)
}

func (c *Client) generateFromText(ctx context.Context, prompt string) (ImageGeneration, error) {
	var out ImageGeneration
	req := imagesGenerationRequest{
		Model:   c.cfg.ImageModel,
		Prompt:  prompt,
		N:       1,
		Size:    c.cfg.ImageSize,
		Quality: c.cfg.ImageQuality,
	}
	// dall-e models only return base64 when asked and call high quality "hd".
	if strings.HasPrefix(strings.ToLower(c.cfg.ImageModel), "dall-e") {
		req.ResponseFormat = "b64_json"
		if req.Quality == "high" {
			req.Quality = "hd"
		}
	}

	var resp imagesGenerationResponse
	if err := c.doOnce(ctx, http.MethodPost, "/v1/images/generations", req, &resp); err != nil {
		return out, err
	}
	if len(resp.Data) == 0 {
		return out, errors.New("no image returned")
	}
	item := resp.Data[0]
	raw, err := decodeB64(item.B64JSON)
	if err != nil {
		return out, err
	}
	out.Bytes = raw
	out.MimeType = "image/png"
	out.RevisedPrompt = strings.TrimSpace(item.RevisedPrompt)
	return out, nil
}

// -------------------- Responses API (image_generation tool) --------------------

type responsesRequest struct {
	Model string           `json:"model"`
	Input []responsesInput `json:"input"`
	Tools []map[string]any `json:"tools"`
}

type responsesInput struct {
	Role    string           `json:"role"`
	Content []map[string]any `json:"content"`
}

type responsesResponse struct {
	Output []struct {
		Type          string `json:"type"`
		Result        string `json:"result,omitempty"`
		RevisedPrompt string `json:"revised_prompt,omitempty"`
	} `json:"output"`
}

func (c *Client) generateWithReference(ctx context.Context, prompt, imageURL string) (ImageGeneration, error) {
	var out ImageGeneration
	req := responsesRequest{
		Model: c.cfg.ResponsesModel,
		Input: []responsesInput{{
			Role: "user",
			Content: []map[string]any{
				{"type": "input_text", "text": prompt},
				{"type": "input_image", "image_url": imageURL},
			},
		}},
		Tools: []map[string]any{{
			"type":       "image_generation",
			"quality":    c.cfg.ImageQuality,
			"size":       c.cfg.ImageSize,
			"background": "opaque",
		}},
	}

	var resp responsesResponse
	if err := c.doOnce(ctx, http.MethodPost, "/v1/responses", req, &resp); err != nil {
		return out, err
	}
	for _, item := range resp.Output {
		if item.Type != "image_generation_call" || strings.TrimSpace(item.Result) == "" {
			continue
		}
		raw, err := decodeB64(item.Result)
		if err != nil {
			return out, err
		}
		out.Bytes = raw
		out.MimeType = "image/png"
		out.RevisedPrompt = strings.TrimSpace(item.RevisedPrompt)
		return out, nil
	}
	return out, errors.New("no image_generation_call output returned")
}

func decodeB64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("image response missing b64_json")
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode image base64: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("decoded image is empty")
	}
	return raw, nil
}
