package shopify

import (
	"bytes"
	"context"
	"encoding/json"
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

type Config struct {
	// StoreDomain is the bare shop domain, e.g. "taiyaki.myshopify.com".
	StoreDomain string
	AccessToken string
	APIVersion  string
	// BaseURL overrides https://{StoreDomain}. Used against local fakes.
	BaseURL string
	Timeout time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		StoreDomain: envutil.String("SHOPIFY_STORE_URL", ""),
		AccessToken: envutil.String("SHOPIFY_ACCESS_TOKEN", ""),
		APIVersion:  envutil.String("SHOPIFY_API_VERSION", "2024-01"),
		BaseURL:     envutil.String("SHOPIFY_BASE_URL", ""),
		Timeout:     envutil.Duration("SHOPIFY_TIMEOUT_SECONDS", 30*time.Second),
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
	cfg.StoreDomain = NormalizeDomain(cfg.StoreDomain)
	if cfg.StoreDomain == "" {
		return nil, fmt.Errorf("missing SHOPIFY_STORE_URL")
	}
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, fmt.Errorf("missing SHOPIFY_ACCESS_TOKEN")
	}
	if strings.TrimSpace(cfg.APIVersion) == "" {
		cfg.APIVersion = "2024-01"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://" + cfg.StoreDomain
	}
	return &Client{
		log:        log.With("client", "ShopifyClient"),
		cfg:        cfg,
		httpClient: httpx.NewClient(cfg.Timeout),
	}, nil
}

// StoreDomain returns the shop domain used for storefront links.
func (c *Client) StoreDomain() string { return c.cfg.StoreDomain }

// NormalizeDomain strips scheme and trailing slashes from a store URL.
func NormalizeDomain(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	return strings.TrimRight(s, "/")
}

// --- Admin REST product types ---

type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

type Variant struct {
	ID                  int64  `json:"id,omitempty"`
	Price               string `json:"price"`
	SKU                 string `json:"sku"`
	InventoryManagement string `json:"inventory_management,omitempty"`
	InventoryQuantity   int    `json:"inventory_quantity"`
	Weight              int    `json:"weight"`
	WeightUnit          string `json:"weight_unit"`
}

type Metafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

type Product struct {
	ID          int64       `json:"id,omitempty"`
	Handle      string      `json:"handle,omitempty"`
	Title       string      `json:"title"`
	BodyHTML    string      `json:"body_html"`
	Vendor      string      `json:"vendor"`
	ProductType string      `json:"product_type"`
	Status      string      `json:"status"`
	Tags        string      `json:"tags"`
	Images      []Image     `json:"images,omitempty"`
	Variants    []Variant   `json:"variants"`
	Metafields  []Metafield `json:"metafields,omitempty"`
}

type productEnvelope struct {
	Product Product `json:"product"`
}

type CreatedProduct struct {
	ID        int64
	Handle    string
	VariantID int64
}

// CreateProduct posts one product. Single attempt.
func (c *Client) CreateProduct(ctx context.Context, p Product) (*CreatedProduct, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, fmt.Errorf("shopify: product title required")
	}
	if len(p.Variants) == 0 {
		return nil, fmt.Errorf("shopify: at least one variant required")
	}

	path := fmt.Sprintf("/admin/api/%s/products.json", c.cfg.APIVersion)
	var out productEnvelope
	if err := c.doOnce(ctx, http.MethodPost, path, productEnvelope{Product: p}, &out); err != nil {
		return nil, err
	}
	if out.Product.ID == 0 {
		return nil, fmt.Errorf("shopify: response missing product id")
	}
	if len(out.Product.Variants) == 0 || out.Product.Variants[0].ID == 0 {
		return nil, fmt.Errorf("shopify: product %d created without a variant id", out.Product.ID)
	}
	return &CreatedProduct{
		ID:        out.Product.ID,
		Handle:    out.Product.Handle,
		VariantID: out.Product.Variants[0].ID,
	}, nil
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "shopify: <nil error>"
	}
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	return fmt.Sprintf("shopify http %d: %s", e.StatusCode, msg)
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
	req.Header.Set("X-Shopify-Access-Token", c.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if td := ctxutil.GetTraceData(ctx); td != nil && td.RequestID != "" {
		req.Header.Set("X-Request-Id", td.RequestID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("Shopify request failed", "path", path, "error", err.Error())
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	c.log.Debug("Shopify request", "path", path, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if !httpx.IsSuccess(resp.StatusCode) {
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("shopify: decode response: %w", err)
	}
	return nil
}
