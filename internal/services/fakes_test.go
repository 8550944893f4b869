package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/yungbote/taiyaki-backend/internal/catalog"
	"github.com/yungbote/taiyaki-backend/internal/data/repos"
	"github.com/yungbote/taiyaki-backend/internal/data/repos/testutil"
	"github.com/yungbote/taiyaki-backend/internal/platform/localstore"
	"github.com/yungbote/taiyaki-backend/internal/platform/sendgrid"
	"github.com/yungbote/taiyaki-backend/internal/platform/shopify"
	"github.com/yungbote/taiyaki-backend/internal/prompt"
	"github.com/yungbote/taiyaki-backend/internal/realtime"
)

func pngBytes(t testing.TB) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func pngDataURL(t testing.TB) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t))
}

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	refs    int
	err     error
	img     []byte
}

func (g *fakeGenerator) Vendor() string { return "OpenAI" }

func (g *fakeGenerator) Generate(ctx context.Context, req ImageRequest) (*GeneratedImage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, req.Prompt)
	if len(req.Reference) > 0 {
		g.refs++
	}
	if g.err != nil {
		return nil, g.err
	}
	img := g.img
	if img == nil {
		img = []byte("rendered-png")
	}
	return &GeneratedImage{Bytes: img, MimeType: "image/png"}, nil
}

type fakePublisher struct {
	calls    int
	products []shopify.Product
	err      error
}

func (p *fakePublisher) StoreDomain() string { return "taiyaki.myshopify.com" }

func (p *fakePublisher) CreateProduct(ctx context.Context, prod shopify.Product) (*shopify.CreatedProduct, error) {
	p.calls++
	p.products = append(p.products, prod)
	if p.err != nil {
		return nil, p.err
	}
	return &shopify.CreatedProduct{ID: 7001, Handle: "custom-charm-biscuit", VariantID: 8001}, nil
}

type fakeMailer struct {
	calls int
	sent  []sendgrid.SendEmailRequest
	err   error
}

func (m *fakeMailer) Send(ctx context.Context, req sendgrid.SendEmailRequest) (*sendgrid.SendEmailResult, error) {
	m.calls++
	m.sent = append(m.sent, req)
	if m.err != nil {
		return nil, m.err
	}
	return &sendgrid.SendEmailResult{StatusCode: 202, MessageID: fmt.Sprintf("msg-%d", m.calls)}, nil
}

type fakeStatus struct {
	mu     sync.Mutex
	events []realtime.StatusEvent
}

func (f *fakeStatus) Publish(ctx context.Context, ev realtime.StatusEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeStatus) statuses() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev.Status)
	}
	return out
}

type harness struct {
	store      *localstore.Store
	gen        *fakeGenerator
	publisher  *fakePublisher
	mailer     *fakeMailer
	status     *fakeStatus
	designs    repos.DesignRepo
	iterations repos.DesignIterationRepo
	events     repos.AnalyticsEventRepo

	intake      IntakeService
	render      RenderService
	product     ProductService
	notifier    NotifierService
	fulfillment FulfillmentService
	queries     DesignQueryService
	analytics   AnalyticsService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := testutil.Logger(t)
	db := testutil.DB(t)

	store, err := localstore.New(log, localstore.Config{Root: t.TempDir(), PublicBaseURL: "http://files.test"})
	if err != nil {
		t.Fatalf("localstore: %v", err)
	}
	cat := catalog.MustDefault()

	h := &harness{
		store:      store,
		gen:        &fakeGenerator{},
		publisher:  &fakePublisher{},
		mailer:     &fakeMailer{},
		status:     &fakeStatus{},
		designs:    repos.NewDesignRepo(db, log),
		iterations: repos.NewDesignIterationRepo(db, log),
		events:     repos.NewAnalyticsEventRepo(db, log),
	}
	h.intake = NewIntakeService(log, store, h.designs, h.status)
	h.render = NewRenderService(log, h.gen, store, prompt.NewBuilder(cat), h.designs, h.iterations, h.status)
	h.product = NewProductService(log, h.publisher, cat, h.designs, h.status)
	h.notifier = NewNotifierService(log, h.mailer, cat, h.designs, h.status)
	h.fulfillment = NewFulfillmentService(log, h.intake, h.render, h.product, h.notifier, h.designs, h.status)
	h.queries = NewDesignQueryService(log, h.designs)
	h.analytics = NewAnalyticsService(log, h.events)
	return h
}
