package services

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/taiyaki-backend/internal/catalog"
	"github.com/yungbote/taiyaki-backend/internal/data/repos"
	types "github.com/yungbote/taiyaki-backend/internal/domain"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
	"github.com/yungbote/taiyaki-backend/internal/platform/shopify"
)

const (
	productVendor       = "Taiyaki Custom Charms"
	productType         = "Custom Jewelry"
	metafieldNamespace  = "taiyaki"
	metafieldSingleLine = "single_line_text_field"
	metafieldMultiLine  = "multi_line_text_field"
	metafieldURL        = "url"
)

type ProductService interface {
	// CreateProduct publishes a rendered design and moves it to ready.
	CreateProduct(ctx context.Context, ref DesignRef) (*types.Design, error)
}

type productService struct {
	log        *logger.Logger
	publisher  ProductPublisher
	cat        *catalog.Catalog
	designRepo repos.DesignRepo
	status     StatusPublisher
}

func NewProductService(log *logger.Logger, publisher ProductPublisher, cat *catalog.Catalog, designRepo repos.DesignRepo, status StatusPublisher) ProductService {
	return &productService{
		log:        log.With("service", "ProductService"),
		publisher:  publisher,
		cat:        cat,
		designRepo: designRepo,
		status:     status,
	}
}

func (s *productService) CreateProduct(ctx context.Context, ref DesignRef) (*types.Design, error) {
	d, err := loadDesign(ctx, s.designRepo, ref)
	if err != nil {
		return nil, err
	}
	if err := requireStatusFor(d, types.DesignStatusReady); err != nil {
		return nil, err
	}

	created, err := s.publisher.CreateProduct(ctx, BuildProduct(s.cat, d))
	if err != nil {
		s.log.Error("product creation failed", "design_id", d.DesignID, "error", err)
		return nil, upstream("Shopify", err)
	}

	store := shopify.NormalizeDomain(s.publisher.StoreDomain())
	productURL := fmt.Sprintf("https://%s/products/%s", store, created.Handle)
	checkoutURL := fmt.Sprintf("https://%s/cart/%d:1", store, created.VariantID)

	updated, err := transition(ctx, s.designRepo, d, types.DesignStatusReady, map[string]interface{}{
		"product_id":         strconv.FormatInt(created.ID, 10),
		"variant_id":         strconv.FormatInt(created.VariantID, 10),
		"product_handle":     created.Handle,
		"product_url":        productURL,
		"checkout_url":       checkoutURL,
		"product_created_at": time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("product created", "design_id", d.DesignID, "product_id", created.ID)
	publishStatus(ctx, s.status, s.log, updated, "")
	return updated, nil
}

// BuildProduct maps a rendered design to the commerce product payload.
func BuildProduct(cat *catalog.Catalog, d *types.Design) shopify.Product {
	q := d.Quiz().Normalize()
	subject := strings.TrimSpace(d.SubjectName)

	tags := []string{"custom-charm", "ai-design", "personalized"}
	if m, ok := cat.Material(q.Material); ok {
		tags = append(tags, m.Code)
	}

	p := shopify.Product{
		Title:       "Custom Charm – " + subject,
		BodyHTML:    productDescription(cat, subject, q),
		Vendor:      productVendor,
		ProductType: productType,
		Status:      "active",
		Tags:        strings.Join(tags, ", "),
		Variants: []shopify.Variant{{
			Price:               cat.Price(q.Material),
			SKU:                 "CHARM-" + d.DesignID.String(),
			InventoryManagement: "shopify",
			InventoryQuantity:   1,
			Weight:              10,
			WeightUnit:          "g",
		}},
		Metafields: productMetafields(d, q),
	}
	if d.RenderURL != "" {
		p.Images = []shopify.Image{{Src: d.RenderURL, Alt: "Custom charm design for " + subject}}
	}
	return p
}

func productDescription(cat *catalog.Catalog, subject string, q types.QuizResponses) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<h2>A one-of-a-kind charm for %s</h2>", html.EscapeString(subject))
	fmt.Fprintf(&sb, "<p>Designed from your quiz answers and handcrafted in %s.</p>", html.EscapeString(cat.MaterialPhrase(q.Material)))
	sb.WriteString("<ul>")
	if m, ok := cat.Material(q.Material); ok {
		fmt.Fprintf(&sb, "<li><strong>Material:</strong> %s</li>", html.EscapeString(m.Label))
	}
	if q.SizePresence != "" {
		label := q.SizePresence
		if st, ok := cat.Style(q.SizePresence); ok {
			label = st.Label
		}
		fmt.Fprintf(&sb, "<li><strong>Style:</strong> %s</li>", html.EscapeString(label))
	}
	if q.Inspiration != "" {
		fmt.Fprintf(&sb, "<li><strong>Inspiration:</strong> %s</li>", html.EscapeString(q.Inspiration))
	}
	if q.Recipient != "" {
		fmt.Fprintf(&sb, "<li><strong>Made for:</strong> %s</li>", html.EscapeString(q.Recipient))
	}
	sb.WriteString("<li>Ships with a single jump ring, ready for a necklace or bracelet</li>")
	sb.WriteString("</ul>")
	return sb.String()
}

func productMetafields(d *types.Design, q types.QuizResponses) []shopify.Metafield {
	mf := []shopify.Metafield{
		textField("customer_email", d.Email),
		textField("subject_name", d.SubjectName),
		textField("design_id", d.DesignID.String()),
	}
	if d.PhotoURL != "" {
		mf = append(mf, shopify.Metafield{Namespace: metafieldNamespace, Key: "original_photo_url", Value: d.PhotoURL, Type: metafieldURL})
	}

	add := func(key, value string, multiline bool) {
		if value == "" {
			return
		}
		f := textField(key, value)
		if multiline {
			f.Type = metafieldMultiLine
		}
		mf = append(mf, f)
	}
	add("material_preference", q.Material, false)
	add("style_preference", q.SizePresence, false)
	add("inspiration", q.Inspiration, true)
	add("meaningful_elements", q.Symbols, true)
	add("special_details", q.SpecialDetails, true)
	add("style_vibes", strings.Join(q.StyleVibes, ", "), false)
	add("recipient", q.Recipient, false)
	add("idea_description", q.IdeaDescription, true)
	for _, k := range q.ExtraKeys() {
		add("quiz_"+k, q.ExtraString(k), true)
	}
	return mf
}

func textField(key, value string) shopify.Metafield {
	return shopify.Metafield{Namespace: metafieldNamespace, Key: key, Value: value, Type: metafieldSingleLine}
}
