package services

import (
	"strings"
	"testing"

	"github.com/yungbote/taiyaki-backend/internal/catalog"
)

func TestRenderReadyEmail(t *testing.T) {
	d := renderedDesign("solid_gold")
	d.SubjectName = "Mochi <3"
	d.CheckoutURL = "https://taiyaki.myshopify.com/cart/8001:1"
	d.ProductURL = "https://taiyaki.myshopify.com/products/custom-charm-mochi"

	msg, err := RenderReadyEmail(catalog.MustDefault(), d)
	if err != nil {
		t.Fatalf("RenderReadyEmail: %v", err)
	}
	if msg.Subject != "Your charm is ready – Mochi <3" {
		t.Fatalf("subject=%q", msg.Subject)
	}
	if !strings.Contains(msg.Text, d.CheckoutURL) || !strings.Contains(msg.Text, "solid 14K gold") {
		t.Fatalf("text=%q", msg.Text)
	}
	if !strings.Contains(msg.HTML, "Mochi &lt;3") {
		t.Fatalf("subject name not escaped in html")
	}
	if strings.Contains(msg.HTML, "<link") || strings.Contains(msg.HTML, "<style") {
		t.Fatalf("email must not depend on stylesheets")
	}
	if !strings.Contains(msg.HTML, `style="`) || !strings.Contains(msg.HTML, "cart/8001:1") {
		t.Fatalf("html missing inline styles or checkout link")
	}
}
