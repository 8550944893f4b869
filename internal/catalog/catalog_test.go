package catalog

import (
	"reflect"
	"testing"
)

func TestMaterialPhraseAndPrice(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cases := []struct {
		code, phrase, price string
	}{
		{"sterling_silver", "sterling silver", "89.00"},
		{"sterling-silver", "sterling silver", "89.00"},
		{"gold_filled", "gold-filled", "129.00"},
		{"gold-plated", "gold-filled", "129.00"},
		{"solid_gold", "solid 14K gold", "299.00"},
		{"14k-gold", "solid 14K gold", "299.00"},
		{"platinum", "premium metal", "100.00"},
		{"", "premium metal", "100.00"},
	}
	for _, tc := range cases {
		if got := c.MaterialPhrase(tc.code); got != tc.phrase {
			t.Errorf("MaterialPhrase(%q)=%q want %q", tc.code, got, tc.phrase)
		}
		if got := c.Price(tc.code); got != tc.price {
			t.Errorf("Price(%q)=%q want %q", tc.code, got, tc.price)
		}
	}
}

func TestStyleAndVibes(t *testing.T) {
	c := MustDefault()
	if got := c.StylePhrase("statement_bold"); got != "bold statement piece" {
		t.Fatalf("style=%q", got)
	}
	if got := c.StylePhrase("enormous"); got != "elegant style" {
		t.Fatalf("unknown style=%q", got)
	}
	got := c.VibePhrases([]string{"sweet", "mystery", "elegant"})
	want := []string{"elegant and refined", "sweet and sentimental"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("vibes=%v want %v", got, want)
	}
	if c.VariantDirection("classic") == "" || c.VariantDirection("sculptural") == "" {
		t.Fatalf("variant directions missing")
	}
}

func TestParseRejectsBadCatalog(t *testing.T) {
	bad := []byte(`
catalog: charm
materials:
  - code: tin
    tier: cheap
default_material_phrase: metal
default_style_phrase: style
default_price: "1.00"
price_tiers:
  base: "1.00"
`)
	if _, err := Parse(bad); err == nil {
		t.Fatalf("expected unknown tier error")
	}
	if _, err := Parse([]byte("catalog: other")); err == nil {
		t.Fatalf("expected catalog name error")
	}
}
