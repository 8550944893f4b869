package catalog

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const catalogPathEnv = "CHARM_CATALOG_YAML"

//go:embed catalog.yaml
var catalogFS embed.FS

type Catalog struct {
	Name                  string            `yaml:"catalog"`
	Version               int               `yaml:"version"`
	Materials             []Material        `yaml:"materials"`
	DefaultMaterialPhrase string            `yaml:"default_material_phrase"`
	PriceTiers            map[string]string `yaml:"price_tiers"`
	DefaultPrice          string            `yaml:"default_price"`
	Styles                []Entry           `yaml:"styles"`
	DefaultStylePhrase    string            `yaml:"default_style_phrase"`
	Vibes                 []Entry           `yaml:"vibes"`
	Variants              map[string]string `yaml:"variants"`

	materialIndex map[string]int
	styleIndex    map[string]int
}

type Material struct {
	Code    string   `yaml:"code"`
	Aliases []string `yaml:"aliases"`
	Label   string   `yaml:"label"`
	Phrase  string   `yaml:"phrase"`
	Tier    string   `yaml:"tier"`
}

type Entry struct {
	Code   string `yaml:"code"`
	Label  string `yaml:"label"`
	Phrase string `yaml:"phrase"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the catalog loaded from CHARM_CATALOG_YAML or the embedded copy.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		data, err := readCatalog()
		if err != nil {
			defaultErr = err
			return
		}
		defaultCat, defaultErr = Parse(data)
	})
	return defaultCat, defaultErr
}

// MustDefault panics if the catalog cannot be loaded.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

func readCatalog() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(catalogPathEnv)); path != "" {
		return os.ReadFile(path)
	}
	return catalogFS.ReadFile("catalog.yaml")
}

func (c *Catalog) index() error {
	if strings.TrimSpace(c.Name) != "charm" {
		return fmt.Errorf("unexpected catalog: %q", c.Name)
	}
	if len(c.Materials) == 0 {
		return errors.New("no materials defined")
	}
	if c.DefaultMaterialPhrase == "" || c.DefaultStylePhrase == "" || c.DefaultPrice == "" {
		return errors.New("default phrases and price are required")
	}
	c.materialIndex = map[string]int{}
	for i, m := range c.Materials {
		if m.Code == "" {
			return errors.New("material code is required")
		}
		if _, ok := c.PriceTiers[m.Tier]; !ok {
			return fmt.Errorf("material %s: unknown price tier %q", m.Code, m.Tier)
		}
		for _, key := range append([]string{m.Code}, m.Aliases...) {
			key = normalize(key)
			if _, dup := c.materialIndex[key]; dup {
				return fmt.Errorf("duplicate material code %q", key)
			}
			c.materialIndex[key] = i
		}
	}
	c.styleIndex = map[string]int{}
	for i, s := range c.Styles {
		c.styleIndex[normalize(s.Code)] = i
	}
	return nil
}

func (c *Catalog) Material(code string) (Material, bool) {
	i, ok := c.materialIndex[normalize(code)]
	if !ok {
		return Material{}, false
	}
	return c.Materials[i], true
}

// MaterialPhrase falls back to the default phrase for unknown or empty codes.
func (c *Catalog) MaterialPhrase(code string) string {
	if m, ok := c.Material(code); ok {
		return m.Phrase
	}
	return c.DefaultMaterialPhrase
}

// Price returns the variant price for a material code as a decimal string.
func (c *Catalog) Price(code string) string {
	if m, ok := c.Material(code); ok {
		return c.PriceTiers[m.Tier]
	}
	return c.DefaultPrice
}

func (c *Catalog) Style(code string) (Entry, bool) {
	i, ok := c.styleIndex[normalize(code)]
	if !ok {
		return Entry{}, false
	}
	return c.Styles[i], true
}

func (c *Catalog) StylePhrase(code string) string {
	if s, ok := c.Style(code); ok {
		return s.Phrase
	}
	return c.DefaultStylePhrase
}

// VibePhrases maps selected vibes to phrases in catalog order, skipping unknowns.
func (c *Catalog) VibePhrases(selected []string) []string {
	if len(selected) == 0 {
		return nil
	}
	want := make(map[string]bool, len(selected))
	for _, v := range selected {
		want[normalize(v)] = true
	}
	var out []string
	for _, v := range c.Vibes {
		if want[normalize(v.Code)] {
			out = append(out, v.Phrase)
		}
	}
	return out
}

func (c *Catalog) VariantDirection(variant string) string {
	return strings.TrimSpace(c.Variants[variant])
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
