// Package prompt turns quiz answers into image-generation prompts. Output is
// a pure function of its input.
package prompt

import (
	"fmt"
	"strings"

	"github.com/yungbote/taiyaki-backend/internal/catalog"
	"github.com/yungbote/taiyaki-backend/internal/domain/charm"
)

type Input struct {
	SubjectName string
	HasPhoto    bool
	Responses   charm.QuizResponses
}

type Builder struct {
	cat *catalog.Catalog
}

func NewBuilder(cat *catalog.Catalog) *Builder {
	return &Builder{cat: cat}
}

const closing = "The charm should be jewelry-quality, suitable for a necklace or bracelet, with a single jump ring for attachment. " +
	"Use only the stated metal finish: no colors, no enamel, no painted details. " +
	"Style: clean, professional product photography on a white background, studio lighting with soft reflections. " +
	"High-quality, detailed, photorealistic rendering."

func (b *Builder) Build(in Input) string {
	r := in.Responses.Normalize()
	subject := strings.TrimSpace(in.SubjectName)
	if subject == "" {
		subject = "a meaningful subject"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Create a beautiful, elegant custom charm design featuring %s. ", subject)
	if in.HasPhoto {
		sb.WriteString("Replicate the subject shown in the reference photo, keeping its distinctive features and proportions. ")
	}
	fmt.Fprintf(&sb, "Made in %s. ", b.cat.MaterialPhrase(r.Material))
	if r.SizePresence != "" {
		fmt.Fprintf(&sb, "%s. ", upperFirst(b.cat.StylePhrase(r.SizePresence)))
	}
	if vibes := b.cat.VibePhrases(r.StyleVibes); len(vibes) > 0 {
		fmt.Fprintf(&sb, "Overall feel: %s. ", strings.Join(vibes, ", "))
	}
	writeField(&sb, "Inspired by", r.Inspiration)
	writeField(&sb, "Include meaningful elements", r.Symbols)
	writeField(&sb, "Idea", r.IdeaDescription)
	writeField(&sb, "Special details", r.SpecialDetails)
	writeField(&sb, "Made for", r.Recipient)
	sb.WriteString(closing)
	return sb.String()
}

// BuildVariant appends the fixed direction paragraph for a style variant.
func (b *Builder) BuildVariant(in Input, variant charm.Variant) string {
	base := b.Build(in)
	dir := b.cat.VariantDirection(string(variant))
	if dir == "" {
		return base
	}
	return base + "\n\n" + dir
}

func writeField(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "%s: %s. ", label, strings.TrimRight(value, "."))
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
