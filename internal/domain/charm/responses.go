package charm

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// QuizResponses holds the answers collected by the quiz. Known questions are
// typed; anything else lands in Extra.
type QuizResponses struct {
	Material        string   `json:"material,omitempty"`
	SizePresence    string   `json:"size_presence,omitempty"`
	Inspiration     string   `json:"inspiration,omitempty"`
	Symbols         string   `json:"symbols,omitempty"`
	SpecialDetails  string   `json:"special_details,omitempty"`
	IdeaDescription string   `json:"idea_description,omitempty"`
	Recipient       string   `json:"recipient,omitempty"`
	StyleVibes      []string `json:"style_vibes,omitempty"`

	Extra map[string]any `json:"-"`
}

var knownKeys = map[string]struct{}{
	"material":           {},
	"size_presence":      {},
	"inspiration":        {},
	"symbols":            {},
	"special_details":    {},
	"idea_description":   {},
	"recipient":          {},
	"style_vibes":        {},
	"all_text_responses": {},
}

// quiz front end nests some free-text answers under numbered question ids.
type textResponses struct {
	Symbols         string `json:"Q6_symbols"`
	IdeaDescription string `json:"Q8_idea_description"`
	SpecialDetails  string `json:"Q13_special_details"`
}

func (q *QuizResponses) UnmarshalJSON(b []byte) error {
	type plain QuizResponses
	var typed struct {
		plain
		StyleVibes json.RawMessage `json:"style_vibes,omitempty"`
		AllText    *textResponses  `json:"all_text_responses,omitempty"`
	}
	if err := json.Unmarshal(b, &typed); err != nil {
		return err
	}
	out := QuizResponses(typed.plain)

	vibes, err := decodeVibes(typed.StyleVibes)
	if err != nil {
		return err
	}
	out.StyleVibes = vibes

	if t := typed.AllText; t != nil {
		if out.Symbols == "" {
			out.Symbols = t.Symbols
		}
		if out.IdeaDescription == "" {
			out.IdeaDescription = t.IdeaDescription
		}
		if out.SpecialDetails == "" {
			out.SpecialDetails = t.SpecialDetails
		}
	}

	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		if _, ok := knownKeys[k]; ok || v == nil {
			continue
		}
		if out.Extra == nil {
			out.Extra = map[string]any{}
		}
		out.Extra[k] = v
	}
	*q = out
	return nil
}

func (q QuizResponses) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(q.Extra)+8)
	for k, v := range q.Extra {
		m[k] = v
	}
	put := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	put("material", q.Material)
	put("size_presence", q.SizePresence)
	put("inspiration", q.Inspiration)
	put("symbols", q.Symbols)
	put("special_details", q.SpecialDetails)
	put("idea_description", q.IdeaDescription)
	put("recipient", q.Recipient)
	if len(q.StyleVibes) > 0 {
		m["style_vibes"] = q.StyleVibes
	}
	return json.Marshal(m)
}

// Normalize trims free text and drops empty vibes.
func (q QuizResponses) Normalize() QuizResponses {
	q.Material = strings.TrimSpace(q.Material)
	q.SizePresence = strings.TrimSpace(q.SizePresence)
	q.Inspiration = strings.TrimSpace(q.Inspiration)
	q.Symbols = strings.TrimSpace(q.Symbols)
	q.SpecialDetails = strings.TrimSpace(q.SpecialDetails)
	q.IdeaDescription = strings.TrimSpace(q.IdeaDescription)
	q.Recipient = strings.TrimSpace(q.Recipient)
	vibes := make([]string, 0, len(q.StyleVibes))
	for _, v := range q.StyleVibes {
		if v = strings.TrimSpace(v); v != "" {
			vibes = append(vibes, v)
		}
	}
	q.StyleVibes = vibes
	return q
}

// ExtraKeys returns Extra's keys in sorted order.
func (q QuizResponses) ExtraKeys() []string {
	keys := make([]string, 0, len(q.Extra))
	for k := range q.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ExtraString renders an Extra value as text; non-strings are JSON encoded.
func (q QuizResponses) ExtraString(key string) string {
	v, ok := q.Extra[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func decodeVibes(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("style_vibes: expected string or list of strings")
	}
	var out []string
	for _, part := range strings.Split(single, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}
