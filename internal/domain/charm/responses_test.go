package charm

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestQuizResponsesUnmarshal(t *testing.T) {
	raw := `{
		"material": "sterling_silver",
		"style_vibes": ["elegant", "sweet"],
		"all_text_responses": {"Q6_symbols": "paw print", "Q13_special_details": "tiny heart"},
		"favorite_color": "blue",
		"birth_year": 2019
	}`
	var q QuizResponses
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if q.Material != "sterling_silver" {
		t.Fatalf("material=%q", q.Material)
	}
	if !reflect.DeepEqual(q.StyleVibes, []string{"elegant", "sweet"}) {
		t.Fatalf("vibes=%v", q.StyleVibes)
	}
	if q.Symbols != "paw print" || q.SpecialDetails != "tiny heart" {
		t.Fatalf("nested text answers not lifted: %+v", q)
	}
	if got := q.ExtraKeys(); !reflect.DeepEqual(got, []string{"birth_year", "favorite_color"}) {
		t.Fatalf("extra keys=%v", got)
	}
	if got := q.ExtraString("birth_year"); got != "2019" {
		t.Fatalf("extra birth_year=%q", got)
	}
}

func TestQuizResponsesVibesAsString(t *testing.T) {
	var q QuizResponses
	if err := json.Unmarshal([]byte(`{"style_vibes":"bold, playful"}`), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(q.StyleVibes, []string{"bold", "playful"}) {
		t.Fatalf("vibes=%v", q.StyleVibes)
	}
	if err := json.Unmarshal([]byte(`{"style_vibes":42}`), &q); err == nil {
		t.Fatalf("expected error for numeric style_vibes")
	}
}

func TestQuizResponsesMarshalKeepsExtra(t *testing.T) {
	q := QuizResponses{Material: "solid_gold", Extra: map[string]any{"engraving": "R"}}
	b, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back["material"] != "solid_gold" || back["engraving"] != "R" {
		t.Fatalf("unexpected payload %s", b)
	}
	if _, ok := back["inspiration"]; ok {
		t.Fatalf("empty fields should be omitted: %s", b)
	}
}
