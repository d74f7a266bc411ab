package narrate

import (
	"context"
	"strings"
	"testing"

	"housequest/internal/game"
)

func TestStaticServesAuthoredContent(t *testing.T) {
	scene := &game.Scene{
		ID:        "door",
		Narration: "A door stands ajar.",
		Choices: []game.Choice{
			{ID: "knock", Label: "Knock"},
		},
		Followup: &game.Followup{Question: "Which?", Options: []string{"a", "b"}},
	}

	c, err := Static{}.SceneContent(context.Background(), scene, "summary", nil)
	if err != nil {
		t.Fatalf("Static should never fail: %v", err)
	}
	if c.Narration != scene.Narration {
		t.Errorf("Narration = %q", c.Narration)
	}
	if len(c.Choices) != 1 || c.Choices[0].ID != "knock" {
		t.Errorf("Choices = %+v", c.Choices)
	}
	if c.Followup != scene.Followup {
		t.Error("Follow-up should pass through unchanged")
	}
}

func TestExtractJSONFencedBlock(t *testing.T) {
	text := "Here you go:\n```json\n{\"narration\":\"hi\"}\n```\nanything after"
	raw, err := ExtractJSON(text)
	if err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if strings.TrimSpace(raw) != `{"narration":"hi"}` {
		t.Errorf("Extracted %q", raw)
	}
}

func TestExtractJSONBareObject(t *testing.T) {
	raw, err := ExtractJSON("  {\"narration\":\"hi\"}  ")
	if err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if raw != `{"narration":"hi"}` {
		t.Errorf("Extracted %q", raw)
	}
}

func TestExtractJSONUppercaseFence(t *testing.T) {
	raw, err := ExtractJSON("```JSON\n{\"narration\":\"hi\"}\n```")
	if err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if strings.TrimSpace(raw) != `{"narration":"hi"}` {
		t.Errorf("Extracted %q", raw)
	}
}

func TestExtractJSONNoBlock(t *testing.T) {
	if _, err := ExtractJSON("sorry, I cannot help with that"); err == nil {
		t.Error("Expected error for prose-only response")
	}
}

func TestDecodeContentValid(t *testing.T) {
	raw := `{
		"narration": "The hall hums with candlelight.",
		"choices": [
			{"id": "listen", "label": "Listen at the wall", "tags": ["R", "DELIBERATE"], "hint": "quiet"},
			{"id": "stride", "label": "Stride in", "tags": ["G"]}
		],
		"followup": null
	}`
	c, err := DecodeContent(raw)
	if err != nil {
		t.Fatalf("DecodeContent failed: %v", err)
	}
	if c.Narration == "" {
		t.Error("Narration lost")
	}
	if len(c.Choices) != 2 {
		t.Fatalf("Expected 2 choices, got %d", len(c.Choices))
	}
	if c.Choices[0].Hint != "quiet" {
		t.Errorf("Hint lost: %+v", c.Choices[0])
	}
	if len(c.Choices[0].Tags) != 2 {
		t.Errorf("Tags lost: %+v", c.Choices[0])
	}
	if c.Followup != nil {
		t.Error("Expected no follow-up")
	}
}

func TestDecodeContentMissingNarration(t *testing.T) {
	if _, err := DecodeContent(`{"choices":[]}`); err == nil {
		t.Error("Expected error for missing narration")
	}
}

func TestDecodeContentBadChoice(t *testing.T) {
	raw := `{"narration":"x","choices":[{"id":"","label":"no id"}]}`
	if _, err := DecodeContent(raw); err == nil {
		t.Error("Expected error for choice without id")
	}
}

func TestDecodeContentCapsChoices(t *testing.T) {
	raw := `{"narration":"x","choices":[
		{"id":"a","label":"A"},{"id":"b","label":"B"},{"id":"c","label":"C"},
		{"id":"d","label":"D"},{"id":"e","label":"E"},{"id":"f","label":"F"}
	]}`
	c, err := DecodeContent(raw)
	if err != nil {
		t.Fatalf("DecodeContent failed: %v", err)
	}
	if len(c.Choices) != maxGeneratedChoices {
		t.Errorf("Expected %d choices, got %d", maxGeneratedChoices, len(c.Choices))
	}
}

func TestDecodeContentMalformedFollowup(t *testing.T) {
	raw := `{"narration":"x","followup":{"question":"","options":[]}}`
	if _, err := DecodeContent(raw); err == nil {
		t.Error("Expected error for malformed follow-up")
	}
}

func TestDecodeContentBadJSON(t *testing.T) {
	if _, err := DecodeContent("{narration"); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestBuildPrompt(t *testing.T) {
	scene := &game.Scene{
		ID:          "market",
		Description: "choosing a wand",
		Prompt:      "Offer choices about wand affinity.",
	}
	recent := []game.SelectionRecord{
		{SceneID: "letter", ChoiceID: "letter-bold"},
	}

	p := buildPrompt(scene, "traits:G1.0", recent)
	for _, want := range []string{
		"market - choosing a wand",
		"letter/letter-bold",
		"traits:G1.0",
		"Offer choices about wand affinity.",
		"JSON code block",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("Prompt missing %q:\n%s", want, p)
		}
	}

	empty := buildPrompt(&game.Scene{ID: "s"}, "", nil)
	if !strings.Contains(empty, "Recent choices: none") {
		t.Error("Expected 'none' placeholder for empty history")
	}
}
