package narrate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"housequest/internal/game"
)

const maxGeneratedChoices = 4

// Gemini generates scene content with the Gemini API. Callers fall back
// to Static on any error.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini builds a client for the given key and model name.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.8)
	model.SetMaxOutputTokens(600)
	return &Gemini{client: client, model: model}, nil
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

func (g *Gemini) SceneContent(ctx context.Context, scene *game.Scene, summary string, recent []game.SelectionRecord) (*Content, error) {
	prompt := buildPrompt(scene, summary, recent)
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return nil, errors.New("empty model response")
	}
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	return DecodeContent(raw)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

var jsonBlockRe = regexp.MustCompile("(?is)```json\\s*(.*?)```")

// ExtractJSON pulls the JSON payload out of a model response: either a
// fenced ```json block or a bare object.
func ExtractJSON(text string) (string, error) {
	if m := jsonBlockRe.FindStringSubmatch(text); m != nil {
		return m[1], nil
	}
	raw := strings.TrimSpace(text)
	if strings.HasPrefix(raw, "{") && strings.HasSuffix(raw, "}") {
		return raw, nil
	}
	return "", errors.New("no JSON block in response")
}

type wireChoice struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Tags  []string `json:"tags"`
	Hint  string   `json:"hint"`
}

type wireContent struct {
	Narration string         `json:"narration"`
	Choices   []wireChoice   `json:"choices"`
	Followup  *game.Followup `json:"followup"`
}

// DecodeContent parses and validates a generated content payload,
// capping the choice count. Generated choices carry tags only; their
// score contribution goes through game.TagEffects.
func DecodeContent(raw string) (*Content, error) {
	var wc wireContent
	if err := json.Unmarshal([]byte(raw), &wc); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if wc.Narration == "" {
		return nil, errors.New("content missing narration")
	}
	if len(wc.Choices) > maxGeneratedChoices {
		wc.Choices = wc.Choices[:maxGeneratedChoices]
	}
	choices := make([]game.Choice, 0, len(wc.Choices))
	for _, c := range wc.Choices {
		if c.ID == "" || c.Label == "" {
			return nil, errors.New("generated choice missing id or label")
		}
		choices = append(choices, game.Choice{
			ID:    c.ID,
			Label: c.Label,
			Tags:  c.Tags,
			Hint:  c.Hint,
		})
	}
	if wc.Followup != nil && (wc.Followup.Question == "" || len(wc.Followup.Options) == 0) {
		return nil, errors.New("generated followup malformed")
	}
	return &Content{
		Narration: wc.Narration,
		Choices:   choices,
		Followup:  wc.Followup,
	}, nil
}
