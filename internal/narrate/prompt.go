package narrate

import (
	"fmt"
	"strings"

	"housequest/internal/game"
)

const systemPrompt = `You are the co-writer for a first-person interactive
fiction. Scene progression and all scoring happen on the server; you only
write prose. Use original sentences, never copyrighted text. Respond with
a single JSON code block: narration is 2-5 sentences, choices is at most
4 entries.`

const responseSchema = `{"narration":"...","choices":[{"id":"a","label":"...","tags":["G"],"hint":"..."}],"followup":null}`

func buildPrompt(scene *game.Scene, summary string, recent []game.SelectionRecord) string {
	hist := make([]string, 0, len(recent))
	for _, r := range recent {
		hist = append(hist, r.SceneID+"/"+r.ChoiceID)
	}
	recentLine := strings.Join(hist, ", ")
	if recentLine == "" {
		recentLine = "none"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", systemPrompt)
	fmt.Fprintf(&b, "Current scene: %s - %s\n", scene.ID, scene.Description)
	fmt.Fprintf(&b, "Recent choices: %s\n", recentLine)
	fmt.Fprintf(&b, "State summary: %s\n", summary)
	if scene.Prompt != "" {
		fmt.Fprintf(&b, "%s\n", scene.Prompt)
	}
	fmt.Fprintf(&b, "JSON schema:\n%s\n", responseSchema)
	b.WriteString("Answer with a JSON code block only.")
	return b.String()
}
