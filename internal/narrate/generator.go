// Package narrate supplies scene content: either the authored fallback
// from the scene set, or prose generated by an external model. The
// engine never depends on where content came from.
package narrate

import (
	"context"

	"housequest/internal/game"
)

// Content is one scene's displayable bundle.
type Content struct {
	Narration string         `json:"narration"`
	Choices   []game.Choice  `json:"choices"`
	Followup  *game.Followup `json:"followup,omitempty"`
}

// Generator produces content for a scene given a compact state summary
// and the most recent selections.
type Generator interface {
	SceneContent(ctx context.Context, scene *game.Scene, summary string, recent []game.SelectionRecord) (*Content, error)
}

// Static serves the authored fallback content verbatim.
type Static struct{}

func (Static) SceneContent(_ context.Context, scene *game.Scene, _ string, _ []game.SelectionRecord) (*Content, error) {
	return &Content{
		Narration: scene.Narration,
		Choices:   scene.Choices,
		Followup:  scene.Followup,
	}, nil
}
