package web

import "housequest/internal/game"

// StartViewModel contains data for the character creation screen.
type StartViewModel struct {
	Abilities game.Abilities
	Message   string
}

// ChoiceView is one selectable choice, already filtered for
// availability.
type ChoiceView struct {
	ID    string
	Label string
	Hint  string
}

// ScoreView is one labeled stat bar. Ratio maps the clamped score range
// onto 0-100 for rendering.
type ScoreView struct {
	Name  string
	Value float64
	Ratio int
}

// PlayViewModel contains data for the scene screen.
type PlayViewModel struct {
	Scene       *game.Scene
	Narration   string
	Choices     []ChoiceView
	SceneNumber int
	SceneCount  int
	CanUndo     bool
	Message     string
	Traits      []ScoreView
	KeyMoments  []string
}

// OptionView is one tie-break answer option.
type OptionView struct {
	Index int
	Label string
}

// FollowupViewModel contains data for the tie-break question screen.
type FollowupViewModel struct {
	Question string
	Options  []OptionView
}

// RankedView is one row of the final score table.
type RankedView struct {
	Name  string
	Score float64
}

// ResultViewModel contains data for the final result screen.
type ResultViewModel struct {
	CharacterName string
	HouseName     string
	Ranked        []RankedView
	KeyMoments    []string
}

func traitViews(st *game.State) []ScoreView {
	out := make([]ScoreView, 0, len(game.Houses))
	for _, h := range game.Houses {
		v := st.Traits[h]
		ratio := int((v - game.MinScore) / (game.MaxScore - game.MinScore) * 100)
		out = append(out, ScoreView{Name: game.HouseNames[h], Value: v, Ratio: ratio})
	}
	return out
}

func availableChoices(choices []game.Choice, flags map[string]bool) []ChoiceView {
	out := make([]ChoiceView, 0, len(choices))
	for i := range choices {
		ch := &choices[i]
		if !ch.Available(flags) {
			continue
		}
		out = append(out, ChoiceView{ID: ch.ID, Label: ch.Label, Hint: ch.Hint})
	}
	return out
}
