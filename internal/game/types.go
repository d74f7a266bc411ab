package game

// HouseScores is a per-house numeric bucket. Every house key is present
// once a State has been initialized; absent keys only occur in effect
// deltas, where they mean "no change".
type HouseScores map[House]float64

// EffectBundle is the set of score deltas, flag updates, and narrative
// annotations attached to a single choice. The group set is a fixed
// enumeration; unknown groups cannot be expressed.
type EffectBundle struct {
	Traits       HouseScores        `yaml:"traits,omitempty" json:"traits,omitempty"`
	Relationship HouseScores        `yaml:"relationship,omitempty" json:"relationship,omitempty"`
	ItemAffinity HouseScores        `yaml:"item,omitempty" json:"itemAffinity,omitempty"`
	Preference   HouseScores        `yaml:"preference,omitempty" json:"preference,omitempty"`
	Dispositions map[string]float64 `yaml:"dispositions,omitempty" json:"dispositions,omitempty"`
	Flags        map[string]bool    `yaml:"flags,omitempty" json:"flags,omitempty"`
	KeyMoment    string             `yaml:"keyMoment,omitempty" json:"keyMoment,omitempty"`
}

// Requires gates a choice's availability on the current flag values.
// Every listed flag must match exactly for the choice to be offered.
type Requires struct {
	Flags map[string]bool `yaml:"flags,omitempty" json:"flags,omitempty"`
}

// Choice represents a player action available at a scene.
type Choice struct {
	ID       string       `yaml:"id" json:"id"`
	Label    string       `yaml:"label" json:"label"`
	Hint     string       `yaml:"hint,omitempty" json:"hint,omitempty"`
	Tags     []string     `yaml:"tags,omitempty" json:"tags,omitempty"`
	Effects  EffectBundle `yaml:"effects,omitempty" json:"effects,omitempty"`
	Next     string       `yaml:"next,omitempty" json:"next,omitempty"`
	Requires *Requires    `yaml:"requires,omitempty" json:"requires,omitempty"`
}

// Available reports whether the choice may be offered under the given
// flags. A nil Requires means always available.
func (c *Choice) Available(flags map[string]bool) bool {
	if c.Requires == nil || len(c.Requires.Flags) == 0 {
		return true
	}
	for key, want := range c.Requires.Flags {
		if flags[key] != want {
			return false
		}
	}
	return true
}

// Followup is the disambiguating question asked at the terminal scene
// when the top two house scores are too close to call.
type Followup struct {
	Question string   `yaml:"question" json:"question"`
	Options  []string `yaml:"options" json:"options"`
}

// Scene is a single step of the journey: authored narration plus the
// choices offered there. The terminal scene carries no choices and an
// optional follow-up question instead.
type Scene struct {
	ID          string    `yaml:"id"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description,omitempty"`
	Narration   string    `yaml:"narration"`
	Prompt      string    `yaml:"prompt,omitempty"`
	Choices     []Choice  `yaml:"choices"`
	Followup    *Followup `yaml:"followup,omitempty"`
}

// Choice returns the scene's choice with the given id, or nil.
func (sc *Scene) Choice(id string) *Choice {
	for i := range sc.Choices {
		if sc.Choices[i].ID == id {
			return &sc.Choices[i]
		}
	}
	return nil
}

// Terminal reports whether the scene offers no further choices, i.e. the
// journey ends here and sorting begins.
func (sc *Scene) Terminal() bool {
	return len(sc.Choices) == 0
}
