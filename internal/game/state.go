package game

// Character holds the player-authored profile gathered before play.
type Character struct {
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	Nationality string `json:"nationality"`
	Heritage    string `json:"heritage"`
	Family      string `json:"family"`
}

// Complete reports whether every profile field has been filled in.
func (c Character) Complete() bool {
	return c.Name != "" && c.Gender != "" && c.Nationality != "" &&
		c.Heritage != "" && c.Family != ""
}

// Abilities are the character's rolled attributes. They flavor narration
// and hints; they do not feed the sorting score.
type Abilities struct {
	Vitality   int `json:"vitality"`
	Mana       int `json:"mana"`
	Intellect  int `json:"intellect"`
	Agility    int `json:"agility"`
	Resilience int `json:"resilience"`
	Charm      int `json:"charm"`
}

// SelectionRecord remembers one recent choice.
type SelectionRecord struct {
	SceneID  string   `json:"sceneId"`
	ChoiceID string   `json:"choiceId"`
	Label    string   `json:"label"`
	Tags     []string `json:"tags,omitempty"`
}

// TranscriptEntry records the narration shown and the choice taken at
// one scene. Unlike the selection history, the transcript is unbounded.
type TranscriptEntry struct {
	SceneID     string `json:"sceneId"`
	Narration   string `json:"narration"`
	Choice      string `json:"choice"`
	PlayerInput string `json:"playerInput,omitempty"`
}

// FollowupAnswer records which option the player picked at the tie-break
// question and the house it was bound to.
type FollowupAnswer struct {
	House       House `json:"house"`
	OptionIndex int   `json:"optionIndex"`
}

// RankedHouse pairs a house with its weighted score.
type RankedHouse struct {
	House House   `json:"house"`
	Score float64 `json:"score"`
}

// FinalResult is the terminal outcome of a play-through.
type FinalResult struct {
	House      House         `json:"house"`
	Scores     HouseScores   `json:"scores"`
	Ranked     []RankedHouse `json:"ranked"`
	KeyMoments []string      `json:"keyMoments"`
}

// State is the complete mutable record of one play-through. Every house
// key is always present in every house-keyed group; every disposition
// key is always present in Dispositions.
type State struct {
	Character        Character          `json:"character"`
	Abilities        Abilities          `json:"abilities"`
	Traits           HouseScores        `json:"traits"`
	Relationship     HouseScores        `json:"relationship"`
	ItemAffinity     HouseScores        `json:"itemAffinity"`
	Preference       HouseScores        `json:"preference"`
	Dispositions     map[string]float64 `json:"dispositions"`
	Flags            map[string]bool    `json:"flags"`
	KeyMoments       []string           `json:"keyMoments"`
	SelectionHistory []SelectionRecord  `json:"selectionHistory"`
	Transcript       []TranscriptEntry  `json:"transcript"`
	FollowupAnswer   *FollowupAnswer    `json:"followupAnswer,omitempty"`
	FinalResult      *FinalResult       `json:"finalResult,omitempty"`
}

func zeroHouseScores() HouseScores {
	g := make(HouseScores, len(Houses))
	for _, h := range Houses {
		g[h] = 0
	}
	return g
}

func zeroDispositions() map[string]float64 {
	d := make(map[string]float64, len(DispositionKeys))
	for _, k := range DispositionKeys {
		d[k] = 0
	}
	return d
}

// NewState returns the initial play-through state with every group at 0.
func NewState() *State {
	return &State{
		Traits:       zeroHouseScores(),
		Relationship: zeroHouseScores(),
		ItemAffinity: zeroHouseScores(),
		Preference:   zeroHouseScores(),
		Dispositions: zeroDispositions(),
		Flags:        map[string]bool{},
	}
}

func (g HouseScores) clone() HouseScores {
	if g == nil {
		return nil
	}
	out := make(HouseScores, len(g))
	for h, v := range g {
		out[h] = v
	}
	return out
}

// Clone returns a structural deep copy that shares no mutable data with
// the receiver. Snapshots and final-result copies rely on this.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Traits = s.Traits.clone()
	out.Relationship = s.Relationship.clone()
	out.ItemAffinity = s.ItemAffinity.clone()
	out.Preference = s.Preference.clone()
	if s.Dispositions != nil {
		out.Dispositions = make(map[string]float64, len(s.Dispositions))
		for k, v := range s.Dispositions {
			out.Dispositions[k] = v
		}
	}
	if s.Flags != nil {
		out.Flags = make(map[string]bool, len(s.Flags))
		for k, v := range s.Flags {
			out.Flags[k] = v
		}
	}
	out.KeyMoments = append([]string(nil), s.KeyMoments...)
	out.SelectionHistory = append([]SelectionRecord(nil), s.SelectionHistory...)
	for i := range out.SelectionHistory {
		out.SelectionHistory[i].Tags = append([]string(nil), out.SelectionHistory[i].Tags...)
	}
	out.Transcript = append([]TranscriptEntry(nil), s.Transcript...)
	if s.FollowupAnswer != nil {
		fa := *s.FollowupAnswer
		out.FollowupAnswer = &fa
	}
	if s.FinalResult != nil {
		fr := *s.FinalResult
		fr.Scores = s.FinalResult.Scores.clone()
		fr.Ranked = append([]RankedHouse(nil), s.FinalResult.Ranked...)
		fr.KeyMoments = append([]string(nil), s.FinalResult.KeyMoments...)
		out.FinalResult = &fr
	}
	return &out
}
