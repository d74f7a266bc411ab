package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// FollowupThreshold is the minimum gap between the top two house scores
// below which the terminal scene must ask a disambiguating question.
const FollowupThreshold = 0.75

// followupBonus is added to the chosen house's preference score when the
// player answers the tie-break question.
const followupBonus = 0.8

const (
	maxSelectionHistory = 6
	finalKeyMoments     = 3
)

var (
	// ErrFinished is returned when an operation requires an unfinished
	// play-through.
	ErrFinished = errors.New("play-through is finished")
	// ErrNoScene is returned when the scene cursor points past the end
	// of the scene order.
	ErrNoScene = errors.New("no current scene")
	// ErrChoiceUnavailable is returned when a choice's flag precondition
	// is not met by the current state.
	ErrChoiceUnavailable = errors.New("choice not available")
	// ErrNoSuchScene is returned when a choice designates a successor
	// scene that does not exist.
	ErrNoSuchScene = errors.New("no such scene")
)

// PendingFollowup binds the tie-break question's answer options, in
// order, to the leading houses. It exists only between tie detection and
// the player's answer.
type PendingFollowup struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Houses   []House  `json:"houses"`
}

// Assessment is a side-effect-free sorting report: current scores, the
// full ranking, and whether a follow-up question is required.
type Assessment struct {
	Scores        HouseScores
	Ranked        []RankedHouse
	Top           RankedHouse
	Second        RankedHouse
	NeedsFollowup bool
}

// snapshot is an immutable copy of everything Undo must restore.
type snapshot struct {
	state          *State
	sceneIndex     int
	pending        *PendingFollowup
	characterReady bool
}

// Engine owns one play-through: the mutable state, the scene cursor, the
// undo history, and the tie-break gate. Operations are synchronous and
// not safe for concurrent callers; serialize access externally.
type Engine struct {
	scenes         *SceneSet
	state          *State
	sceneIndex     int
	history        []snapshot
	pending        *PendingFollowup
	characterReady bool
}

// NewEngine creates an engine at the first scene with a fresh state.
func NewEngine(scenes *SceneSet) *Engine {
	return &Engine{scenes: scenes, state: NewState()}
}

// Reset discards all progress and returns the id of the first scene.
func (e *Engine) Reset() string {
	e.state = NewState()
	e.sceneIndex = 0
	e.history = nil
	e.pending = nil
	e.characterReady = false
	return e.CurrentSceneID()
}

// State exposes the live play-through state for rendering and summaries.
// Callers must not mutate it; all mutation goes through engine
// operations.
func (e *Engine) State() *State { return e.state }

// Scenes returns the scene set the engine plays.
func (e *Engine) Scenes() *SceneSet { return e.scenes }

// SceneIndex returns the ordinal position of the scene cursor.
func (e *Engine) SceneIndex() int { return e.sceneIndex }

// CurrentScene returns the scene under the cursor, or nil when the
// sequence is exhausted.
func (e *Engine) CurrentScene() *Scene {
	return e.scenes.At(e.sceneIndex)
}

// CurrentSceneID returns the current scene id, or "" when the sequence
// is exhausted.
func (e *Engine) CurrentSceneID() string {
	if sc := e.CurrentScene(); sc != nil {
		return sc.ID
	}
	return ""
}

// PendingFollowup returns the unanswered tie-break question, if any.
func (e *Engine) PendingFollowup() *PendingFollowup { return e.pending }

// SetCharacter stores the player's profile, trimming each field.
func (e *Engine) SetCharacter(c Character) {
	e.state.Character = Character{
		Name:        strings.TrimSpace(c.Name),
		Gender:      strings.TrimSpace(c.Gender),
		Nationality: strings.TrimSpace(c.Nationality),
		Heritage:    strings.TrimSpace(c.Heritage),
		Family:      strings.TrimSpace(c.Family),
	}
}

// SetAbilities stores the rolled ability spread.
func (e *Engine) SetAbilities(a Abilities) {
	e.state.Abilities = a
}

// MarkCharacterReady records that the player confirmed the profile.
func (e *Engine) MarkCharacterReady() { e.characterReady = true }

// CharacterReady reports whether play may begin: the profile is complete
// and the player confirmed it.
func (e *Engine) CharacterReady() bool {
	return e.characterReady && e.state.Character.Complete()
}

func (e *Engine) takeSnapshot() snapshot {
	var pending *PendingFollowup
	if e.pending != nil {
		p := *e.pending
		p.Options = append([]string(nil), e.pending.Options...)
		p.Houses = append([]House(nil), e.pending.Houses...)
		pending = &p
	}
	return snapshot{
		state:          e.state.Clone(),
		sceneIndex:     e.sceneIndex,
		pending:        pending,
		characterReady: e.characterReady,
	}
}

func (e *Engine) restore(s snapshot) {
	e.state = s.state
	e.sceneIndex = s.sceneIndex
	e.pending = s.pending
	e.characterReady = s.characterReady
}

// Undo restores the state, cursor, and pending follow-up from the most
// recent snapshot. It returns the restored scene id and true, or false
// when there is nothing to undo; a failed undo changes nothing. A
// finalized play-through cannot be undone, only reset: the final result
// is never un-set.
func (e *Engine) Undo() (string, bool) {
	if e.state.FinalResult != nil {
		return "", false
	}
	if len(e.history) == 0 {
		return "", false
	}
	last := e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]
	e.restore(last)
	return e.CurrentSceneID(), true
}

// ApplyChoice applies one choice at the current scene: it pushes an undo
// snapshot, merges the choice's tag and authored effects into the state,
// records the selection and transcript, and advances the cursor to the
// designated successor (or the next scene in order). It returns the new
// scene id, or "" once the sequence is exhausted. The destination is
// resolved before any mutation, so a dangling successor id leaves the
// engine untouched.
func (e *Engine) ApplyChoice(choice Choice, narration, playerInput string) (string, error) {
	if e.IsFinished() {
		return "", ErrFinished
	}
	scene := e.CurrentScene()
	if scene == nil {
		return "", ErrNoScene
	}
	if !choice.Available(e.state.Flags) {
		return "", fmt.Errorf("%w: %s", ErrChoiceUnavailable, choice.ID)
	}

	nextIndex := e.sceneIndex + 1
	if choice.Next != "" {
		idx := e.scenes.Index(choice.Next)
		if idx < 0 {
			return "", fmt.Errorf("%w: %s", ErrNoSuchScene, choice.Next)
		}
		nextIndex = idx
	}

	e.history = append(e.history, e.takeSnapshot())

	eff := MergeBundles(TagEffects(choice.Tags), choice.Effects)
	ApplyEffects(e.state, eff)

	e.state.SelectionHistory = append(e.state.SelectionHistory, SelectionRecord{
		SceneID:  scene.ID,
		ChoiceID: choice.ID,
		Label:    choice.Label,
		Tags:     append([]string(nil), choice.Tags...),
	})
	if n := len(e.state.SelectionHistory) - maxSelectionHistory; n > 0 {
		e.state.SelectionHistory = append([]SelectionRecord(nil), e.state.SelectionHistory[n:]...)
	}

	e.state.Transcript = append(e.state.Transcript, TranscriptEntry{
		SceneID:     scene.ID,
		Narration:   narration,
		Choice:      choice.Label,
		PlayerInput: playerInput,
	})

	e.pending = nil
	e.sceneIndex = nextIndex
	return e.CurrentSceneID(), nil
}

func rankScores(scores HouseScores) []RankedHouse {
	ranked := make([]RankedHouse, 0, len(Houses))
	for _, h := range Houses {
		ranked = append(ranked, RankedHouse{House: h, Score: scores[h]})
	}
	// Stable sort over declaration order keeps ties deterministic.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Assessment computes the current sorting picture without side effects.
// Calling it repeatedly without intervening mutation yields identical
// results.
func (e *Engine) Assessment() Assessment {
	scores := CalculateScores(e.state)
	ranked := rankScores(scores)
	top, second := ranked[0], ranked[1]
	return Assessment{
		Scores:        scores,
		Ranked:        ranked,
		Top:           top,
		Second:        second,
		NeedsFollowup: top.Score-second.Score < FollowupThreshold,
	}
}

// PrepareFollowup arms the tie-break question, binding each answer
// option in order to the equally-ranked leading houses. Options beyond
// the number of ranked houses are dropped. It reports whether a
// follow-up is now pending; when the assessment shows no tie there is
// nothing to prepare.
func (e *Engine) PrepareFollowup(f *Followup) bool {
	if f == nil || len(f.Options) == 0 {
		return false
	}
	a := e.Assessment()
	if !a.NeedsFollowup {
		return false
	}
	n := len(f.Options)
	if n > len(a.Ranked) {
		n = len(a.Ranked)
	}
	houses := make([]House, n)
	for i := 0; i < n; i++ {
		houses[i] = a.Ranked[i].House
	}
	e.pending = &PendingFollowup{
		Question: f.Question,
		Options:  append([]string(nil), f.Options[:n]...),
		Houses:   houses,
	}
	return true
}

// ApplyFollowupSelection answers the pending tie-break question: the
// bound house gains the preference bonus (clamped), the answer is
// recorded, and sorting is finalized. With no pending question, or an
// out-of-range option index, it is a pure no-op returning false.
func (e *Engine) ApplyFollowupSelection(optionIndex int) (*FinalResult, bool) {
	if e.pending == nil {
		return nil, false
	}
	if optionIndex < 0 || optionIndex >= len(e.pending.Houses) {
		return nil, false
	}
	h := e.pending.Houses[optionIndex]
	e.state.Preference[h] = clampScore(e.state.Preference[h] + followupBonus)
	e.state.FollowupAnswer = &FollowupAnswer{House: h, OptionIndex: optionIndex}
	e.pending = nil
	return e.FinalizeSorting(), true
}

// FinalizeSorting computes the final ranking and records the winner plus
// a snapshot of the most recent key moments. Re-finalizing recomputes
// the result deterministically from current scores.
func (e *Engine) FinalizeSorting() *FinalResult {
	scores := CalculateScores(e.state)
	ranked := rankScores(scores)
	start := len(e.state.KeyMoments) - finalKeyMoments
	if start < 0 {
		start = 0
	}
	e.state.FinalResult = &FinalResult{
		House:      ranked[0].House,
		Scores:     scores,
		Ranked:     ranked,
		KeyMoments: append([]string(nil), e.state.KeyMoments[start:]...),
	}
	return e.state.FinalResult
}

// IsFinished reports whether the play-through is over: the cursor has
// run past the last scene or a final result is set.
func (e *Engine) IsFinished() bool {
	return e.sceneIndex >= e.scenes.Len() || e.state.FinalResult != nil
}

var dispositionCodes = []struct {
	key  string
	code string
}{
	{"realistic", "RLS"},
	{"idealistic", "IDS"},
	{"individual", "IND"},
	{"cooperative", "COO"},
	{"challenging", "CHL"},
	{"stable", "STB"},
	{"selfDirected", "SDF"},
	{"passive", "PSV"},
	{"shortTerm", "SHT"},
	{"longTerm", "LNG"},
	{"spontaneous", "SPN"},
	{"deliberate", "DLB"},
}

const summaryLimit = 380

func formatGroup(name string, g HouseScores) string {
	parts := make([]string, 0, len(Houses))
	for _, h := range Houses {
		parts = append(parts, fmt.Sprintf("%s%.1f", h, g[h]))
	}
	return name + ":" + strings.Join(parts, ",")
}

// SummaryForContext renders a compact, bounded summary of the state for
// the narration generator's prompt.
func (e *Engine) SummaryForContext() string {
	var pieces []string
	ch := e.state.Character
	if ch.Name != "" {
		pieces = append(pieces, fmt.Sprintf("char:%s/%s/%s/%s/%s",
			ch.Name, ch.Gender, ch.Nationality, ch.Heritage, ch.Family))
	}
	ab := e.state.Abilities
	pieces = append(pieces, fmt.Sprintf("abilities:v%d,m%d,i%d,a%d,r%d,c%d",
		ab.Vitality, ab.Mana, ab.Intellect, ab.Agility, ab.Resilience, ab.Charm))
	pieces = append(pieces,
		formatGroup("traits", e.state.Traits),
		formatGroup("rel", e.state.Relationship),
		formatGroup("item", e.state.ItemAffinity),
		formatGroup("pref", e.state.Preference))
	disp := make([]string, 0, len(dispositionCodes))
	for _, dc := range dispositionCodes {
		disp = append(disp, fmt.Sprintf("%s%.1f", dc.code, e.state.Dispositions[dc.key]))
	}
	pieces = append(pieces, "disp:"+strings.Join(disp, ","))
	if e.state.FollowupAnswer != nil {
		pieces = append(pieces, "followup:"+string(e.state.FollowupAnswer.House))
	}

	recent := e.state.SelectionHistory
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	hist := make([]string, 0, len(recent))
	for _, r := range recent {
		hist = append(hist, r.SceneID+":"+r.ChoiceID)
	}

	summary := strings.Join(pieces, " | ") + " || history:" + strings.Join(hist, ", ")
	if len(summary) > summaryLimit {
		// Character fields are free text; cut on a rune boundary.
		cut := summaryLimit
		for cut > 0 && !utf8.RuneStart(summary[cut]) {
			cut--
		}
		summary = summary[:cut]
	}
	return summary
}
