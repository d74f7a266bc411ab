package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

// savedGame is the on-disk shape of a play-through. The undo history is
// deliberately excluded: a reloaded game starts with an empty stack.
// CharacterReady is a pointer so saves written before the field existed
// stay distinguishable from an explicit false.
type savedGame struct {
	State           *State           `json:"state"`
	SceneIndex      int              `json:"sceneIndex"`
	PendingFollowup *PendingFollowup `json:"pendingFollowup,omitempty"`
	CharacterReady  *bool            `json:"characterReady,omitempty"`
}

// Serialize captures the state, scene cursor, and pending follow-up as a
// JSON blob.
func (e *Engine) Serialize() (string, error) {
	ready := e.characterReady
	b, err := json.Marshal(savedGame{
		State:           e.state,
		SceneIndex:      e.sceneIndex,
		PendingFollowup: e.pending,
		CharacterReady:  &ready,
	})
	if err != nil {
		return "", fmt.Errorf("encode save: %w", err)
	}
	return string(b), nil
}

// Load restores a play-through from a serialized blob. Groups or fields
// introduced after the blob was written are backfilled with zeros so
// older saves stay loadable. A structurally invalid blob (bad JSON,
// missing state) returns an error and leaves the engine untouched. The
// undo history is always reset.
func (e *Engine) Load(blob string) error {
	var sv savedGame
	if err := json.Unmarshal([]byte(blob), &sv); err != nil {
		return fmt.Errorf("decode save: %w", err)
	}
	if sv.State == nil {
		return errors.New("save missing state")
	}
	normalizeState(sv.State)

	e.state = sv.State
	e.sceneIndex = sv.SceneIndex
	e.pending = sv.PendingFollowup
	if sv.CharacterReady != nil {
		e.characterReady = *sv.CharacterReady
	} else {
		// Saves from before the flag existed: a named character was the
		// old readiness signal.
		e.characterReady = sv.State.Character.Name != ""
	}
	e.history = nil
	return nil
}

func backfillGroup(g HouseScores) HouseScores {
	if g == nil {
		g = make(HouseScores, len(Houses))
	}
	for _, h := range Houses {
		if _, ok := g[h]; !ok {
			g[h] = 0
		}
	}
	return g
}

// normalizeState backfills every group and collection a newer engine
// expects, and re-establishes the size bounds on the bounded logs.
func normalizeState(st *State) {
	st.Traits = backfillGroup(st.Traits)
	st.Relationship = backfillGroup(st.Relationship)
	st.ItemAffinity = backfillGroup(st.ItemAffinity)
	st.Preference = backfillGroup(st.Preference)

	if st.Dispositions == nil {
		st.Dispositions = make(map[string]float64, len(DispositionKeys))
	}
	for _, k := range DispositionKeys {
		if _, ok := st.Dispositions[k]; !ok {
			st.Dispositions[k] = 0
		}
	}

	if st.Flags == nil {
		st.Flags = map[string]bool{}
	}
	if n := len(st.KeyMoments) - maxKeyMoments; n > 0 {
		st.KeyMoments = st.KeyMoments[n:]
	}
	if n := len(st.SelectionHistory) - maxSelectionHistory; n > 0 {
		st.SelectionHistory = st.SelectionHistory[n:]
	}
}
