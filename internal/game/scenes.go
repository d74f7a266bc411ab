package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SceneSet holds the ordered scene graph and an id index.
type SceneSet struct {
	Scenes []*Scene `yaml:"scenes"`

	index map[string]int
}

// NewSceneSet builds a set from scenes in play order.
func NewSceneSet(scenes []*Scene) *SceneSet {
	s := &SceneSet{Scenes: scenes}
	s.buildIndex()
	return s
}

// LoadScenes loads a scene set from a YAML file.
func LoadScenes(path string) (*SceneSet, error) {
	cleanPath := filepath.Clean(path)
	b, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, err
	}
	var s SceneSet
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse scenes: %w", err)
	}
	s.buildIndex()
	return &s, nil
}

func (s *SceneSet) buildIndex() {
	s.index = make(map[string]int, len(s.Scenes))
	for i, sc := range s.Scenes {
		if _, dup := s.index[sc.ID]; !dup {
			s.index[sc.ID] = i
		}
	}
}

// Len returns the number of scenes in play order.
func (s *SceneSet) Len() int { return len(s.Scenes) }

// At returns the scene at ordinal position i, or nil when out of range.
func (s *SceneSet) At(i int) *Scene {
	if i < 0 || i >= len(s.Scenes) {
		return nil
	}
	return s.Scenes[i]
}

// Index returns the ordinal position of the scene with the given id, or
// -1 when no such scene exists.
func (s *SceneSet) Index(id string) int {
	if i, ok := s.index[id]; ok {
		return i
	}
	return -1
}

// ByID returns the scene with the given id, or nil.
func (s *SceneSet) ByID(id string) *Scene {
	i := s.Index(id)
	if i < 0 {
		return nil
	}
	return s.Scenes[i]
}

// Validate checks scene graph integrity: duplicate scene or choice ids,
// choices pointing at scenes that do not exist, and effect deltas keyed
// by unknown houses or dispositions. Content defects are authoring
// errors; run this at load time, not on the play path.
func (s *SceneSet) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(s.Scenes))
	for _, sc := range s.Scenes {
		if sc.ID == "" {
			errs = append(errs, errors.New("scene with empty id"))
			continue
		}
		if seen[sc.ID] {
			errs = append(errs, fmt.Errorf("duplicate scene id %q", sc.ID))
		}
		seen[sc.ID] = true
	}
	for _, sc := range s.Scenes {
		choiceIDs := make(map[string]bool, len(sc.Choices))
		for i := range sc.Choices {
			ch := &sc.Choices[i]
			if ch.ID == "" {
				errs = append(errs, fmt.Errorf("scene %q: choice with empty id", sc.ID))
			}
			if choiceIDs[ch.ID] {
				errs = append(errs, fmt.Errorf("scene %q: duplicate choice id %q", sc.ID, ch.ID))
			}
			choiceIDs[ch.ID] = true
			if ch.Next != "" && s.Index(ch.Next) < 0 {
				errs = append(errs, fmt.Errorf("scene %q: choice %q points at missing scene %q", sc.ID, ch.ID, ch.Next))
			}
			errs = append(errs, validateBundle(sc.ID, ch.ID, ch.Effects)...)
		}
	}
	return errors.Join(errs...)
}

func validateBundle(sceneID, choiceID string, eff EffectBundle) []error {
	var errs []error
	for name, group := range map[string]HouseScores{
		"traits":       eff.Traits,
		"relationship": eff.Relationship,
		"item":         eff.ItemAffinity,
		"preference":   eff.Preference,
	} {
		for h := range group {
			if !validHouse(h) {
				errs = append(errs, fmt.Errorf("scene %q: choice %q: unknown house %q in %s", sceneID, choiceID, h, name))
			}
		}
	}
	for k := range eff.Dispositions {
		if !knownDisposition[k] {
			errs = append(errs, fmt.Errorf("scene %q: choice %q: unknown disposition %q", sceneID, choiceID, k))
		}
	}
	return errs
}

// Per-tag contribution weights for generated choices, which carry tags
// instead of full effect bundles.
const (
	tagTraitDelta        = 0.8
	tagRelationshipDelta = 0.2
	tagDispositionDelta  = 0.6
)

var tagDispositions = map[string]string{
	"REALISTIC":     "realistic",
	"IDEALISTIC":    "idealistic",
	"INDIVIDUAL":    "individual",
	"COOPERATIVE":   "cooperative",
	"CHALLENGING":   "challenging",
	"STABLE":        "stable",
	"SELF_DIRECTED": "selfDirected",
	"PASSIVE":       "passive",
	"SHORT_TERM":    "shortTerm",
	"LONG_TERM":     "longTerm",
	"SPONTANEOUS":   "spontaneous",
	"DELIBERATE":    "deliberate",
}

// TagEffects converts a choice's tag list into an effect bundle. A house
// tag nudges that house's traits and relationship scores; a disposition
// tag nudges the named disposition. Unrecognized tags are skipped.
func TagEffects(tags []string) EffectBundle {
	var eff EffectBundle
	for _, tag := range tags {
		if validHouse(House(tag)) {
			h := House(tag)
			if eff.Traits == nil {
				eff.Traits = HouseScores{}
			}
			if eff.Relationship == nil {
				eff.Relationship = HouseScores{}
			}
			eff.Traits[h] += tagTraitDelta
			eff.Relationship[h] += tagRelationshipDelta
		}
		if d, ok := tagDispositions[tag]; ok {
			if eff.Dispositions == nil {
				eff.Dispositions = map[string]float64{}
			}
			eff.Dispositions[d] += tagDispositionDelta
		}
	}
	return eff
}
