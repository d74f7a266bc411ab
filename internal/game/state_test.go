package game

import (
	"reflect"
	"testing"
)

func TestNewStateInitialized(t *testing.T) {
	st := NewState()
	for name, g := range map[string]HouseScores{
		"traits":       st.Traits,
		"relationship": st.Relationship,
		"itemAffinity": st.ItemAffinity,
		"preference":   st.Preference,
	} {
		if len(g) != len(Houses) {
			t.Errorf("%s missing house keys: %v", name, g)
		}
		for _, h := range Houses {
			if g[h] != 0 {
				t.Errorf("%s[%s] = %v, want 0", name, h, g[h])
			}
		}
	}
	if len(st.Dispositions) != len(DispositionKeys) {
		t.Errorf("Expected %d disposition keys, got %d", len(DispositionKeys), len(st.Dispositions))
	}
	if st.Flags == nil {
		t.Error("Flags map should be initialized")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	st := NewState()
	st.Traits[HouseGryphon] = 1
	st.Flags["seen"] = true
	st.KeyMoments = []string{"moment"}
	st.SelectionHistory = []SelectionRecord{{SceneID: "a", ChoiceID: "b", Tags: []string{"G"}}}
	st.FollowupAnswer = &FollowupAnswer{House: HouseRaven, OptionIndex: 1}

	c := st.Clone()
	if !reflect.DeepEqual(st, c) {
		t.Fatalf("Clone differs:\n%+v\nvs\n%+v", st, c)
	}

	c.Traits[HouseGryphon] = 4
	c.Flags["seen"] = false
	c.KeyMoments[0] = "changed"
	c.SelectionHistory[0].Tags[0] = "S"
	c.FollowupAnswer.House = HouseSerpent

	if st.Traits[HouseGryphon] != 1 {
		t.Error("Clone shares traits map")
	}
	if !st.Flags["seen"] {
		t.Error("Clone shares flags map")
	}
	if st.KeyMoments[0] != "moment" {
		t.Error("Clone shares key-moment slice")
	}
	if st.SelectionHistory[0].Tags[0] != "G" {
		t.Error("Clone shares selection tag slice")
	}
	if st.FollowupAnswer.House != HouseRaven {
		t.Error("Clone shares follow-up answer")
	}
}

func TestCharacterComplete(t *testing.T) {
	full := Character{Name: "a", Gender: "b", Nationality: "c", Heritage: "d", Family: "e"}
	if !full.Complete() {
		t.Error("Fully filled profile should be complete")
	}
	partial := full
	partial.Heritage = ""
	if partial.Complete() {
		t.Error("Profile with a blank field should be incomplete")
	}
	if (Character{}).Complete() {
		t.Error("Empty profile should be incomplete")
	}
}
