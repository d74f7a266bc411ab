package game

// Group scores are clamped to this inclusive range after every mutation.
const (
	MinScore = -5.0
	MaxScore = 5.0
)

// maxKeyMoments bounds the key-moment log; older entries are evicted
// from the front once the bound is exceeded.
const maxKeyMoments = 5

func clampScore(v float64) float64 {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

func applyGroup(group HouseScores, deltas HouseScores) {
	for h, d := range deltas {
		if !validHouse(h) {
			continue
		}
		group[h] = clampScore(group[h] + d)
	}
}

// ApplyEffects merges an effect bundle into the state in place: each
// group delta is added and clamped, flags are shallow-merged with the
// bundle winning on collision, and a key moment (if any) is appended and
// the log trimmed to its bound. Unknown house or disposition keys are
// skipped; scene validation catches them at load time.
func ApplyEffects(st *State, eff EffectBundle) {
	applyGroup(st.Traits, eff.Traits)
	applyGroup(st.Relationship, eff.Relationship)
	applyGroup(st.ItemAffinity, eff.ItemAffinity)
	applyGroup(st.Preference, eff.Preference)

	for k, d := range eff.Dispositions {
		if !knownDisposition[k] {
			continue
		}
		st.Dispositions[k] = clampScore(st.Dispositions[k] + d)
	}

	for k, v := range eff.Flags {
		st.Flags[k] = v
	}

	if eff.KeyMoment != "" {
		st.KeyMoments = append(st.KeyMoments, eff.KeyMoment)
		if n := len(st.KeyMoments) - maxKeyMoments; n > 0 {
			st.KeyMoments = append([]string(nil), st.KeyMoments[n:]...)
		}
	}
}

func addInto(base, extra HouseScores) HouseScores {
	if len(extra) == 0 {
		return base.clone()
	}
	out := base.clone()
	if out == nil {
		out = HouseScores{}
	}
	for h, v := range extra {
		out[h] += v
	}
	return out
}

// MergeBundles combines two effect bundles: numeric deltas sum, flags
// merge with extra winning, and extra's key moment replaces base's.
func MergeBundles(base, extra EffectBundle) EffectBundle {
	out := EffectBundle{
		Traits:       addInto(base.Traits, extra.Traits),
		Relationship: addInto(base.Relationship, extra.Relationship),
		ItemAffinity: addInto(base.ItemAffinity, extra.ItemAffinity),
		Preference:   addInto(base.Preference, extra.Preference),
		KeyMoment:    base.KeyMoment,
	}
	if len(base.Dispositions) > 0 || len(extra.Dispositions) > 0 {
		out.Dispositions = make(map[string]float64, len(base.Dispositions)+len(extra.Dispositions))
		for k, v := range base.Dispositions {
			out.Dispositions[k] = v
		}
		for k, v := range extra.Dispositions {
			out.Dispositions[k] += v
		}
	}
	if len(base.Flags) > 0 || len(extra.Flags) > 0 {
		out.Flags = make(map[string]bool, len(base.Flags)+len(extra.Flags))
		for k, v := range base.Flags {
			out.Flags[k] = v
		}
		for k, v := range extra.Flags {
			out.Flags[k] = v
		}
	}
	if extra.KeyMoment != "" {
		out.KeyMoment = extra.KeyMoment
	}
	return out
}
