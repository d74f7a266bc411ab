package game

import "math"

// Sorting weights. Traits dominate; the other three groups contribute
// equally.
const (
	WeightTraits       = 0.6
	WeightRelationship = 0.2
	WeightItemAffinity = 0.2
	WeightPreference   = 0.2
)

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// CalculateScores computes the weighted sorting score per house, rounded
// to three decimals. Pure: same state in, same scores out.
func CalculateScores(st *State) HouseScores {
	scores := make(HouseScores, len(Houses))
	for _, h := range Houses {
		scores[h] = round3(
			WeightTraits*st.Traits[h] +
				WeightRelationship*st.Relationship[h] +
				WeightItemAffinity*st.ItemAffinity[h] +
				WeightPreference*st.Preference[h])
	}
	return scores
}
