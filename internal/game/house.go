package game

// House identifies one of the four final outcomes a play-through is
// sorted into. The set is closed; houses are never created at runtime.
type House string

const (
	HouseGryphon House = "G"
	HouseRaven   House = "R"
	HouseHearth  House = "H"
	HouseSerpent House = "S"
)

// Houses lists every house in declaration order. Ranking ties are broken
// by this order, never by map iteration.
var Houses = []House{HouseGryphon, HouseRaven, HouseHearth, HouseSerpent}

// HouseNames maps house keys to display names.
var HouseNames = map[House]string{
	HouseGryphon: "Gryphon",
	HouseRaven:   "Raven",
	HouseHearth:  "Hearth",
	HouseSerpent: "Serpent",
}

func validHouse(h House) bool {
	_, ok := HouseNames[h]
	return ok
}

// DispositionKeys lists the fixed set of disposition axes tracked
// alongside the house groups. Dispositions color narrative summaries but
// do not feed the sorting score.
var DispositionKeys = []string{
	"realistic", "idealistic",
	"individual", "cooperative",
	"challenging", "stable",
	"selfDirected", "passive",
	"shortTerm", "longTerm",
	"spontaneous", "deliberate",
}

var knownDisposition = func() map[string]bool {
	m := make(map[string]bool, len(DispositionKeys))
	for _, k := range DispositionKeys {
		m[k] = true
	}
	return m
}()
