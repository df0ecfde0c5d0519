// Package rank grades a score into an E..SS letter. Special cases run as an
// ordered rule list ahead of the threshold table so precedence stays visible.
package rank

type Letter string

const (
	SS            Letter = "SS"
	S             Letter = "S"
	A             Letter = "A"
	B             Letter = "B"
	C             Letter = "C"
	D             Letter = "D"
	E             Letter = "E"
	NotEnoughData Letter = "N/A"
)

// PoisonedPairLosses is the loss count on a single pair that forces rank E.
const PoisonedPairLosses = 3

var colors = map[Letter]string{
	SS:            "rainbow",
	S:             "gold",
	A:             "purple",
	B:             "blue",
	C:             "green",
	D:             "orange",
	E:             "red",
	NotEnoughData: "gray",
}

type Rank struct {
	Letter Letter `json:"letter"`
	Color  string `json:"color"`
	Rule   string `json:"rule"`
}

func newRank(l Letter, rule string) Rank {
	return Rank{Letter: l, Color: colors[l], Rule: rule}
}

type Step struct {
	Min    float64
	Letter Letter
}

// Table is checked top to bottom; the first Min the score reaches wins.
type Table []Step

// WinRateTable grades a win-rate percentage.
var WinRateTable = Table{
	{90, SS}, {80, S}, {70, A}, {60, B}, {50, C}, {40, D},
}

// SkillTable grades an average discipline rating on the 0-5 scale.
var SkillTable = Table{
	{4.5, SS}, {4.0, S}, {3.5, A}, {3.0, B}, {2.5, C}, {2.0, D},
}

func (t Table) Lookup(score float64) Letter {
	for _, s := range t {
		if score >= s.Min {
			return s.Letter
		}
	}
	return E
}

type Input struct {
	Score        float64
	Samples      int
	LossesByPair map[string]int
}

type Rule struct {
	Name    string
	Applies func(Input) bool
	Result  func(Input) Letter
}

type Classifier struct {
	rules []Rule
}

// NewClassifier builds the rule chain: poisoned pair, minimum sample, table.
func NewClassifier(table Table, minSamples int) *Classifier {
	return &Classifier{rules: []Rule{
		{
			Name:    "poisoned-pair",
			Applies: hasPoisonedPair,
			Result:  func(Input) Letter { return E },
		},
		{
			Name:    "min-sample",
			Applies: func(in Input) bool { return in.Samples < minSamples },
			Result:  func(Input) Letter { return NotEnoughData },
		},
		{
			Name:    "threshold",
			Applies: func(Input) bool { return true },
			Result:  func(in Input) Letter { return table.Lookup(in.Score) },
		},
	}}
}

func (c *Classifier) Rules() []Rule {
	return c.rules
}

func (c *Classifier) Classify(in Input) Rank {
	for _, r := range c.rules {
		if r.Applies(in) {
			return newRank(r.Result(in), r.Name)
		}
	}
	return newRank(E, "default")
}

func hasPoisonedPair(in Input) bool {
	for _, n := range in.LossesByPair {
		if n >= PoisonedPairLosses {
			return true
		}
	}
	return false
}
