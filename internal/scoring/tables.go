package scoring

// Risk levels (H&S and Quality registers).
const (
	LevelLow      = "LOW"
	LevelMedium   = "MEDIUM"
	LevelHigh     = "HIGH"
	LevelCritical = "CRITICAL"
)

// Aspect significance levels (Environmental register).
const (
	SignificanceLow         = "LOW"
	SignificanceModerate    = "MODERATE"
	SignificanceSignificant = "SIGNIFICANT"
)

// DefaultRiskTable returns the risk bands.
func DefaultRiskTable() Table {
	return Table{Name: "risk", Bands: []Band{
		{Level: LevelLow, Min: 1, Max: 8},
		{Level: LevelMedium, Min: 9, Max: 27},
		{Level: LevelHigh, Min: 28, Max: 64},
		{Level: LevelCritical, Min: 65, Max: 125},
	}}
}

// DefaultAspectTable returns the significance bands. SIGNIFICANT starts at
// 4*4*4, MODERATE at one above 3*3*3.
func DefaultAspectTable() Table {
	return Table{Name: "aspect", Bands: []Band{
		{Level: SignificanceLow, Min: 1, Max: 27},
		{Level: SignificanceModerate, Min: 28, Max: 63},
		{Level: SignificanceSignificant, Min: 64, Max: 125},
	}}
}

// Scorers pairs the two independently configured scorers.
type Scorers struct {
	Risk   *OrdinalScorer
	Aspect *OrdinalScorer
}

func DefaultScorers() Scorers {
	return Scorers{
		Risk:   MustOrdinalScorer(DefaultRiskTable()),
		Aspect: MustOrdinalScorer(DefaultAspectTable()),
	}
}

var defaults = DefaultScorers()

// ScoreRisk scores likelihood, severity and detectability with the default
// risk table.
func ScoreRisk(likelihood, severity, detectability int) Result {
	return defaults.Risk.Score(likelihood, severity, detectability)
}

// ScoreAspect scores likelihood, severity and frequency with the default
// significance table.
func ScoreAspect(likelihood, severity, frequency int) Result {
	return defaults.Aspect.Score(likelihood, severity, frequency)
}
