package scoring

// Default score bounds for kyykka.
const (
	// SingleThrowMin: every kyykka knocked back in over the line as papit.
	DefaultSingleThrowMin = -40
	// SingleThrowMax: every kyykka thrown out of the square.
	DefaultSingleThrowMax = 80
	// RoundScoreMin: 40 kyykkas left standing, 2 points each.
	DefaultRoundScoreMin = -80
	// RoundScoreMax: one throw clears the square, plus 1 point for an
	// unused throw on a personal field.
	DefaultRoundScoreMax = 19

	DefaultUnusedThrowScore = 1
)

// Rules carries the configurable scoring policy: classification bounds,
// aggregate round-score bounds, the score recorded for an unused throw,
// and whether team scores are derived from throws instead of taken from
// the submitted score fields.
type Rules struct {
	SingleThrowMin int
	SingleThrowMax int
	RoundScoreMin  int
	RoundScoreMax  int

	UnusedThrowScore int
	DeriveTeamScores bool
}

func DefaultRules() Rules {
	return Rules{
		SingleThrowMin:   DefaultSingleThrowMin,
		SingleThrowMax:   DefaultSingleThrowMax,
		RoundScoreMin:    DefaultRoundScoreMin,
		RoundScoreMax:    DefaultRoundScoreMax,
		UnusedThrowScore: DefaultUnusedThrowScore,
	}
}

func (r Rules) ValidThrowScore(v int) bool {
	return v >= r.SingleThrowMin && v <= r.SingleThrowMax
}

func (r Rules) ValidRoundScore(v int) bool {
	return v >= r.RoundScoreMin && v <= r.RoundScoreMax
}
