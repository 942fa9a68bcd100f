package scoring

// Throw layout constants shared by every game type: two throwers per team
// per round, two consecutive throws each.
const (
	SlotsPerRound = 2
	ThrowsPerSlot = 2
	// ThrowsPerTeamRound is one team's share of a round.
	ThrowsPerTeamRound = SlotsPerRound * ThrowsPerSlot
	// throwsPerGameRound covers both teams.
	throwsPerGameRound = 2 * ThrowsPerTeamRound
)

// Rotation resolves, for a game type's configuration, which player throws
// at a given round/slot and the canonical 1-based index of each throw
// within the game. It is pure and deterministic.
type Rotation struct {
	PlayersPerTeam int
	RoundsPerSet   int
	SetCount       int
}

// PlayerIndex returns the 0-based roster index of the player throwing at
// the given 1-based round and slot (1 or 2).
//
// Four or more players rotate in pairs, switching pairs every two rounds.
// Two-player teams alternate the lead thrower each round. Personal-league
// entries always resolve to the single player.
func (r Rotation) PlayerIndex(round, slot int) int {
	if r.PlayersPerTeam <= 1 {
		return 0
	}
	if r.PlayersPerTeam == 2 {
		lead := (round - 1) % 2
		return (lead + slot - 1) % 2
	}
	pairs := r.PlayersPerTeam / SlotsPerRound
	pair := ((round - 1) / 2) % pairs
	return (pair*SlotsPerRound + slot - 1) % r.PlayersPerTeam
}

// ThrowIndex returns the canonical 1-based index of one throw within the
// whole game. throwNum is the throw's 1-based position within the team's
// round (1..4). The home side occupies the first half of each round's
// index block, the away side the second.
func (r Rotation) ThrowIndex(set, round int, homeTeam bool, throwNum int) int {
	base := (set-1)*r.throwsPerSet() + (round-1)*throwsPerGameRound
	teamOffset := 0
	if !homeTeam {
		teamOffset = throwsPerGameRound / 2
	}
	return base + teamOffset + (throwNum - 1) + 1
}

// SlotForThrow maps a throw's position within a team round (1..4) to the
// slot (1 or 2) of the player who throws it.
func SlotForThrow(throwNum int) int {
	return (throwNum-1)/ThrowsPerSlot + 1
}

// MaxThrowIndex is the highest canonical index a game can produce.
func (r Rotation) MaxThrowIndex() int {
	return r.SetCount * r.throwsPerSet()
}

func (r Rotation) throwsPerSet() int {
	return r.RoundsPerSet * throwsPerGameRound
}
