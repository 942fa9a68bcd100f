package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayerIndexFourPlayers(t *testing.T) {
	r := Rotation{PlayersPerTeam: 4, RoundsPerSet: 2, SetCount: 2}

	// Pairs switch every two rounds: 0,1 then 2,3 then 0,1 again.
	tests := []struct {
		round, slot, want int
	}{
		{1, 1, 0}, {1, 2, 1},
		{2, 1, 0}, {2, 2, 1},
		{3, 1, 2}, {3, 2, 3},
		{4, 1, 2}, {4, 2, 3},
		{5, 1, 0}, {5, 2, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.PlayerIndex(tt.round, tt.slot),
			"round %d slot %d", tt.round, tt.slot)
	}
}

func TestPlayerIndexTwoPlayersAlternatesLead(t *testing.T) {
	r := Rotation{PlayersPerTeam: 2, RoundsPerSet: 2, SetCount: 2}

	assert.Equal(t, 0, r.PlayerIndex(1, 1))
	assert.Equal(t, 1, r.PlayerIndex(1, 2))
	assert.Equal(t, 1, r.PlayerIndex(2, 1))
	assert.Equal(t, 0, r.PlayerIndex(2, 2))
	assert.Equal(t, 0, r.PlayerIndex(3, 1))
}

func TestPlayerIndexPersonalLeague(t *testing.T) {
	r := Rotation{PlayersPerTeam: 1, RoundsPerSet: 2, SetCount: 2}

	for round := 1; round <= 4; round++ {
		for slot := 1; slot <= 2; slot++ {
			assert.Equal(t, 0, r.PlayerIndex(round, slot))
		}
	}
}

func TestThrowIndexLayout(t *testing.T) {
	r := Rotation{PlayersPerTeam: 4, RoundsPerSet: 2, SetCount: 2}

	// Home side takes the first half of each round block, away the second.
	assert.Equal(t, 1, r.ThrowIndex(1, 1, true, 1))
	assert.Equal(t, 4, r.ThrowIndex(1, 1, true, 4))
	assert.Equal(t, 5, r.ThrowIndex(1, 1, false, 1))
	assert.Equal(t, 8, r.ThrowIndex(1, 1, false, 4))
	assert.Equal(t, 9, r.ThrowIndex(1, 2, true, 1))
	assert.Equal(t, 17, r.ThrowIndex(2, 1, true, 1))
	assert.Equal(t, r.MaxThrowIndex(), r.ThrowIndex(2, 2, false, 4))
}

func TestThrowIndexBijection(t *testing.T) {
	r := Rotation{PlayersPerTeam: 4, RoundsPerSet: 2, SetCount: 2}

	seen := make(map[int]string)
	for set := 1; set <= r.SetCount; set++ {
		for round := 1; round <= r.RoundsPerSet; round++ {
			for _, home := range []bool{true, false} {
				for throwNum := 1; throwNum <= ThrowsPerTeamRound; throwNum++ {
					idx := r.ThrowIndex(set, round, home, throwNum)
					coord := fmt.Sprintf("s%d r%d home=%v t%d", set, round, home, throwNum)
					if prev, dup := seen[idx]; dup {
						t.Fatalf("index %d assigned to both %s and %s", idx, prev, coord)
					}
					seen[idx] = coord
					assert.GreaterOrEqual(t, idx, 1)
					assert.LessOrEqual(t, idx, r.MaxThrowIndex())
				}
			}
		}
	}
	assert.Len(t, seen, r.MaxThrowIndex())
}

func TestSlotForThrow(t *testing.T) {
	assert.Equal(t, 1, SlotForThrow(1))
	assert.Equal(t, 1, SlotForThrow(2))
	assert.Equal(t, 2, SlotForThrow(3))
	assert.Equal(t, 2, SlotForThrow(4))
}
