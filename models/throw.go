package models

// ThrowType matches the throw_type ENUM in the database.
type ThrowType string

const (
	ThrowValid  ThrowType = "valid"
	ThrowHauki  ThrowType = "hauki"
	ThrowFault  ThrowType = "fault"
	ThrowUnused ThrowType = "unused"
)

// SingleThrow is one physical throw. ThrowIndex is the 1-based canonical
// position of the throw within the whole game.
type SingleThrow struct {
	ID         int       `json:"id" db:"id"`
	ThrowType  ThrowType `json:"throw_type" db:"throw_type"`
	ThrowScore int       `json:"throw_score" db:"throw_score"`
	PlayerID   int       `json:"player_id" db:"player_id"`
	ThrowIndex int       `json:"throw_index" db:"throw_index"`
}

// SingleRoundThrow binds four SingleThrow rows to one slot of the score
// sheet. (game_id, game_set_index, throw_position, home_team) is unique;
// this is the natural key the scoring engine upserts by.
type SingleRoundThrow struct {
	ID            int  `json:"id" db:"id"`
	GameID        int  `json:"game_id" db:"game_id"`
	GameSetIndex  int  `json:"game_set_index" db:"game_set_index"`
	ThrowPosition int  `json:"throw_position" db:"throw_position"`
	HomeTeam      bool `json:"home_team" db:"home_team"`
	TeamID        int  `json:"team_id" db:"team_id"`
	PlayerID      int  `json:"player_id" db:"player_id"`
	Throw1ID      *int `json:"throw_1_id,omitempty" db:"throw_1"`
	Throw2ID      *int `json:"throw_2_id,omitempty" db:"throw_2"`
	Throw3ID      *int `json:"throw_3_id,omitempty" db:"throw_3"`
	Throw4ID      *int `json:"throw_4_id,omitempty" db:"throw_4"`

	Throws [4]*SingleThrow `json:"throws,omitempty" db:"-"`
}

// ThrowIDs returns the four linked throw ids in slot order.
func (rt *SingleRoundThrow) ThrowIDs() [4]*int {
	return [4]*int{rt.Throw1ID, rt.Throw2ID, rt.Throw3ID, rt.Throw4ID}
}

// SetThrowIDs assigns the four throw-slot foreign keys in order.
func (rt *SingleRoundThrow) SetThrowIDs(ids [4]int) {
	rt.Throw1ID = &ids[0]
	rt.Throw2ID = &ids[1]
	rt.Throw3ID = &ids[2]
	rt.Throw4ID = &ids[3]
}
