package models

import "time"

// GameType configures how games under a series are played: roster size,
// how many of those players take part in one game, and the throw layout
// of a set. Existing games keep referencing an edited game type; there is
// no versioning.
type GameType struct {
	ID               int       `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	TeamPlayerAmount int       `json:"team_player_amount" db:"team_player_amount"`
	GamePlayerAmount int       `json:"game_player_amount" db:"game_player_amount"`
	ThrowRoundAmount int       `json:"throw_round_amount" db:"throw_round_amount"`
	GameSetCount     int       `json:"game_set_count" db:"game_set_count"`
	KyykkaAmount     int       `json:"kyykka_amount" db:"kyykka_amount"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
