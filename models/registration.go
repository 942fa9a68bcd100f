package models

import "time"

// SeriesRegistration is a participant entry in a series: a team when
// TeamName is set, otherwise a single player represented by the contact
// player alone (personal leagues).
type SeriesRegistration struct {
	ID               int       `json:"id" db:"id"`
	SeriesID         int       `json:"series_id" db:"series_id"`
	TeamName         *string   `json:"team_name,omitempty" db:"team_name"`
	TeamAbbreviation *string   `json:"team_abbreviation,omitempty" db:"team_abbreviation"`
	GroupName        *string   `json:"group_name,omitempty" db:"group_name"`
	ContactPlayerID  int       `json:"contact_player_id" db:"contact_player_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	Series        *Series  `json:"series,omitempty" db:"-"`
	ContactPlayer *Player  `json:"contact_player,omitempty" db:"-"`
	Roster        []Player `json:"roster,omitempty" db:"-"`
}

// IsTeam reports whether the registration is a team entry rather than a
// personal-league player entry.
func (r *SeriesRegistration) IsTeam() bool {
	return r.TeamName != nil && *r.TeamName != ""
}

// RosterEntry is one row of the registration <-> player join table.
type RosterEntry struct {
	RegistrationID int `json:"registration_id" db:"registration_id"`
	PlayerID       int `json:"player_id" db:"player_id"`
}
