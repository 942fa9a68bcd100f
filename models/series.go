package models

import "time"

type SeasonType string

const (
	SeasonSummer SeasonType = "summer"
	SeasonWinter SeasonType = "winter"
)

type SeriesStatus string

const (
	SeriesUpcoming  SeriesStatus = "upcoming"
	SeriesOngoing   SeriesStatus = "ongoing"
	SeriesCompleted SeriesStatus = "completed"
)

// Series is one competition instance for a season. (name, year) is unique.
// Status transitions are manual.
type Series struct {
	ID               int          `json:"id" db:"id"`
	Name             string       `json:"name" db:"name"`
	SeasonType       SeasonType   `json:"season_type" db:"season_type"`
	Year             int          `json:"year" db:"year"`
	Status           SeriesStatus `json:"status" db:"status"`
	RegistrationOpen bool         `json:"registration_open" db:"registration_open"`
	IsCupLeague      bool         `json:"is_cup_league" db:"is_cup_league"`
	GameTypeID       int          `json:"game_type_id" db:"game_type_id"`
	CreatedAt        time.Time    `json:"created_at" db:"created_at"`

	GameType *GameType `json:"game_type,omitempty" db:"-"`
}
