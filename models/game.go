package models

import "time"

// Game is one fixture between two registrations of the same series.
// (series_id, game_date, team_1_id, team_2_id, round) is unique.
//
// The four score fields are two sets x two halves: Score11/Score12 belong
// to the home side (team 1), Score21/Score22 to the away side. They must
// stay consistent with the persisted round throws once scoring begins.
type Game struct {
	ID        int       `json:"id" db:"id"`
	SeriesID  int       `json:"series_id" db:"series_id"`
	Round     *string   `json:"round,omitempty" db:"round"`
	IsPlayoff bool      `json:"is_playoff" db:"is_playoff"`
	GameDate  time.Time `json:"game_date" db:"game_date"`
	Team1ID   int       `json:"team_1_id" db:"team_1_id"`
	Team2ID   int       `json:"team_2_id" db:"team_2_id"`
	Score11   int       `json:"score_1_1" db:"score_1_1"`
	Score12   int       `json:"score_1_2" db:"score_1_2"`
	Score21   int       `json:"score_2_1" db:"score_2_1"`
	Score22   int       `json:"score_2_2" db:"score_2_2"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Series *Series             `json:"series,omitempty" db:"-"`
	Team1  *SeriesRegistration `json:"team_1,omitempty" db:"-"`
	Team2  *SeriesRegistration `json:"team_2,omitempty" db:"-"`
}

func (g *Game) TeamEndScore1() int { return g.Score11 + g.Score12 }
func (g *Game) TeamEndScore2() int { return g.Score21 + g.Score22 }
