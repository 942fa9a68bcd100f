package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/tarujar/kantalakyykka/models"
)

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameDuplicate     = errors.New("duplicate fixture for this series/date/teams/round")
	ErrGameSeriesInvalid = errors.New("game series invalid")
	ErrGameTeamInvalid   = errors.New("game team registration invalid")
)

type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id int) (*models.Game, error)
	List(ctx context.Context, seriesID *int) ([]models.Game, error)
	Update(ctx context.Context, game *models.Game) error
	UpdateScores(ctx context.Context, exec SQLExecutor, gameID int, score11, score12, score21, score22 int) error
	Delete(ctx context.Context, id int) error
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

const gameColumns = `id, series_id, round, is_playoff, game_date, team_1_id, team_2_id, score_1_1, score_1_2, score_2_1, score_2_2, created_at`

func (r *postgresGameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (series_id, round, is_playoff, game_date, team_1_id, team_2_id, score_1_1, score_1_2, score_2_1, score_2_2)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		game.SeriesID,
		game.Round,
		game.IsPlayoff,
		game.GameDate,
		game.Team1ID,
		game.Team2ID,
		game.Score11,
		game.Score12,
		game.Score21,
		game.Score22,
	).Scan(&game.ID, &game.CreatedAt)

	return r.translateWriteError(err)
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	var game models.Game
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&game.ID,
		&game.SeriesID,
		&game.Round,
		&game.IsPlayoff,
		&game.GameDate,
		&game.Team1ID,
		&game.Team2ID,
		&game.Score11,
		&game.Score12,
		&game.Score21,
		&game.Score22,
		&game.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

func (r *postgresGameRepository) List(ctx context.Context, seriesID *int) ([]models.Game, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + gameColumns + ` FROM games`)

	args := []interface{}{}
	if seriesID != nil {
		queryBuilder.WriteString(" WHERE series_id = $")
		queryBuilder.WriteString(strconv.Itoa(1))
		args = append(args, *seriesID)
	}
	queryBuilder.WriteString(" ORDER BY game_date ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		var game models.Game
		if scanErr := rows.Scan(
			&game.ID,
			&game.SeriesID,
			&game.Round,
			&game.IsPlayoff,
			&game.GameDate,
			&game.Team1ID,
			&game.Team2ID,
			&game.Score11,
			&game.Score12,
			&game.Score21,
			&game.Score22,
			&game.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func (r *postgresGameRepository) Update(ctx context.Context, game *models.Game) error {
	query := `
		UPDATE games
		SET series_id = $1, round = $2, is_playoff = $3, game_date = $4, team_1_id = $5, team_2_id = $6,
		    score_1_1 = $7, score_1_2 = $8, score_2_1 = $9, score_2_2 = $10
		WHERE id = $11`

	result, err := r.db.ExecContext(ctx, query,
		game.SeriesID,
		game.Round,
		game.IsPlayoff,
		game.GameDate,
		game.Team1ID,
		game.Team2ID,
		game.Score11,
		game.Score12,
		game.Score21,
		game.Score22,
		game.ID,
	)
	if err != nil {
		return r.translateWriteError(err)
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrGameNotFound
	}
	return nil
}

// UpdateScores writes only the four aggregate score fields; the scoring
// engine calls it inside the score-sheet transaction.
func (r *postgresGameRepository) UpdateScores(ctx context.Context, exec SQLExecutor, gameID int, score11, score12, score21, score22 int) error {
	if exec == nil {
		exec = r.db
	}
	query := `UPDATE games SET score_1_1 = $1, score_1_2 = $2, score_2_1 = $3, score_2_2 = $4 WHERE id = $5`

	result, err := exec.ExecContext(ctx, query, score11, score12, score21, score22, gameID)
	if err != nil {
		return err
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrGameNotFound
	}
	return nil
}

func (r *postgresGameRepository) Delete(ctx context.Context, id int) error {
	// Round throws cascade with the game.
	result, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrGameNotFound
	}
	return nil
}

func (r *postgresGameRepository) translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err, "games_fixture_key") {
		return ErrGameDuplicate
	}
	if isForeignKeyViolation(err, "games_series_id_fkey") {
		return ErrGameSeriesInvalid
	}
	if isForeignKeyViolation(err, "games_team_1_id_fkey") || isForeignKeyViolation(err, "games_team_2_id_fkey") {
		return ErrGameTeamInvalid
	}
	return err
}
