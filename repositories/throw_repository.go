package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/tarujar/kantalakyykka/models"
)

var (
	ErrSingleThrowNotFound   = errors.New("single throw not found")
	ErrRoundThrowNotFound    = errors.New("round throw not found")
	ErrRoundThrowDuplicate   = errors.New("round throw slot already recorded")
	ErrRoundThrowGameInvalid = errors.New("round throw game invalid")
)

// SingleThrowRepository persists individual throw rows. All writes accept
// an SQLExecutor so the scoring engine can run them inside one transaction.
type SingleThrowRepository interface {
	Insert(ctx context.Context, exec SQLExecutor, throw *models.SingleThrow) error
	Update(ctx context.Context, exec SQLExecutor, throw *models.SingleThrow) error
	GetByIDs(ctx context.Context, exec SQLExecutor, ids []int) (map[int]*models.SingleThrow, error)
}

// RoundThrowRepository persists the four-throw grouping rows keyed by
// (game, set index, throw position, home team).
type RoundThrowRepository interface {
	Insert(ctx context.Context, exec SQLExecutor, roundThrow *models.SingleRoundThrow) error
	Update(ctx context.Context, exec SQLExecutor, roundThrow *models.SingleRoundThrow) error
	ListByGame(ctx context.Context, exec SQLExecutor, gameID int) ([]*models.SingleRoundThrow, error)
}

type postgresSingleThrowRepository struct {
	db *sql.DB
}

func NewPostgresSingleThrowRepository(db *sql.DB) SingleThrowRepository {
	return &postgresSingleThrowRepository{db: db}
}

func (r *postgresSingleThrowRepository) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresSingleThrowRepository) Insert(ctx context.Context, exec SQLExecutor, throw *models.SingleThrow) error {
	query := `
		INSERT INTO single_throw (throw_type, throw_score, player_id, throw_index)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.executor(exec).QueryRowContext(ctx, query,
		throw.ThrowType,
		throw.ThrowScore,
		throw.PlayerID,
		throw.ThrowIndex,
	).Scan(&throw.ID)
	if err != nil {
		return err
	}
	return nil
}

func (r *postgresSingleThrowRepository) Update(ctx context.Context, exec SQLExecutor, throw *models.SingleThrow) error {
	query := `
		UPDATE single_throw
		SET throw_type = $1, throw_score = $2, player_id = $3, throw_index = $4
		WHERE id = $5`

	result, err := r.executor(exec).ExecContext(ctx, query,
		throw.ThrowType,
		throw.ThrowScore,
		throw.PlayerID,
		throw.ThrowIndex,
		throw.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrSingleThrowNotFound
	}
	return nil
}

func (r *postgresSingleThrowRepository) GetByIDs(ctx context.Context, exec SQLExecutor, ids []int) (map[int]*models.SingleThrow, error) {
	throws := make(map[int]*models.SingleThrow, len(ids))
	if len(ids) == 0 {
		return throws, nil
	}

	query := `SELECT id, throw_type, throw_score, player_id, throw_index FROM single_throw WHERE id = ANY($1)`
	rows, err := r.executor(exec).QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var throw models.SingleThrow
		if scanErr := rows.Scan(&throw.ID, &throw.ThrowType, &throw.ThrowScore, &throw.PlayerID, &throw.ThrowIndex); scanErr != nil {
			return nil, scanErr
		}
		throws[throw.ID] = &throw
	}
	return throws, rows.Err()
}

type postgresRoundThrowRepository struct {
	db *sql.DB
}

func NewPostgresRoundThrowRepository(db *sql.DB) RoundThrowRepository {
	return &postgresRoundThrowRepository{db: db}
}

func (r *postgresRoundThrowRepository) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRoundThrowRepository) Insert(ctx context.Context, exec SQLExecutor, roundThrow *models.SingleRoundThrow) error {
	query := `
		INSERT INTO single_round_throws (game_id, game_set_index, throw_position, home_team, team_id, player_id, throw_1, throw_2, throw_3, throw_4)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := r.executor(exec).QueryRowContext(ctx, query,
		roundThrow.GameID,
		roundThrow.GameSetIndex,
		roundThrow.ThrowPosition,
		roundThrow.HomeTeam,
		roundThrow.TeamID,
		roundThrow.PlayerID,
		roundThrow.Throw1ID,
		roundThrow.Throw2ID,
		roundThrow.Throw3ID,
		roundThrow.Throw4ID,
	).Scan(&roundThrow.ID)

	if err != nil {
		if isUniqueViolation(err, "single_round_throws_slot_key") {
			return ErrRoundThrowDuplicate
		}
		if isForeignKeyViolation(err, "single_round_throws_game_id_fkey") {
			return ErrRoundThrowGameInvalid
		}
		return err
	}
	return nil
}

func (r *postgresRoundThrowRepository) Update(ctx context.Context, exec SQLExecutor, roundThrow *models.SingleRoundThrow) error {
	query := `
		UPDATE single_round_throws
		SET team_id = $1, player_id = $2, throw_1 = $3, throw_2 = $4, throw_3 = $5, throw_4 = $6
		WHERE id = $7`

	result, err := r.executor(exec).ExecContext(ctx, query,
		roundThrow.TeamID,
		roundThrow.PlayerID,
		roundThrow.Throw1ID,
		roundThrow.Throw2ID,
		roundThrow.Throw3ID,
		roundThrow.Throw4ID,
		roundThrow.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRoundThrowNotFound
	}
	return nil
}

func (r *postgresRoundThrowRepository) ListByGame(ctx context.Context, exec SQLExecutor, gameID int) ([]*models.SingleRoundThrow, error) {
	query := `
		SELECT id, game_id, game_set_index, throw_position, home_team, team_id, player_id, throw_1, throw_2, throw_3, throw_4
		FROM single_round_throws
		WHERE game_id = $1
		ORDER BY game_set_index ASC, throw_position ASC, home_team DESC`

	rows, err := r.executor(exec).QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roundThrows := make([]*models.SingleRoundThrow, 0)
	for rows.Next() {
		var roundThrow models.SingleRoundThrow
		if scanErr := rows.Scan(
			&roundThrow.ID,
			&roundThrow.GameID,
			&roundThrow.GameSetIndex,
			&roundThrow.ThrowPosition,
			&roundThrow.HomeTeam,
			&roundThrow.TeamID,
			&roundThrow.PlayerID,
			&roundThrow.Throw1ID,
			&roundThrow.Throw2ID,
			&roundThrow.Throw3ID,
			&roundThrow.Throw4ID,
		); scanErr != nil {
			return nil, scanErr
		}
		roundThrows = append(roundThrows, &roundThrow)
	}
	return roundThrows, rows.Err()
}
