package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tarujar/kantalakyykka/models"
)

var (
	ErrGameTypeNotFound     = errors.New("game type not found")
	ErrGameTypeNameConflict = errors.New("game type name conflict")
	ErrGameTypeInUse        = errors.New("game type is referenced by a series")
)

type GameTypeRepository interface {
	Create(ctx context.Context, gameType *models.GameType) error
	GetByID(ctx context.Context, id int) (*models.GameType, error)
	GetAll(ctx context.Context) ([]models.GameType, error)
	Update(ctx context.Context, gameType *models.GameType) error
	Delete(ctx context.Context, id int) error
}

type postgresGameTypeRepository struct {
	db *sql.DB
}

func NewPostgresGameTypeRepository(db *sql.DB) GameTypeRepository {
	return &postgresGameTypeRepository{db: db}
}

const gameTypeColumns = `id, name, team_player_amount, game_player_amount, throw_round_amount, game_set_count, kyykka_amount, created_at`

func (r *postgresGameTypeRepository) Create(ctx context.Context, gameType *models.GameType) error {
	query := `
		INSERT INTO game_types (name, team_player_amount, game_player_amount, throw_round_amount, game_set_count, kyykka_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		gameType.Name,
		gameType.TeamPlayerAmount,
		gameType.GamePlayerAmount,
		gameType.ThrowRoundAmount,
		gameType.GameSetCount,
		gameType.KyykkaAmount,
	).Scan(&gameType.ID, &gameType.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "game_types_name_key") {
			return ErrGameTypeNameConflict
		}
		return err
	}
	return nil
}

func (r *postgresGameTypeRepository) GetByID(ctx context.Context, id int) (*models.GameType, error) {
	query := `SELECT ` + gameTypeColumns + ` FROM game_types WHERE id = $1`

	var gameType models.GameType
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&gameType.ID,
		&gameType.Name,
		&gameType.TeamPlayerAmount,
		&gameType.GamePlayerAmount,
		&gameType.ThrowRoundAmount,
		&gameType.GameSetCount,
		&gameType.KyykkaAmount,
		&gameType.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameTypeNotFound
		}
		return nil, err
	}
	return &gameType, nil
}

func (r *postgresGameTypeRepository) GetAll(ctx context.Context) ([]models.GameType, error) {
	query := `SELECT ` + gameTypeColumns + ` FROM game_types ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gameTypes := make([]models.GameType, 0)
	for rows.Next() {
		var gameType models.GameType
		if scanErr := rows.Scan(
			&gameType.ID,
			&gameType.Name,
			&gameType.TeamPlayerAmount,
			&gameType.GamePlayerAmount,
			&gameType.ThrowRoundAmount,
			&gameType.GameSetCount,
			&gameType.KyykkaAmount,
			&gameType.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		gameTypes = append(gameTypes, gameType)
	}
	return gameTypes, rows.Err()
}

func (r *postgresGameTypeRepository) Update(ctx context.Context, gameType *models.GameType) error {
	query := `
		UPDATE game_types
		SET name = $1, team_player_amount = $2, game_player_amount = $3, throw_round_amount = $4, game_set_count = $5, kyykka_amount = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		gameType.Name,
		gameType.TeamPlayerAmount,
		gameType.GamePlayerAmount,
		gameType.ThrowRoundAmount,
		gameType.GameSetCount,
		gameType.KyykkaAmount,
		gameType.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "game_types_name_key") {
			return ErrGameTypeNameConflict
		}
		return err
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrGameTypeNotFound
	}
	return nil
}

func (r *postgresGameTypeRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM game_types WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err, "series_game_type_id_fkey") {
			return ErrGameTypeInUse
		}
		return err
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrGameTypeNotFound
	}
	return nil
}
