package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/tarujar/kantalakyykka/models"
)

var (
	ErrPlayerNotFound      = errors.New("player not found")
	ErrPlayerEmailConflict = errors.New("player email conflict")
	ErrPlayerInUse         = errors.New("player is referenced by registrations or throws")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	GetByIDs(ctx context.Context, ids []int) (map[int]*models.Player, error)
	GetAll(ctx context.Context) ([]models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `INSERT INTO players (name, email) VALUES ($1, $2) RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, player.Name, player.Email).Scan(&player.ID, &player.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "players_email_key") {
			return ErrPlayerEmailConflict
		}
		return err
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT id, name, email, created_at FROM players WHERE id = $1`

	var player models.Player
	err := r.db.QueryRowContext(ctx, query, id).Scan(&player.ID, &player.Name, &player.Email, &player.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

func (r *postgresPlayerRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*models.Player, error) {
	players := make(map[int]*models.Player, len(ids))
	if len(ids) == 0 {
		return players, nil
	}

	query := `SELECT id, name, email, created_at FROM players WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var player models.Player
		if scanErr := rows.Scan(&player.ID, &player.Name, &player.Email, &player.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		players[player.ID] = &player
	}
	return players, rows.Err()
}

func (r *postgresPlayerRepository) GetAll(ctx context.Context) ([]models.Player, error) {
	query := `SELECT id, name, email, created_at FROM players ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var player models.Player
		if scanErr := rows.Scan(&player.ID, &player.Name, &player.Email, &player.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `UPDATE players SET name = $1, email = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, player.Name, player.Email, player.ID)
	if err != nil {
		if isUniqueViolation(err, "players_email_key") {
			return ErrPlayerEmailConflict
		}
		return err
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		if isAnyForeignKeyViolation(err) {
			return ErrPlayerInUse
		}
		return err
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPlayerNotFound
	}
	return nil
}
