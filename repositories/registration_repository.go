package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tarujar/kantalakyykka/models"
)

var (
	ErrRegistrationNotFound             = errors.New("series registration not found")
	ErrRegistrationAbbreviationConflict = errors.New("team abbreviation already taken in this series")
	ErrRegistrationSeriesInvalid        = errors.New("registration series invalid")
	ErrRegistrationPlayerInvalid        = errors.New("registration contact player invalid")
	ErrRegistrationInUse                = errors.New("registration is referenced by games")
	ErrRosterDuplicatePlayer            = errors.New("player already on roster")
	ErrRosterEntryNotFound              = errors.New("roster entry not found")
)

type RegistrationRepository interface {
	Create(ctx context.Context, registration *models.SeriesRegistration) error
	GetByID(ctx context.Context, id int) (*models.SeriesRegistration, error)
	ListBySeries(ctx context.Context, seriesID int) ([]models.SeriesRegistration, error)
	Update(ctx context.Context, registration *models.SeriesRegistration) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	Delete(ctx context.Context, id int) error

	AddRosterPlayer(ctx context.Context, registrationID, playerID int) error
	RemoveRosterPlayer(ctx context.Context, registrationID, playerID int) error
	GetRoster(ctx context.Context, registrationID int) ([]models.Player, error)
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

const registrationColumns = `id, series_id, team_name, team_abbreviation, group_name, contact_player_id, logo_key, created_at`

func (r *postgresRegistrationRepository) Create(ctx context.Context, registration *models.SeriesRegistration) error {
	query := `
		INSERT INTO series_registrations (series_id, team_name, team_abbreviation, group_name, contact_player_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		registration.SeriesID,
		registration.TeamName,
		registration.TeamAbbreviation,
		registration.GroupName,
		registration.ContactPlayerID,
	).Scan(&registration.ID, &registration.CreatedAt)

	return r.translateWriteError(err)
}

func (r *postgresRegistrationRepository) GetByID(ctx context.Context, id int) (*models.SeriesRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM series_registrations WHERE id = $1`

	registration, err := r.scanRegistration(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return registration, nil
}

func (r *postgresRegistrationRepository) ListBySeries(ctx context.Context, seriesID int) ([]models.SeriesRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM series_registrations WHERE series_id = $1 ORDER BY team_name NULLS LAST, id ASC`

	rows, err := r.db.QueryContext(ctx, query, seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	registrations := make([]models.SeriesRegistration, 0)
	for rows.Next() {
		var registration models.SeriesRegistration
		if scanErr := rows.Scan(
			&registration.ID,
			&registration.SeriesID,
			&registration.TeamName,
			&registration.TeamAbbreviation,
			&registration.GroupName,
			&registration.ContactPlayerID,
			&registration.LogoKey,
			&registration.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		registrations = append(registrations, registration)
	}
	return registrations, rows.Err()
}

func (r *postgresRegistrationRepository) Update(ctx context.Context, registration *models.SeriesRegistration) error {
	query := `
		UPDATE series_registrations
		SET team_name = $1, team_abbreviation = $2, group_name = $3, contact_player_id = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		registration.TeamName,
		registration.TeamAbbreviation,
		registration.GroupName,
		registration.ContactPlayerID,
		registration.ID,
	)
	if err != nil {
		return r.translateWriteError(err)
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

func (r *postgresRegistrationRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE series_registrations SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return err
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

func (r *postgresRegistrationRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM series_registrations WHERE id = $1`, id)
	if err != nil {
		if isAnyForeignKeyViolation(err) {
			return ErrRegistrationInUse
		}
		return err
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

func (r *postgresRegistrationRepository) AddRosterPlayer(ctx context.Context, registrationID, playerID int) error {
	query := `INSERT INTO roster_players_in_series (registration_id, player_id) VALUES ($1, $2)`

	_, err := r.db.ExecContext(ctx, query, registrationID, playerID)
	if err != nil {
		if isUniqueViolation(err, "roster_players_in_series_pkey") {
			return ErrRosterDuplicatePlayer
		}
		if isForeignKeyViolation(err, "roster_players_in_series_registration_id_fkey") {
			return ErrRegistrationNotFound
		}
		if isForeignKeyViolation(err, "roster_players_in_series_player_id_fkey") {
			return ErrRegistrationPlayerInvalid
		}
		return err
	}
	return nil
}

func (r *postgresRegistrationRepository) RemoveRosterPlayer(ctx context.Context, registrationID, playerID int) error {
	query := `DELETE FROM roster_players_in_series WHERE registration_id = $1 AND player_id = $2`

	result, err := r.db.ExecContext(ctx, query, registrationID, playerID)
	if err != nil {
		return err
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRosterEntryNotFound
	}
	return nil
}

func (r *postgresRegistrationRepository) GetRoster(ctx context.Context, registrationID int) ([]models.Player, error) {
	query := `
		SELECT p.id, p.name, p.email, p.created_at
		FROM roster_players_in_series rps
		JOIN players p ON p.id = rps.player_id
		WHERE rps.registration_id = $1
		ORDER BY p.id ASC`

	rows, err := r.db.QueryContext(ctx, query, registrationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roster := make([]models.Player, 0)
	for rows.Next() {
		var player models.Player
		if scanErr := rows.Scan(&player.ID, &player.Name, &player.Email, &player.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		roster = append(roster, player)
	}
	return roster, rows.Err()
}

func (r *postgresRegistrationRepository) scanRegistration(row *sql.Row) (*models.SeriesRegistration, error) {
	var registration models.SeriesRegistration
	err := row.Scan(
		&registration.ID,
		&registration.SeriesID,
		&registration.TeamName,
		&registration.TeamAbbreviation,
		&registration.GroupName,
		&registration.ContactPlayerID,
		&registration.LogoKey,
		&registration.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *postgresRegistrationRepository) translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err, "series_registrations_series_id_team_abbreviation_key") {
		return ErrRegistrationAbbreviationConflict
	}
	if isForeignKeyViolation(err, "series_registrations_series_id_fkey") {
		return ErrRegistrationSeriesInvalid
	}
	if isForeignKeyViolation(err, "series_registrations_contact_player_id_fkey") {
		return ErrRegistrationPlayerInvalid
	}
	return err
}
