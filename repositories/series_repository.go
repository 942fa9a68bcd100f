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
	ErrSeriesNotFound         = errors.New("series not found")
	ErrSeriesNameYearConflict = errors.New("series name/year conflict")
	ErrSeriesGameTypeInvalid  = errors.New("series game type invalid")
	ErrSeriesInUse            = errors.New("series has registrations or games")
)

type SeriesRepository interface {
	Create(ctx context.Context, series *models.Series) error
	GetByID(ctx context.Context, id int) (*models.Series, error)
	List(ctx context.Context, year *int, status *models.SeriesStatus) ([]models.Series, error)
	Update(ctx context.Context, series *models.Series) error
	Delete(ctx context.Context, id int) error
}

type postgresSeriesRepository struct {
	db *sql.DB
}

func NewPostgresSeriesRepository(db *sql.DB) SeriesRepository {
	return &postgresSeriesRepository{db: db}
}

const seriesColumns = `id, name, season_type, year, status, registration_open, is_cup_league, game_type_id, created_at`

func (r *postgresSeriesRepository) Create(ctx context.Context, series *models.Series) error {
	query := `
		INSERT INTO series (name, season_type, year, status, registration_open, is_cup_league, game_type_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		series.Name,
		series.SeasonType,
		series.Year,
		series.Status,
		series.RegistrationOpen,
		series.IsCupLeague,
		series.GameTypeID,
	).Scan(&series.ID, &series.CreatedAt)

	return r.translateWriteError(err)
}

func (r *postgresSeriesRepository) GetByID(ctx context.Context, id int) (*models.Series, error) {
	query := `SELECT ` + seriesColumns + ` FROM series WHERE id = $1`

	var series models.Series
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&series.ID,
		&series.Name,
		&series.SeasonType,
		&series.Year,
		&series.Status,
		&series.RegistrationOpen,
		&series.IsCupLeague,
		&series.GameTypeID,
		&series.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}
	return &series, nil
}

func (r *postgresSeriesRepository) List(ctx context.Context, year *int, status *models.SeriesStatus) ([]models.Series, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + seriesColumns + ` FROM series WHERE 1=1`)

	args := []interface{}{}
	placeholderIndex := 1

	if year != nil {
		queryBuilder.WriteString(" AND year = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *year)
		placeholderIndex++
	}
	if status != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *status)
		placeholderIndex++
	}
	queryBuilder.WriteString(" ORDER BY year DESC, name ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]models.Series, 0)
	for rows.Next() {
		var series models.Series
		if scanErr := rows.Scan(
			&series.ID,
			&series.Name,
			&series.SeasonType,
			&series.Year,
			&series.Status,
			&series.RegistrationOpen,
			&series.IsCupLeague,
			&series.GameTypeID,
			&series.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		list = append(list, series)
	}
	return list, rows.Err()
}

func (r *postgresSeriesRepository) Update(ctx context.Context, series *models.Series) error {
	query := `
		UPDATE series
		SET name = $1, season_type = $2, year = $3, status = $4, registration_open = $5, is_cup_league = $6, game_type_id = $7
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		series.Name,
		series.SeasonType,
		series.Year,
		series.Status,
		series.RegistrationOpen,
		series.IsCupLeague,
		series.GameTypeID,
		series.ID,
	)
	if err != nil {
		return r.translateWriteError(err)
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrSeriesNotFound
	}
	return nil
}

func (r *postgresSeriesRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM series WHERE id = $1`, id)
	if err != nil {
		if isAnyForeignKeyViolation(err) {
			return ErrSeriesInUse
		}
		return err
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrSeriesNotFound
	}
	return nil
}

func (r *postgresSeriesRepository) translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err, "series_name_year_key") {
		return ErrSeriesNameYearConflict
	}
	if isForeignKeyViolation(err, "series_game_type_id_fkey") {
		return ErrSeriesGameTypeInvalid
	}
	return err
}
