package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tarujar/kantalakyykka/models"
	"github.com/tarujar/kantalakyykka/repositories"
)

var (
	ErrSeriesNameRequired  = errors.New("series name is required")
	ErrSeriesInvalidYear   = errors.New("series year is invalid")
	ErrSeriesInvalidSeason = errors.New("series season type is invalid")
	ErrSeriesInvalidStatus = errors.New("series status is invalid")
)

type SeriesService interface {
	CreateSeries(ctx context.Context, input SeriesInput) (*models.Series, error)
	GetSeriesByID(ctx context.Context, id int) (*models.Series, error)
	ListSeries(ctx context.Context, filter SeriesFilter) ([]models.Series, error)
	UpdateSeries(ctx context.Context, id int, input SeriesInput) (*models.Series, error)
	DeleteSeries(ctx context.Context, id int) error
}

type SeriesInput struct {
	Name             string              `json:"name"`
	SeasonType       models.SeasonType   `json:"season_type"`
	Year             int                 `json:"year"`
	Status           models.SeriesStatus `json:"status"`
	RegistrationOpen bool                `json:"registration_open"`
	IsCupLeague      bool                `json:"is_cup_league"`
	GameTypeID       int                 `json:"game_type_id"`
}

type SeriesFilter struct {
	Year   *int
	Status *models.SeriesStatus
}

type seriesService struct {
	seriesRepo   repositories.SeriesRepository
	gameTypeRepo repositories.GameTypeRepository
}

func NewSeriesService(seriesRepo repositories.SeriesRepository, gameTypeRepo repositories.GameTypeRepository) SeriesService {
	return &seriesService{
		seriesRepo:   seriesRepo,
		gameTypeRepo: gameTypeRepo,
	}
}

func (s *seriesService) CreateSeries(ctx context.Context, input SeriesInput) (*models.Series, error) {
	series, err := seriesFromInput(input)
	if err != nil {
		return nil, err
	}

	if _, err := s.gameTypeRepo.GetByID(ctx, series.GameTypeID); err != nil {
		if errors.Is(err, repositories.ErrGameTypeNotFound) {
			return nil, ErrGameTypeNotFound
		}
		return nil, fmt.Errorf("failed to check game type %d: %w", series.GameTypeID, err)
	}

	if err := s.seriesRepo.Create(ctx, series); err != nil {
		return nil, s.mapSeriesWriteError(err, "create")
	}
	return series, nil
}

func (s *seriesService) GetSeriesByID(ctx context.Context, id int) (*models.Series, error) {
	series, err := s.seriesRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSeriesNotFound) {
			return nil, ErrSeriesNotFound
		}
		return nil, fmt.Errorf("failed to get series %d: %w", id, err)
	}

	gameType, err := s.gameTypeRepo.GetByID(ctx, series.GameTypeID)
	if err == nil {
		series.GameType = gameType
	}
	return series, nil
}

func (s *seriesService) ListSeries(ctx context.Context, filter SeriesFilter) ([]models.Series, error) {
	list, err := s.seriesRepo.List(ctx, filter.Year, filter.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to list series: %w", err)
	}
	return list, nil
}

func (s *seriesService) UpdateSeries(ctx context.Context, id int, input SeriesInput) (*models.Series, error) {
	series, err := seriesFromInput(input)
	if err != nil {
		return nil, err
	}
	series.ID = id

	if err := s.seriesRepo.Update(ctx, series); err != nil {
		if errors.Is(err, repositories.ErrSeriesNotFound) {
			return nil, ErrSeriesNotFound
		}
		return nil, s.mapSeriesWriteError(err, "update")
	}
	return series, nil
}

func (s *seriesService) DeleteSeries(ctx context.Context, id int) error {
	err := s.seriesRepo.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrSeriesNotFound):
			return ErrSeriesNotFound
		case errors.Is(err, repositories.ErrSeriesInUse):
			return ErrSeriesInUse
		default:
			return fmt.Errorf("failed to delete series %d: %w", id, err)
		}
	}
	return nil
}

func (s *seriesService) mapSeriesWriteError(err error, op string) error {
	switch {
	case errors.Is(err, repositories.ErrSeriesNameYearConflict):
		return ErrSeriesNameYearConflict
	case errors.Is(err, repositories.ErrSeriesGameTypeInvalid):
		return ErrGameTypeNotFound
	default:
		return fmt.Errorf("failed to %s series: %w", op, err)
	}
}

func seriesFromInput(input SeriesInput) (*models.Series, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrSeriesNameRequired
	}
	if input.Year < 1900 || input.Year > time.Now().Year()+1 {
		return nil, ErrSeriesInvalidYear
	}

	switch input.SeasonType {
	case models.SeasonSummer, models.SeasonWinter:
	default:
		return nil, ErrSeriesInvalidSeason
	}

	status := input.Status
	if status == "" {
		status = models.SeriesUpcoming
	}
	switch status {
	case models.SeriesUpcoming, models.SeriesOngoing, models.SeriesCompleted:
	default:
		return nil, ErrSeriesInvalidStatus
	}

	return &models.Series{
		Name:             name,
		SeasonType:       input.SeasonType,
		Year:             input.Year,
		Status:           status,
		RegistrationOpen: input.RegistrationOpen,
		IsCupLeague:      input.IsCupLeague,
		GameTypeID:       input.GameTypeID,
	}, nil
}
