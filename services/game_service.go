package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tarujar/kantalakyykka/models"
	"github.com/tarujar/kantalakyykka/repositories"
	"golang.org/x/sync/errgroup"
)

var ErrGameDateRequired = errors.New("game date is required")

type GameService interface {
	CreateGame(ctx context.Context, input GameInput) (*models.Game, error)
	GetGameByID(ctx context.Context, id int) (*models.Game, error)
	ListGames(ctx context.Context, seriesID *int) ([]models.Game, error)
	UpdateGame(ctx context.Context, id int, input GameInput) (*models.Game, error)
	DeleteGame(ctx context.Context, id int) error
}

type GameInput struct {
	SeriesID  int       `json:"series_id"`
	Round     *string   `json:"round,omitempty"`
	IsPlayoff bool      `json:"is_playoff"`
	GameDate  time.Time `json:"game_date"`
	Team1ID   int       `json:"team_1_id"`
	Team2ID   int       `json:"team_2_id"`
}

type gameService struct {
	gameRepo         repositories.GameRepository
	seriesRepo       repositories.SeriesRepository
	registrationRepo repositories.RegistrationRepository
}

func NewGameService(
	gameRepo repositories.GameRepository,
	seriesRepo repositories.SeriesRepository,
	registrationRepo repositories.RegistrationRepository,
) GameService {
	return &gameService{
		gameRepo:         gameRepo,
		seriesRepo:       seriesRepo,
		registrationRepo: registrationRepo,
	}
}

func (s *gameService) CreateGame(ctx context.Context, input GameInput) (*models.Game, error) {
	game, err := s.gameFromInput(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.gameRepo.Create(ctx, game); err != nil {
		return nil, s.mapGameWriteError(err, "create")
	}
	return game, nil
}

func (s *gameService) GetGameByID(ctx context.Context, id int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		series, err := s.seriesRepo.GetByID(gCtx, game.SeriesID)
		if err != nil {
			return err
		}
		game.Series = series
		return nil
	})
	g.Go(func() error {
		team, err := s.registrationRepo.GetByID(gCtx, game.Team1ID)
		if err != nil {
			return err
		}
		game.Team1 = team
		return nil
	})
	g.Go(func() error {
		team, err := s.registrationRepo.GetByID(gCtx, game.Team2ID)
		if err != nil {
			return err
		}
		game.Team2 = team
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load related data for game %d: %w", id, err)
	}
	return game, nil
}

func (s *gameService) ListGames(ctx context.Context, seriesID *int) ([]models.Game, error) {
	games, err := s.gameRepo.List(ctx, seriesID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

func (s *gameService) UpdateGame(ctx context.Context, id int, input GameInput) (*models.Game, error) {
	existing, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}

	game, err := s.gameFromInput(ctx, input)
	if err != nil {
		return nil, err
	}
	game.ID = id
	game.Score11 = existing.Score11
	game.Score12 = existing.Score12
	game.Score21 = existing.Score21
	game.Score22 = existing.Score22

	if err := s.gameRepo.Update(ctx, game); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, s.mapGameWriteError(err, "update")
	}
	return game, nil
}

func (s *gameService) DeleteGame(ctx context.Context, id int) error {
	err := s.gameRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return ErrGameNotFound
		}
		return fmt.Errorf("failed to delete game %d: %w", id, err)
	}
	return nil
}

func (s *gameService) gameFromInput(ctx context.Context, input GameInput) (*models.Game, error) {
	if input.GameDate.IsZero() {
		return nil, ErrGameDateRequired
	}
	if input.Team1ID == input.Team2ID {
		return nil, ErrSameTeamsInGame
	}

	if _, err := s.seriesRepo.GetByID(ctx, input.SeriesID); err != nil {
		if errors.Is(err, repositories.ErrSeriesNotFound) {
			return nil, ErrSeriesNotFound
		}
		return nil, fmt.Errorf("failed to check series %d: %w", input.SeriesID, err)
	}

	for _, teamID := range []int{input.Team1ID, input.Team2ID} {
		registration, err := s.registrationRepo.GetByID(ctx, teamID)
		if err != nil {
			if errors.Is(err, repositories.ErrRegistrationNotFound) {
				return nil, ErrRegistrationNotFound
			}
			return nil, fmt.Errorf("failed to check registration %d: %w", teamID, err)
		}
		if registration.SeriesID != input.SeriesID {
			return nil, ErrTeamsNotInSeries
		}
	}

	return &models.Game{
		SeriesID:  input.SeriesID,
		Round:     normalizeOptional(input.Round),
		IsPlayoff: input.IsPlayoff,
		GameDate:  input.GameDate,
		Team1ID:   input.Team1ID,
		Team2ID:   input.Team2ID,
	}, nil
}

func (s *gameService) mapGameWriteError(err error, op string) error {
	switch {
	case errors.Is(err, repositories.ErrGameDuplicate):
		return ErrDuplicateFixture
	case errors.Is(err, repositories.ErrGameSeriesInvalid):
		return ErrSeriesNotFound
	case errors.Is(err, repositories.ErrGameTeamInvalid):
		return ErrRegistrationNotFound
	default:
		return fmt.Errorf("failed to %s game: %w", op, err)
	}
}
