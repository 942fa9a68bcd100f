package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tarujar/kantalakyykka/models"
	"github.com/tarujar/kantalakyykka/repositories"
)

var (
	ErrGameTypeNameRequired   = errors.New("game type name is required")
	ErrGameTypeInvalidLayout  = errors.New("game type throw layout is invalid")
	ErrGameTypeCreationFailed = errors.New("failed to create game type")
	ErrGameTypeUpdateFailed   = errors.New("failed to update game type")
)

type GameTypeService interface {
	CreateGameType(ctx context.Context, input GameTypeInput) (*models.GameType, error)
	GetGameTypeByID(ctx context.Context, id int) (*models.GameType, error)
	GetAllGameTypes(ctx context.Context) ([]models.GameType, error)
	UpdateGameType(ctx context.Context, id int, input GameTypeInput) (*models.GameType, error)
	DeleteGameType(ctx context.Context, id int) error
}

type GameTypeInput struct {
	Name             string `json:"name"`
	TeamPlayerAmount int    `json:"team_player_amount"`
	GamePlayerAmount int    `json:"game_player_amount"`
	ThrowRoundAmount int    `json:"throw_round_amount"`
	GameSetCount     int    `json:"game_set_count"`
	KyykkaAmount     int    `json:"kyykka_amount"`
}

type gameTypeService struct {
	gameTypeRepo repositories.GameTypeRepository
}

func NewGameTypeService(gameTypeRepo repositories.GameTypeRepository) GameTypeService {
	return &gameTypeService{gameTypeRepo: gameTypeRepo}
}

func (s *gameTypeService) CreateGameType(ctx context.Context, input GameTypeInput) (*models.GameType, error) {
	gameType, err := gameTypeFromInput(input)
	if err != nil {
		return nil, err
	}

	if err := s.gameTypeRepo.Create(ctx, gameType); err != nil {
		if errors.Is(err, repositories.ErrGameTypeNameConflict) {
			return nil, ErrGameTypeNameConflict
		}
		return nil, fmt.Errorf("%w: %w", ErrGameTypeCreationFailed, err)
	}
	return gameType, nil
}

func (s *gameTypeService) GetGameTypeByID(ctx context.Context, id int) (*models.GameType, error) {
	gameType, err := s.gameTypeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameTypeNotFound) {
			return nil, ErrGameTypeNotFound
		}
		return nil, fmt.Errorf("failed to get game type %d: %w", id, err)
	}
	return gameType, nil
}

func (s *gameTypeService) GetAllGameTypes(ctx context.Context) ([]models.GameType, error) {
	gameTypes, err := s.gameTypeRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list game types: %w", err)
	}
	return gameTypes, nil
}

func (s *gameTypeService) UpdateGameType(ctx context.Context, id int, input GameTypeInput) (*models.GameType, error) {
	gameType, err := gameTypeFromInput(input)
	if err != nil {
		return nil, err
	}
	gameType.ID = id

	if err := s.gameTypeRepo.Update(ctx, gameType); err != nil {
		switch {
		case errors.Is(err, repositories.ErrGameTypeNotFound):
			return nil, ErrGameTypeNotFound
		case errors.Is(err, repositories.ErrGameTypeNameConflict):
			return nil, ErrGameTypeNameConflict
		default:
			return nil, fmt.Errorf("%w (id %d): %w", ErrGameTypeUpdateFailed, id, err)
		}
	}
	return gameType, nil
}

func (s *gameTypeService) DeleteGameType(ctx context.Context, id int) error {
	err := s.gameTypeRepo.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrGameTypeNotFound):
			return ErrGameTypeNotFound
		case errors.Is(err, repositories.ErrGameTypeInUse):
			return ErrGameTypeInUse
		default:
			return fmt.Errorf("failed to delete game type %d: %w", id, err)
		}
	}
	return nil
}

func gameTypeFromInput(input GameTypeInput) (*models.GameType, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrGameTypeNameRequired
	}
	if input.TeamPlayerAmount < 1 || input.GameSetCount < 1 || input.ThrowRoundAmount < 1 {
		return nil, ErrGameTypeInvalidLayout
	}
	if input.GamePlayerAmount < 1 || input.GamePlayerAmount > input.TeamPlayerAmount {
		return nil, ErrGameTypeInvalidLayout
	}
	if input.KyykkaAmount < 1 {
		return nil, ErrGameTypeInvalidLayout
	}

	return &models.GameType{
		Name:             name,
		TeamPlayerAmount: input.TeamPlayerAmount,
		GamePlayerAmount: input.GamePlayerAmount,
		ThrowRoundAmount: input.ThrowRoundAmount,
		GameSetCount:     input.GameSetCount,
		KyykkaAmount:     input.KyykkaAmount,
	}, nil
}
