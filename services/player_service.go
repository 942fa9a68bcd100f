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
	ErrPlayerNameRequired  = errors.New("player name is required")
	ErrPlayerEmailRequired = errors.New("player email is required")
)

type PlayerService interface {
	CreatePlayer(ctx context.Context, input PlayerInput) (*models.Player, error)
	GetPlayerByID(ctx context.Context, id int) (*models.Player, error)
	GetAllPlayers(ctx context.Context) ([]models.Player, error)
	UpdatePlayer(ctx context.Context, id int, input PlayerInput) (*models.Player, error)
	DeletePlayer(ctx context.Context, id int) error
}

type PlayerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type playerService struct {
	playerRepo repositories.PlayerRepository
}

func NewPlayerService(playerRepo repositories.PlayerRepository) PlayerService {
	return &playerService{playerRepo: playerRepo}
}

func (s *playerService) CreatePlayer(ctx context.Context, input PlayerInput) (*models.Player, error) {
	player, err := playerFromInput(input)
	if err != nil {
		return nil, err
	}

	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerEmailConflict) {
			return nil, ErrPlayerEmailConflict
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (s *playerService) GetPlayerByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	return player, nil
}

func (s *playerService) GetAllPlayers(ctx context.Context) ([]models.Player, error) {
	players, err := s.playerRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

func (s *playerService) UpdatePlayer(ctx context.Context, id int, input PlayerInput) (*models.Player, error) {
	player, err := playerFromInput(input)
	if err != nil {
		return nil, err
	}
	player.ID = id

	if err := s.playerRepo.Update(ctx, player); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerNotFound):
			return nil, ErrPlayerNotFound
		case errors.Is(err, repositories.ErrPlayerEmailConflict):
			return nil, ErrPlayerEmailConflict
		default:
			return nil, fmt.Errorf("failed to update player %d: %w", id, err)
		}
	}
	return player, nil
}

func (s *playerService) DeletePlayer(ctx context.Context, id int) error {
	err := s.playerRepo.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerNotFound):
			return ErrPlayerNotFound
		case errors.Is(err, repositories.ErrPlayerInUse):
			return ErrPlayerInUse
		default:
			return fmt.Errorf("failed to delete player %d: %w", id, err)
		}
	}
	return nil
}

func playerFromInput(input PlayerInput) (*models.Player, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return nil, ErrPlayerEmailRequired
	}
	return &models.Player{Name: name, Email: email}, nil
}
