package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/tarujar/kantalakyykka/models"
	"github.com/tarujar/kantalakyykka/repositories"
	"github.com/tarujar/kantalakyykka/storage"
)

var (
	ErrAbbreviationRequired = errors.New("team abbreviation is required for team entries")
	ErrLogoForPersonalEntry = errors.New("personal entries cannot carry a team logo")
	ErrLogoStorageDisabled  = errors.New("logo storage is not configured")
	ErrUnsupportedLogoType  = errors.New("unsupported logo content type")
)

var logoExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

type RegistrationService interface {
	RegisterEntry(ctx context.Context, input RegistrationInput) (*models.SeriesRegistration, error)
	GetRegistrationByID(ctx context.Context, id int) (*models.SeriesRegistration, error)
	ListBySeries(ctx context.Context, seriesID int) ([]models.SeriesRegistration, error)
	UpdateRegistration(ctx context.Context, id int, input RegistrationInput) (*models.SeriesRegistration, error)
	DeleteRegistration(ctx context.Context, id int) error

	AddRosterPlayer(ctx context.Context, registrationID, playerID int) error
	RemoveRosterPlayer(ctx context.Context, registrationID, playerID int) error
	GetRoster(ctx context.Context, registrationID int) ([]models.Player, error)

	UploadLogo(ctx context.Context, registrationID int, contentType string, file io.Reader) (*models.SeriesRegistration, error)
	RemoveLogo(ctx context.Context, registrationID int) error
}

type RegistrationInput struct {
	SeriesID         int     `json:"series_id"`
	TeamName         *string `json:"team_name,omitempty"`
	TeamAbbreviation *string `json:"team_abbreviation,omitempty"`
	GroupName        *string `json:"group_name,omitempty"`
	ContactPlayerID  int     `json:"contact_player_id"`
}

type registrationService struct {
	registrationRepo repositories.RegistrationRepository
	seriesRepo       repositories.SeriesRepository
	gameTypeRepo     repositories.GameTypeRepository
	playerRepo       repositories.PlayerRepository
	uploader         storage.FileUploader
	logger           *slog.Logger
}

func NewRegistrationService(
	registrationRepo repositories.RegistrationRepository,
	seriesRepo repositories.SeriesRepository,
	gameTypeRepo repositories.GameTypeRepository,
	playerRepo repositories.PlayerRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		seriesRepo:       seriesRepo,
		gameTypeRepo:     gameTypeRepo,
		playerRepo:       playerRepo,
		uploader:         uploader,
		logger:           logger,
	}
}

func (s *registrationService) RegisterEntry(ctx context.Context, input RegistrationInput) (*models.SeriesRegistration, error) {
	registration, err := registrationFromInput(input)
	if err != nil {
		return nil, err
	}

	series, err := s.seriesRepo.GetByID(ctx, registration.SeriesID)
	if err != nil {
		if errors.Is(err, repositories.ErrSeriesNotFound) {
			return nil, ErrSeriesNotFound
		}
		return nil, fmt.Errorf("failed to load series %d: %w", registration.SeriesID, err)
	}
	if !series.RegistrationOpen {
		return nil, ErrRegistrationClosed
	}

	if _, err := s.playerRepo.GetByID(ctx, registration.ContactPlayerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to check contact player %d: %w", registration.ContactPlayerID, err)
	}

	if err := s.registrationRepo.Create(ctx, registration); err != nil {
		return nil, s.mapRegistrationWriteError(err, "create")
	}

	// The contact player always throws, so seed the roster with them.
	if err := s.registrationRepo.AddRosterPlayer(ctx, registration.ID, registration.ContactPlayerID); err != nil &&
		!errors.Is(err, repositories.ErrRosterDuplicatePlayer) {
		s.logger.Warn("failed to seed roster with contact player",
			"registration_id", registration.ID,
			"player_id", registration.ContactPlayerID,
			"error", err)
	}

	return registration, nil
}

func (s *registrationService) GetRegistrationByID(ctx context.Context, id int) (*models.SeriesRegistration, error) {
	registration, err := s.registrationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration %d: %w", id, err)
	}

	roster, err := s.registrationRepo.GetRoster(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster for registration %d: %w", id, err)
	}
	registration.Roster = roster
	s.attachLogoURL(registration)

	return registration, nil
}

func (s *registrationService) ListBySeries(ctx context.Context, seriesID int) ([]models.SeriesRegistration, error) {
	if _, err := s.seriesRepo.GetByID(ctx, seriesID); err != nil {
		if errors.Is(err, repositories.ErrSeriesNotFound) {
			return nil, ErrSeriesNotFound
		}
		return nil, fmt.Errorf("failed to check series %d: %w", seriesID, err)
	}

	registrations, err := s.registrationRepo.ListBySeries(ctx, seriesID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations for series %d: %w", seriesID, err)
	}
	for i := range registrations {
		s.attachLogoURL(&registrations[i])
	}
	return registrations, nil
}

func (s *registrationService) UpdateRegistration(ctx context.Context, id int, input RegistrationInput) (*models.SeriesRegistration, error) {
	registration, err := registrationFromInput(input)
	if err != nil {
		return nil, err
	}
	registration.ID = id

	if err := s.registrationRepo.Update(ctx, registration); err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, s.mapRegistrationWriteError(err, "update")
	}
	return registration, nil
}

func (s *registrationService) DeleteRegistration(ctx context.Context, id int) error {
	registration, err := s.registrationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to get registration %d: %w", id, err)
	}

	if err := s.registrationRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrRegistrationNotFound):
			return ErrRegistrationNotFound
		case errors.Is(err, repositories.ErrRegistrationInUse):
			return ErrRegistrationInUse
		default:
			return fmt.Errorf("failed to delete registration %d: %w", id, err)
		}
	}

	if registration.LogoKey != nil && s.uploader != nil {
		if err := s.uploader.Delete(ctx, *registration.LogoKey); err != nil {
			s.logger.Warn("failed to delete logo after registration removal",
				"registration_id", id, "key", *registration.LogoKey, "error", err)
		}
	}
	return nil
}

func (s *registrationService) AddRosterPlayer(ctx context.Context, registrationID, playerID int) error {
	registration, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to get registration %d: %w", registrationID, err)
	}

	series, err := s.seriesRepo.GetByID(ctx, registration.SeriesID)
	if err != nil {
		return fmt.Errorf("failed to load series %d: %w", registration.SeriesID, err)
	}
	gameType, err := s.gameTypeRepo.GetByID(ctx, series.GameTypeID)
	if err != nil {
		return fmt.Errorf("failed to load game type %d: %w", series.GameTypeID, err)
	}

	roster, err := s.registrationRepo.GetRoster(ctx, registrationID)
	if err != nil {
		return fmt.Errorf("failed to load roster for registration %d: %w", registrationID, err)
	}
	if len(roster) >= gameType.TeamPlayerAmount {
		return ErrRosterFull
	}

	if err := s.registrationRepo.AddRosterPlayer(ctx, registrationID, playerID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrRosterDuplicatePlayer):
			return ErrRosterDuplicatePlayer
		case errors.Is(err, repositories.ErrRegistrationPlayerInvalid):
			return ErrPlayerNotFound
		case errors.Is(err, repositories.ErrRegistrationNotFound):
			return ErrRegistrationNotFound
		default:
			return fmt.Errorf("failed to add player %d to roster %d: %w", playerID, registrationID, err)
		}
	}
	return nil
}

func (s *registrationService) RemoveRosterPlayer(ctx context.Context, registrationID, playerID int) error {
	err := s.registrationRepo.RemoveRosterPlayer(ctx, registrationID, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrRosterEntryNotFound) {
			return ErrRosterEntryNotFound
		}
		return fmt.Errorf("failed to remove player %d from roster %d: %w", playerID, registrationID, err)
	}
	return nil
}

func (s *registrationService) GetRoster(ctx context.Context, registrationID int) ([]models.Player, error) {
	if _, err := s.registrationRepo.GetByID(ctx, registrationID); err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration %d: %w", registrationID, err)
	}

	roster, err := s.registrationRepo.GetRoster(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster for registration %d: %w", registrationID, err)
	}
	return roster, nil
}

func (s *registrationService) UploadLogo(ctx context.Context, registrationID int, contentType string, file io.Reader) (*models.SeriesRegistration, error) {
	// The service boots without object storage; uploads are off then.
	if s.uploader == nil {
		return nil, ErrLogoStorageDisabled
	}

	registration, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration %d: %w", registrationID, err)
	}
	if !registration.IsTeam() {
		return nil, ErrLogoForPersonalEntry
	}

	ext, ok := logoExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, ErrUnsupportedLogoType
	}

	oldKey := registration.LogoKey
	key := path.Join("logos", fmt.Sprintf("registration_%d%s", registrationID, ext))

	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload logo for registration %d: %w", registrationID, err)
	}

	if err := s.registrationRepo.UpdateLogoKey(ctx, registrationID, &result.Key); err != nil {
		if delErr := s.uploader.Delete(ctx, result.Key); delErr != nil {
			s.logger.Warn("failed to delete orphaned logo upload", "key", result.Key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to store logo key for registration %d: %w", registrationID, err)
	}

	if oldKey != nil && *oldKey != result.Key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete replaced logo", "key", *oldKey, "error", err)
		}
	}

	registration.LogoKey = &result.Key
	s.attachLogoURL(registration)
	return registration, nil
}

func (s *registrationService) RemoveLogo(ctx context.Context, registrationID int) error {
	registration, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to get registration %d: %w", registrationID, err)
	}
	if registration.LogoKey == nil {
		return nil
	}

	if err := s.registrationRepo.UpdateLogoKey(ctx, registrationID, nil); err != nil {
		return fmt.Errorf("failed to clear logo key for registration %d: %w", registrationID, err)
	}
	if s.uploader != nil {
		if err := s.uploader.Delete(ctx, *registration.LogoKey); err != nil {
			s.logger.Warn("failed to delete removed logo", "key", *registration.LogoKey, "error", err)
		}
	}
	return nil
}

func (s *registrationService) attachLogoURL(registration *models.SeriesRegistration) {
	if registration.LogoKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*registration.LogoKey)
	if url != "" {
		registration.LogoURL = &url
	}
}

func (s *registrationService) mapRegistrationWriteError(err error, op string) error {
	switch {
	case errors.Is(err, repositories.ErrRegistrationAbbreviationConflict):
		return ErrAbbreviationConflict
	case errors.Is(err, repositories.ErrRegistrationSeriesInvalid):
		return ErrSeriesNotFound
	case errors.Is(err, repositories.ErrRegistrationPlayerInvalid):
		return ErrPlayerNotFound
	default:
		return fmt.Errorf("failed to %s registration: %w", op, err)
	}
}

func registrationFromInput(input RegistrationInput) (*models.SeriesRegistration, error) {
	registration := &models.SeriesRegistration{
		SeriesID:        input.SeriesID,
		ContactPlayerID: input.ContactPlayerID,
		GroupName:       normalizeOptional(input.GroupName),
		TeamName:        normalizeOptional(input.TeamName),
	}

	abbreviation := normalizeOptional(input.TeamAbbreviation)
	if registration.TeamName != nil {
		if abbreviation == nil {
			return nil, ErrAbbreviationRequired
		}
		upper := strings.ToUpper(*abbreviation)
		abbreviation = &upper
	}
	registration.TeamAbbreviation = abbreviation

	return registration, nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
