package services

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarujar/kantalakyykka/models"
	"github.com/tarujar/kantalakyykka/repositories"
)

type fakeRosterRegistrationRepo struct {
	repositories.RegistrationRepository
	registrations map[int]*models.SeriesRegistration
	rosters       map[int][]models.Player
	added         []RosterEntryCall
}

type RosterEntryCall struct {
	RegistrationID int
	PlayerID       int
}

func (f *fakeRosterRegistrationRepo) GetByID(_ context.Context, id int) (*models.SeriesRegistration, error) {
	registration, ok := f.registrations[id]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	return registration, nil
}

func (f *fakeRosterRegistrationRepo) GetRoster(_ context.Context, registrationID int) ([]models.Player, error) {
	return f.rosters[registrationID], nil
}

func (f *fakeRosterRegistrationRepo) AddRosterPlayer(_ context.Context, registrationID, playerID int) error {
	for _, p := range f.rosters[registrationID] {
		if p.ID == playerID {
			return repositories.ErrRosterDuplicatePlayer
		}
	}
	f.rosters[registrationID] = append(f.rosters[registrationID], models.Player{ID: playerID})
	f.added = append(f.added, RosterEntryCall{registrationID, playerID})
	return nil
}

func newRosterFixture(teamPlayerAmount, currentRosterSize int) (*registrationService, *fakeRosterRegistrationRepo) {
	teamName := "Puulaaki"
	registration := &models.SeriesRegistration{ID: 5, SeriesID: 1, TeamName: &teamName, ContactPlayerID: 101}

	roster := make([]models.Player, 0, currentRosterSize)
	for i := 0; i < currentRosterSize; i++ {
		roster = append(roster, models.Player{ID: 101 + i})
	}

	registrationRepo := &fakeRosterRegistrationRepo{
		registrations: map[int]*models.SeriesRegistration{5: registration},
		rosters:       map[int][]models.Player{5: roster},
	}

	service := &registrationService{
		registrationRepo: registrationRepo,
		seriesRepo: &fakeSeriesRepo{series: map[int]*models.Series{
			1: {ID: 1, Name: "Halkoliiga", Year: 2025, GameTypeID: 1, RegistrationOpen: true},
		}},
		gameTypeRepo: &fakeGameTypeRepo{gameTypes: map[int]*models.GameType{
			1: {ID: 1, TeamPlayerAmount: teamPlayerAmount, GamePlayerAmount: 4, ThrowRoundAmount: 4, GameSetCount: 2, KyykkaAmount: 40},
		}},
		logger: slog.Default(),
	}
	return service, registrationRepo
}

func TestAddRosterPlayerWithinCap(t *testing.T) {
	service, repo := newRosterFixture(6, 4)

	err := service.AddRosterPlayer(context.Background(), 5, 999)
	require.NoError(t, err)
	assert.Len(t, repo.rosters[5], 5)
}

func TestAddRosterPlayerRejectsFullRoster(t *testing.T) {
	service, repo := newRosterFixture(6, 6)

	err := service.AddRosterPlayer(context.Background(), 5, 999)
	require.ErrorIs(t, err, ErrRosterFull)
	assert.Empty(t, repo.added)
}

func TestAddRosterPlayerDuplicate(t *testing.T) {
	service, _ := newRosterFixture(6, 4)

	err := service.AddRosterPlayer(context.Background(), 5, 101)
	require.ErrorIs(t, err, ErrRosterDuplicatePlayer)
}

func TestAddRosterPlayerUnknownRegistration(t *testing.T) {
	service, _ := newRosterFixture(6, 4)

	err := service.AddRosterPlayer(context.Background(), 404, 999)
	require.ErrorIs(t, err, ErrRegistrationNotFound)
}

func TestUploadLogoWithoutStorage(t *testing.T) {
	service, _ := newRosterFixture(6, 4)

	_, err := service.UploadLogo(context.Background(), 5, "image/png", strings.NewReader("png bytes"))
	require.ErrorIs(t, err, ErrLogoStorageDisabled)
}

func TestRegistrationInputRequiresAbbreviationForTeams(t *testing.T) {
	teamName := "Puulaaki"
	_, err := registrationFromInput(RegistrationInput{
		SeriesID:        1,
		TeamName:        &teamName,
		ContactPlayerID: 101,
	})
	require.ErrorIs(t, err, ErrAbbreviationRequired)

	abbreviation := "pul"
	registration, err := registrationFromInput(RegistrationInput{
		SeriesID:         1,
		TeamName:         &teamName,
		TeamAbbreviation: &abbreviation,
		ContactPlayerID:  101,
	})
	require.NoError(t, err)
	require.NotNil(t, registration.TeamAbbreviation)
	assert.Equal(t, "PUL", *registration.TeamAbbreviation)
	assert.True(t, registration.IsTeam())
}

func TestRegistrationInputPersonalEntry(t *testing.T) {
	registration, err := registrationFromInput(RegistrationInput{
		SeriesID:        1,
		ContactPlayerID: 101,
	})
	require.NoError(t, err)
	assert.Nil(t, registration.TeamName)
	assert.Nil(t, registration.TeamAbbreviation)
	assert.False(t, registration.IsTeam())

	blank := "   "
	registration, err = registrationFromInput(RegistrationInput{
		SeriesID:        1,
		TeamName:        &blank,
		ContactPlayerID: 101,
	})
	require.NoError(t, err)
	assert.False(t, registration.IsTeam())
}
