package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarujar/kantalakyykka/models"
	"github.com/tarujar/kantalakyykka/repositories"
	"github.com/tarujar/kantalakyykka/scoring"
)

// The fakes embed the repository interfaces so only the methods the
// engine touches need implementations.

type fakeGameRepo struct {
	repositories.GameRepository
	games       map[int]*models.Game
	scoreWrites int
}

func (f *fakeGameRepo) GetByID(_ context.Context, id int) (*models.Game, error) {
	game, ok := f.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	copied := *game
	return &copied, nil
}

func (f *fakeGameRepo) UpdateScores(_ context.Context, _ repositories.SQLExecutor, gameID int, s11, s12, s21, s22 int) error {
	game, ok := f.games[gameID]
	if !ok {
		return repositories.ErrGameNotFound
	}
	game.Score11, game.Score12, game.Score21, game.Score22 = s11, s12, s21, s22
	f.scoreWrites++
	return nil
}

type fakeSeriesRepo struct {
	repositories.SeriesRepository
	series map[int]*models.Series
}

func (f *fakeSeriesRepo) GetByID(_ context.Context, id int) (*models.Series, error) {
	series, ok := f.series[id]
	if !ok {
		return nil, repositories.ErrSeriesNotFound
	}
	return series, nil
}

type fakeGameTypeRepo struct {
	repositories.GameTypeRepository
	gameTypes map[int]*models.GameType
}

func (f *fakeGameTypeRepo) GetByID(_ context.Context, id int) (*models.GameType, error) {
	gameType, ok := f.gameTypes[id]
	if !ok {
		return nil, repositories.ErrGameTypeNotFound
	}
	return gameType, nil
}

type fakeRegistrationRepo struct {
	repositories.RegistrationRepository
	rosters map[int][]models.Player
}

func (f *fakeRegistrationRepo) GetRoster(_ context.Context, registrationID int) ([]models.Player, error) {
	return f.rosters[registrationID], nil
}

type fakeSingleThrowRepo struct {
	throws map[int]*models.SingleThrow
	nextID int
}

func (f *fakeSingleThrowRepo) Insert(_ context.Context, _ repositories.SQLExecutor, throw *models.SingleThrow) error {
	f.nextID++
	throw.ID = f.nextID
	copied := *throw
	f.throws[throw.ID] = &copied
	return nil
}

func (f *fakeSingleThrowRepo) Update(_ context.Context, _ repositories.SQLExecutor, throw *models.SingleThrow) error {
	if _, ok := f.throws[throw.ID]; !ok {
		return repositories.ErrSingleThrowNotFound
	}
	copied := *throw
	f.throws[throw.ID] = &copied
	return nil
}

func (f *fakeSingleThrowRepo) GetByIDs(_ context.Context, _ repositories.SQLExecutor, ids []int) (map[int]*models.SingleThrow, error) {
	result := make(map[int]*models.SingleThrow, len(ids))
	for _, id := range ids {
		if throw, ok := f.throws[id]; ok {
			result[id] = throw
		}
	}
	return result, nil
}

type fakeRoundThrowRepo struct {
	rounds map[roundKey]*models.SingleRoundThrow
	nextID int
}

func (f *fakeRoundThrowRepo) Insert(_ context.Context, _ repositories.SQLExecutor, rt *models.SingleRoundThrow) error {
	key := roundKey{rt.GameSetIndex, rt.ThrowPosition, rt.HomeTeam}
	if _, ok := f.rounds[key]; ok {
		return repositories.ErrRoundThrowDuplicate
	}
	f.nextID++
	rt.ID = f.nextID
	copied := *rt
	f.rounds[key] = &copied
	return nil
}

func (f *fakeRoundThrowRepo) Update(_ context.Context, _ repositories.SQLExecutor, rt *models.SingleRoundThrow) error {
	key := roundKey{rt.GameSetIndex, rt.ThrowPosition, rt.HomeTeam}
	if _, ok := f.rounds[key]; !ok {
		return repositories.ErrRoundThrowNotFound
	}
	copied := *rt
	f.rounds[key] = &copied
	return nil
}

func (f *fakeRoundThrowRepo) ListByGame(_ context.Context, _ repositories.SQLExecutor, gameID int) ([]*models.SingleRoundThrow, error) {
	list := make([]*models.SingleRoundThrow, 0, len(f.rounds))
	for _, rt := range f.rounds {
		if rt.GameID == gameID {
			copied := *rt
			list = append(list, &copied)
		}
	}
	return list, nil
}

type engineFixture struct {
	service    *scoreSheetService
	games      *fakeGameRepo
	throws     *fakeSingleThrowRepo
	rounds     *fakeRoundThrowRepo
	homeRoster []int
	awayRoster []int
}

func newEngineFixture(t *testing.T, rules scoring.Rules) *engineFixture {
	t.Helper()

	gameType := &models.GameType{
		ID:               1,
		Name:             "Joukkuekyykka",
		TeamPlayerAmount: 4,
		GamePlayerAmount: 4,
		ThrowRoundAmount: 4,
		GameSetCount:     2,
		KyykkaAmount:     40,
	}
	series := &models.Series{ID: 1, Name: "Halkoliiga", Year: 2025, GameTypeID: 1}
	game := &models.Game{
		ID:       1,
		SeriesID: 1,
		GameDate: time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC),
		Team1ID:  10,
		Team2ID:  20,
	}

	homeRoster := []int{101, 102, 103, 104}
	awayRoster := []int{201, 202, 203, 204}
	rosterPlayers := func(ids []int) []models.Player {
		players := make([]models.Player, 0, len(ids))
		for _, id := range ids {
			players = append(players, models.Player{ID: id})
		}
		return players
	}

	games := &fakeGameRepo{games: map[int]*models.Game{1: game}}
	throws := &fakeSingleThrowRepo{throws: make(map[int]*models.SingleThrow)}
	rounds := &fakeRoundThrowRepo{rounds: make(map[roundKey]*models.SingleRoundThrow)}

	service := &scoreSheetService{
		rules:    rules,
		gameRepo: games,
		seriesRepo: &fakeSeriesRepo{
			series: map[int]*models.Series{1: series},
		},
		gameTypeRepo: &fakeGameTypeRepo{
			gameTypes: map[int]*models.GameType{1: gameType},
		},
		registrationRepo: &fakeRegistrationRepo{
			rosters: map[int][]models.Player{
				10: rosterPlayers(homeRoster),
				20: rosterPlayers(awayRoster),
			},
		},
		singleThrowRepo: throws,
		roundThrowRepo:  rounds,
		logger:          slog.Default(),
	}

	return &engineFixture{
		service:    service,
		games:      games,
		throws:     throws,
		rounds:     rounds,
		homeRoster: homeRoster,
		awayRoster: awayRoster,
	}
}

func homeRound(set, position, slot1, slot2 int, throws [4]string) SheetRound {
	return SheetRound{
		SetIndex:      set,
		ThrowPosition: position,
		Slot1PlayerID: slot1,
		Slot2PlayerID: slot2,
		Throws:        throws,
	}
}

func TestSaveGameNotFound(t *testing.T) {
	f := newEngineFixture(t, scoring.DefaultRules())

	_, err := f.service.Save(context.Background(), 999, ScoreSheet{})
	require.ErrorIs(t, err, ErrGameNotFound)
	assert.Zero(t, f.games.scoreWrites)
	assert.Empty(t, f.throws.throws)
}

func TestSaveAggregateScoreOutOfRange(t *testing.T) {
	f := newEngineFixture(t, scoring.DefaultRules())

	sheet := ScoreSheet{Score11: 20} // above the round score maximum of 19
	_, err := f.service.Save(context.Background(), 1, sheet)
	require.ErrorIs(t, err, ErrScoreOutOfRange)
	assert.Zero(t, f.games.scoreWrites)
	assert.Empty(t, f.throws.throws)

	sheet = ScoreSheet{Score21: -81}
	_, err = f.service.Save(context.Background(), 1, sheet)
	require.ErrorIs(t, err, ErrScoreOutOfRange)
}

func TestBuildPlanClassifiesTokens(t *testing.T) {
	f := newEngineFixture(t, scoring.DefaultRules())
	gc, err := f.service.loadGameContext(context.Background(), 1)
	require.NoError(t, err)

	sheet := ScoreSheet{
		Team1: TeamSheet{
			RegistrationID: 10,
			Rounds: []SheetRound{
				homeRound(1, 1, 101, 102, [4]string{"7", "h", "F", ""}),
			},
		},
	}

	plan, err := f.service.buildPlan(gc, sheet)
	require.NoError(t, err)
	require.Len(t, plan, 1)

	round := plan[0]
	assert.True(t, round.homeTeam)
	assert.Equal(t, 10, round.teamID)
	assert.Equal(t, 101, round.leadPlayerID)

	assert.Equal(t, models.ThrowValid, round.throws[0].throwType)
	assert.Equal(t, 7, round.throws[0].score)
	assert.Equal(t, models.ThrowHauki, round.throws[1].throwType)
	assert.Equal(t, 0, round.throws[1].score)
	assert.Equal(t, models.ThrowFault, round.throws[2].throwType)
	assert.Equal(t, 0, round.throws[2].score)
	assert.Equal(t, models.ThrowUnused, round.throws[3].throwType)
	assert.Equal(t, scoring.DefaultUnusedThrowScore, round.throws[3].score)

	// First two throws belong to slot 1, last two to slot 2.
	assert.Equal(t, 101, round.throws[0].playerID)
	assert.Equal(t, 101, round.throws[1].playerID)
	assert.Equal(t, 102, round.throws[2].playerID)
	assert.Equal(t, 102, round.throws[3].playerID)

	// Home team of set 1 round 1 takes canonical indexes 1..4.
	for i, pt := range round.throws {
		assert.Equal(t, i+1, pt.throwIndex)
	}
}

func TestBuildPlanSkipsEmptyRounds(t *testing.T) {
	f := newEngineFixture(t, scoring.DefaultRules())
	gc, err := f.service.loadGameContext(context.Background(), 1)
	require.NoError(t, err)

	sheet := ScoreSheet{
		Team1: TeamSheet{
			RegistrationID: 10,
			Rounds: []SheetRound{
				{SetIndex: 1, ThrowPosition: 1},
				homeRound(1, 2, 103, 104, [4]string{"4", "4", "H", "2"}),
				{SetIndex: 1, ThrowPosition: 3},
			},
		},
	}

	plan, err := f.service.buildPlan(gc, sheet)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, 2, plan[0].throwPosition)
}

func TestBuildPlanPlayerValidation(t *testing.T) {
	f := newEngineFixture(t, scoring.DefaultRules())
	gc, err := f.service.loadGameContext(context.Background(), 1)
	require.NoError(t, err)

	// Throws entered but no players selected.
	sheet := ScoreSheet{
		Team1: TeamSheet{
			RegistrationID: 10,
			Rounds:         []SheetRound{homeRound(1, 1, 0, 0, [4]string{"5", "", "", ""})},
		},
	}
	_, err = f.service.buildPlan(gc, sheet)
	assert.ErrorIs(t, err, ErrPlayerSelectionRequired)

	// Away player on the home sheet.
	sheet.Team1.Rounds = []SheetRound{homeRound(1, 1, 101, 201, [4]string{"5", "", "", ""})}
	_, err = f.service.buildPlan(gc, sheet)
	assert.ErrorIs(t, err, ErrInvalidPlayerSelection)
}

func TestBuildPlanRejectsInvalidTokens(t *testing.T) {
	f := newEngineFixture(t, scoring.DefaultRules())
	gc, err := f.service.loadGameContext(context.Background(), 1)
	require.NoError(t, err)

	for _, token := range []string{"81", "-41", "7.5", "X"} {
		sheet := ScoreSheet{
			Team1: TeamSheet{
				RegistrationID: 10,
				Rounds:         []SheetRound{homeRound(1, 1, 101, 102, [4]string{token, "", "", ""})},
			},
		}
		_, err := f.service.buildPlan(gc, sheet)
		assert.ErrorIs(t, err, ErrInvalidThrowValue, "token %q", token)
	}
}

func TestApplyPlanInsertsThenUpdatesInPlace(t *testing.T) {
	f := newEngineFixture(t, scoring.DefaultRules())
	ctx := context.Background()
	gc, err := f.service.loadGameContext(ctx, 1)
	require.NoError(t, err)

	sheet := ScoreSheet{
		Score11: 8,
		Team1: TeamSheet{
			RegistrationID: 10,
			Rounds:         []SheetRound{homeRound(1, 1, 101, 102, [4]string{"7", "H", "F", "1"})},
		},
	}

	plan, err := f.service.buildPlan(gc, sheet)
	require.NoError(t, err)
	require.NoError(t, f.service.applyPlan(ctx, nil, gc, sheet, plan))

	require.Len(t, f.rounds.rounds, 1)
	require.Len(t, f.throws.throws, 4)
	first := f.rounds.rounds[roundKey{1, 1, true}]
	firstIDs := first.ThrowIDs()

	// Resubmit with one corrected token: same rows, same ids.
	sheet.Team1.Rounds[0].Throws = [4]string{"7", "3", "F", "1"}
	plan, err = f.service.buildPlan(gc, sheet)
	require.NoError(t, err)
	require.NoError(t, f.service.applyPlan(ctx, nil, gc, sheet, plan))

	require.Len(t, f.rounds.rounds, 1)
	require.Len(t, f.throws.throws, 4)
	second := f.rounds.rounds[roundKey{1, 1, true}]
	assert.Equal(t, first.ID, second.ID)
	for i, id := range second.ThrowIDs() {
		require.NotNil(t, id)
		assert.Equal(t, *firstIDs[i], *id)
	}

	corrected := f.throws.throws[*second.ThrowIDs()[1]]
	assert.Equal(t, models.ThrowValid, corrected.ThrowType)
	assert.Equal(t, 3, corrected.ThrowScore)

	game := f.games.games[1]
	assert.Equal(t, 8, game.Score11)
	assert.Equal(t, 2, f.games.scoreWrites)
}

func TestApplyPlanDerivesTeamScores(t *testing.T) {
	rules := scoring.DefaultRules()
	rules.DeriveTeamScores = true
	f := newEngineFixture(t, rules)
	ctx := context.Background()
	gc, err := f.service.loadGameContext(ctx, 1)
	require.NoError(t, err)

	sheet := ScoreSheet{
		// Submitted aggregates are ignored when scores are derived.
		Score11: 19,
		Team1: TeamSheet{
			RegistrationID: 10,
			Rounds: []SheetRound{
				homeRound(1, 1, 101, 102, [4]string{"7", "H", "2", "1"}),
				{SetIndex: 2, ThrowPosition: 1, Slot1PlayerID: 101, Slot2PlayerID: 102, Throws: [4]string{"4", "4", "H", "H"}},
			},
		},
		Team2: TeamSheet{
			RegistrationID: 20,
			Rounds: []SheetRound{
				{SetIndex: 1, ThrowPosition: 1, Slot1PlayerID: 201, Slot2PlayerID: 202, Throws: [4]string{"-2", "5", "H", "H"}},
			},
		},
	}

	plan, err := f.service.buildPlan(gc, sheet)
	require.NoError(t, err)
	require.NoError(t, f.service.applyPlan(ctx, nil, gc, sheet, plan))

	game := f.games.games[1]
	assert.Equal(t, 10, game.Score11)
	assert.Equal(t, 8, game.Score12)
	assert.Equal(t, 3, game.Score21)
	assert.Equal(t, 0, game.Score22)
}

func TestApplyPlanRejectsDerivedScoreOutOfRange(t *testing.T) {
	rules := scoring.DefaultRules()
	rules.DeriveTeamScores = true
	f := newEngineFixture(t, rules)
	ctx := context.Background()
	gc, err := f.service.loadGameContext(ctx, 1)
	require.NoError(t, err)

	// Sums to 80, above the round score maximum of 19.
	sheet := ScoreSheet{
		Team1: TeamSheet{
			RegistrationID: 10,
			Rounds:         []SheetRound{homeRound(1, 1, 101, 102, [4]string{"20", "20", "20", "20"})},
		},
	}
	plan, err := f.service.buildPlan(gc, sheet)
	require.NoError(t, err)

	err = f.service.applyPlan(ctx, nil, gc, sheet, plan)
	require.ErrorIs(t, err, ErrScoreOutOfRange)
	assert.Zero(t, f.games.scoreWrites)
}

func TestApplyPlanDerivesFromPersistedRounds(t *testing.T) {
	rules := scoring.DefaultRules()
	rules.DeriveTeamScores = true
	f := newEngineFixture(t, rules)
	ctx := context.Background()
	gc, err := f.service.loadGameContext(ctx, 1)
	require.NoError(t, err)

	first := ScoreSheet{
		Team1: TeamSheet{
			RegistrationID: 10,
			Rounds:         []SheetRound{homeRound(1, 1, 101, 102, [4]string{"7", "H", "2", "1"})},
		},
	}
	plan, err := f.service.buildPlan(gc, first)
	require.NoError(t, err)
	require.NoError(t, f.service.applyPlan(ctx, nil, gc, first, plan))
	assert.Equal(t, 10, f.games.games[1].Score11)

	// A later sheet covering only set 2 must not wipe the set 1 sum.
	second := ScoreSheet{
		Team1: TeamSheet{
			RegistrationID: 10,
			Rounds: []SheetRound{
				{SetIndex: 2, ThrowPosition: 1, Slot1PlayerID: 101, Slot2PlayerID: 102, Throws: [4]string{"4", "4", "H", "H"}},
			},
		},
	}
	plan, err = f.service.buildPlan(gc, second)
	require.NoError(t, err)
	require.NoError(t, f.service.applyPlan(ctx, nil, gc, second, plan))

	game := f.games.games[1]
	assert.Equal(t, 10, game.Score11)
	assert.Equal(t, 8, game.Score12)
}

func TestLoadRoundTripsDisplayTokens(t *testing.T) {
	f := newEngineFixture(t, scoring.DefaultRules())
	ctx := context.Background()
	gc, err := f.service.loadGameContext(ctx, 1)
	require.NoError(t, err)

	submitted := [4]string{"7", "H", "F", "E"}
	sheet := ScoreSheet{
		Team1: TeamSheet{
			RegistrationID: 10,
			Rounds:         []SheetRound{homeRound(1, 2, 103, 104, submitted)},
		},
	}
	plan, err := f.service.buildPlan(gc, sheet)
	require.NoError(t, err)
	require.NoError(t, f.service.applyPlan(ctx, nil, gc, sheet, plan))

	loaded, err := f.service.Load(ctx, 1)
	require.NoError(t, err)

	// Full grid: two sets of four rounds per team.
	require.Len(t, loaded.Team1.Rounds, 8)
	require.Len(t, loaded.Team2.Rounds, 8)

	var round *SheetRound
	for i := range loaded.Team1.Rounds {
		r := &loaded.Team1.Rounds[i]
		if r.SetIndex == 1 && r.ThrowPosition == 2 {
			round = r
			break
		}
	}
	require.NotNil(t, round)
	assert.Equal(t, submitted, round.Throws)
	assert.Equal(t, 103, round.Slot1PlayerID)
	assert.Equal(t, 104, round.Slot2PlayerID)
}

func TestLoadPrefillsRotationDefaults(t *testing.T) {
	f := newEngineFixture(t, scoring.DefaultRules())

	loaded, err := f.service.Load(context.Background(), 1)
	require.NoError(t, err)

	// No throws yet: every round carries the rotation's default pair and
	// empty tokens.
	require.Len(t, loaded.Team1.Rounds, 8)
	for _, round := range loaded.Team1.Rounds {
		assert.Equal(t, [4]string{"", "", "", ""}, round.Throws)
	}

	// Rounds 1-2 use the first pair, rounds 3-4 the second, then repeat.
	assert.Equal(t, 101, loaded.Team1.Rounds[0].Slot1PlayerID)
	assert.Equal(t, 102, loaded.Team1.Rounds[0].Slot2PlayerID)
	assert.Equal(t, 103, loaded.Team1.Rounds[2].Slot1PlayerID)
	assert.Equal(t, 104, loaded.Team1.Rounds[2].Slot2PlayerID)
	assert.Equal(t, 101, loaded.Team1.Rounds[4].Slot1PlayerID)
}
