package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tarujar/kantalakyykka/models"
	"github.com/tarujar/kantalakyykka/repositories"
	"github.com/tarujar/kantalakyykka/scoring"
	"golang.org/x/sync/errgroup"
)

// ScoreSheet is the wire shape of a game's score sheet. GET returns it
// with rotation defaults filled in for rounds not yet thrown; PUT accepts
// the same shape back.
type ScoreSheet struct {
	GameID  int `json:"game_id"`
	Score11 int `json:"score_1_1"`
	Score12 int `json:"score_1_2"`
	Score21 int `json:"score_2_1"`
	Score22 int `json:"score_2_2"`

	Team1 TeamSheet `json:"team_1"`
	Team2 TeamSheet `json:"team_2"`
}

type TeamSheet struct {
	RegistrationID int          `json:"registration_id"`
	Rounds         []SheetRound `json:"rounds"`
}

// SheetRound is one team's half of one round: two throwers, four throws.
// Throw tokens are raw score-sheet cells ("7", "H", "F", "E" or empty).
type SheetRound struct {
	SetIndex      int       `json:"set_index"`
	ThrowPosition int       `json:"throw_position"`
	Slot1PlayerID int       `json:"slot_1_player_id"`
	Slot2PlayerID int       `json:"slot_2_player_id"`
	Throws        [4]string `json:"throws"`
}

// ScoreSheetUpdatePayload is broadcast to the game's websocket room after
// a successful save.
type ScoreSheetUpdatePayload struct {
	Type  string      `json:"type"`
	Sheet *ScoreSheet `json:"sheet"`
}

type ScoreSheetBroadcaster interface {
	BroadcastToGame(gameID int, message []byte)
}

type ScoreSheetService interface {
	Load(ctx context.Context, gameID int) (*ScoreSheet, error)
	Save(ctx context.Context, gameID int, sheet ScoreSheet) (*ScoreSheet, error)
}

type scoreSheetService struct {
	db               *sql.DB
	rules            scoring.Rules
	gameRepo         repositories.GameRepository
	seriesRepo       repositories.SeriesRepository
	gameTypeRepo     repositories.GameTypeRepository
	registrationRepo repositories.RegistrationRepository
	singleThrowRepo  repositories.SingleThrowRepository
	roundThrowRepo   repositories.RoundThrowRepository
	broadcaster      ScoreSheetBroadcaster
	logger           *slog.Logger
}

func NewScoreSheetService(
	db *sql.DB,
	rules scoring.Rules,
	gameRepo repositories.GameRepository,
	seriesRepo repositories.SeriesRepository,
	gameTypeRepo repositories.GameTypeRepository,
	registrationRepo repositories.RegistrationRepository,
	singleThrowRepo repositories.SingleThrowRepository,
	roundThrowRepo repositories.RoundThrowRepository,
	broadcaster ScoreSheetBroadcaster,
	logger *slog.Logger,
) ScoreSheetService {
	return &scoreSheetService{
		db:               db,
		rules:            rules,
		gameRepo:         gameRepo,
		seriesRepo:       seriesRepo,
		gameTypeRepo:     gameTypeRepo,
		registrationRepo: registrationRepo,
		singleThrowRepo:  singleThrowRepo,
		roundThrowRepo:   roundThrowRepo,
		broadcaster:      broadcaster,
		logger:           logger,
	}
}

// gameContext bundles everything the engine needs to interpret a sheet.
type gameContext struct {
	game      *models.Game
	gameType  *models.GameType
	rotation  scoring.Rotation
	rosters   map[int]map[int]bool // registration id -> set of player ids
	rosterIDs map[int][]int        // registration id -> ordered player ids
}

// plannedThrow is one classified throw ready to persist.
type plannedThrow struct {
	throwType  models.ThrowType
	score      int
	playerID   int
	throwIndex int
}

// plannedRound is one round row plus its four throws, keyed by the
// (set index, throw position, home team) natural key.
type plannedRound struct {
	setIndex      int
	throwPosition int
	homeTeam      bool
	teamID        int
	leadPlayerID  int
	throws        [4]plannedThrow
}

func (s *scoreSheetService) Load(ctx context.Context, gameID int) (*ScoreSheet, error) {
	gc, err := s.loadGameContext(ctx, gameID)
	if err != nil {
		return nil, err
	}

	roundThrows, err := s.roundThrowRepo.ListByGame(ctx, nil, gameID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list round throws for game %d: %w", ErrPersistenceFailure, gameID, err)
	}

	throwIDs := make([]int, 0, len(roundThrows)*4)
	for _, rt := range roundThrows {
		for _, id := range rt.ThrowIDs() {
			if id != nil {
				throwIDs = append(throwIDs, *id)
			}
		}
	}
	throws, err := s.singleThrowRepo.GetByIDs(ctx, nil, throwIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load throws for game %d: %w", ErrPersistenceFailure, gameID, err)
	}

	persisted := make(map[roundKey]*models.SingleRoundThrow, len(roundThrows))
	for _, rt := range roundThrows {
		persisted[roundKey{rt.GameSetIndex, rt.ThrowPosition, rt.HomeTeam}] = rt
	}

	sheet := &ScoreSheet{
		GameID:  gameID,
		Score11: gc.game.Score11,
		Score12: gc.game.Score12,
		Score21: gc.game.Score21,
		Score22: gc.game.Score22,
		Team1:   s.buildTeamSheet(gc, gc.game.Team1ID, true, persisted, throws),
		Team2:   s.buildTeamSheet(gc, gc.game.Team2ID, false, persisted, throws),
	}
	return sheet, nil
}

func (s *scoreSheetService) Save(ctx context.Context, gameID int, sheet ScoreSheet) (*ScoreSheet, error) {
	gc, err := s.loadGameContext(ctx, gameID)
	if err != nil {
		return nil, err
	}

	for _, score := range []int{sheet.Score11, sheet.Score12, sheet.Score21, sheet.Score22} {
		if !s.rules.ValidRoundScore(score) {
			return nil, fmt.Errorf("%w: %d outside [%d, %d]",
				ErrScoreOutOfRange, score, s.rules.RoundScoreMin, s.rules.RoundScoreMax)
		}
	}

	plan, err := s.buildPlan(gc, sheet)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to begin transaction: %w", ErrPersistenceFailure, err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed after score sheet error",
					"game_id", gameID, "error", txErr, "rollback_error", rbErr)
			}
		}
	}()

	if txErr = s.applyPlan(ctx, tx, gc, sheet, plan); txErr != nil {
		return nil, txErr
	}
	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("%w: failed to commit score sheet for game %d: %w", ErrPersistenceFailure, gameID, txErr)
	}

	saved, err := s.Load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	s.broadcast(saved)
	return saved, nil
}

func (s *scoreSheetService) loadGameContext(ctx context.Context, gameID int) (*gameContext, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("%w: failed to get game %d: %w", ErrPersistenceFailure, gameID, err)
	}

	gc := &gameContext{
		game:      game,
		rosters:   make(map[int]map[int]bool, 2),
		rosterIDs: make(map[int][]int, 2),
	}

	teamIDs := [2]int{game.Team1ID, game.Team2ID}
	var rosters [2][]models.Player

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		series, err := s.seriesRepo.GetByID(gCtx, game.SeriesID)
		if err != nil {
			return fmt.Errorf("failed to load series %d: %w", game.SeriesID, err)
		}
		gameType, err := s.gameTypeRepo.GetByID(gCtx, series.GameTypeID)
		if err != nil {
			return fmt.Errorf("failed to load game type %d: %w", series.GameTypeID, err)
		}
		gc.gameType = gameType
		return nil
	})
	for i, teamID := range teamIDs {
		i, teamID := i, teamID
		g.Go(func() error {
			roster, err := s.registrationRepo.GetRoster(gCtx, teamID)
			if err != nil {
				return fmt.Errorf("failed to load roster for registration %d: %w", teamID, err)
			}
			rosters[i] = roster
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}

	for i, teamID := range teamIDs {
		members := make(map[int]bool, len(rosters[i]))
		ids := make([]int, 0, len(rosters[i]))
		for _, p := range rosters[i] {
			members[p.ID] = true
			ids = append(ids, p.ID)
		}
		gc.rosters[teamID] = members
		gc.rosterIDs[teamID] = ids
	}

	gc.rotation = scoring.Rotation{
		PlayersPerTeam: gc.gameType.GamePlayerAmount,
		RoundsPerSet:   gc.gameType.ThrowRoundAmount,
		SetCount:       gc.gameType.GameSetCount,
	}
	return gc, nil
}

// buildPlan classifies and validates the whole sheet before anything is
// written. It returns a plan only if every non-empty round is fully valid.
func (s *scoreSheetService) buildPlan(gc *gameContext, sheet ScoreSheet) ([]plannedRound, error) {
	plan := make([]plannedRound, 0)

	teams := []struct {
		sheet    TeamSheet
		teamID   int
		homeTeam bool
	}{
		{sheet.Team1, gc.game.Team1ID, true},
		{sheet.Team2, gc.game.Team2ID, false},
	}

	for _, team := range teams {
		for _, round := range team.sheet.Rounds {
			if roundIsEmpty(round) {
				continue
			}
			planned, err := s.planRound(gc, team.teamID, team.homeTeam, round)
			if err != nil {
				return nil, err
			}
			plan = append(plan, *planned)
		}
	}
	return plan, nil
}

func (s *scoreSheetService) planRound(gc *gameContext, teamID int, homeTeam bool, round SheetRound) (*plannedRound, error) {
	if round.SetIndex < 1 || round.SetIndex > gc.rotation.SetCount ||
		round.ThrowPosition < 1 || round.ThrowPosition > gc.rotation.RoundsPerSet {
		return nil, fmt.Errorf("%w: round %d of set %d outside game layout",
			ErrValidationFailed, round.ThrowPosition, round.SetIndex)
	}
	if round.Slot1PlayerID == 0 || round.Slot2PlayerID == 0 {
		return nil, fmt.Errorf("%w: set %d round %d", ErrPlayerSelectionRequired, round.SetIndex, round.ThrowPosition)
	}

	roster := gc.rosters[teamID]
	for _, playerID := range []int{round.Slot1PlayerID, round.Slot2PlayerID} {
		if !roster[playerID] {
			return nil, fmt.Errorf("%w: player %d is not on the roster of registration %d",
				ErrInvalidPlayerSelection, playerID, teamID)
		}
	}

	planned := &plannedRound{
		setIndex:      round.SetIndex,
		throwPosition: round.ThrowPosition,
		homeTeam:      homeTeam,
		teamID:        teamID,
		leadPlayerID:  round.Slot1PlayerID,
	}

	slotPlayers := [scoring.SlotsPerRound]int{round.Slot1PlayerID, round.Slot2PlayerID}
	for i, token := range round.Throws {
		throwNum := i + 1
		throwType, score, err := s.rules.ClassifyThrow(token)
		if err != nil {
			return nil, fmt.Errorf("%w: set %d round %d throw %d: %w",
				ErrInvalidThrowValue, round.SetIndex, round.ThrowPosition, throwNum, err)
		}
		planned.throws[i] = plannedThrow{
			throwType:  throwType,
			score:      score,
			playerID:   slotPlayers[scoring.SlotForThrow(throwNum)-1],
			throwIndex: gc.rotation.ThrowIndex(round.SetIndex, round.ThrowPosition, homeTeam, throwNum),
		}
	}
	return planned, nil
}

// applyPlan upserts the planned rounds inside exec. Existing round rows,
// matched by natural key, keep their throw rows and get them updated in
// place so throw ids stay stable across re-submissions.
func (s *scoreSheetService) applyPlan(ctx context.Context, exec repositories.SQLExecutor, gc *gameContext, sheet ScoreSheet, plan []plannedRound) error {
	existingRounds, err := s.roundThrowRepo.ListByGame(ctx, exec, gc.game.ID)
	if err != nil {
		return fmt.Errorf("%w: failed to list existing round throws: %w", ErrPersistenceFailure, err)
	}
	existing := make(map[roundKey]*models.SingleRoundThrow, len(existingRounds))
	for _, rt := range existingRounds {
		existing[roundKey{rt.GameSetIndex, rt.ThrowPosition, rt.HomeTeam}] = rt
	}

	for i := range plan {
		planned := &plan[i]
		key := roundKey{planned.setIndex, planned.throwPosition, planned.homeTeam}
		if current, ok := existing[key]; ok {
			err = s.updateRound(ctx, exec, current, planned)
		} else {
			err = s.insertRound(ctx, exec, gc.game.ID, planned)
		}
		if err != nil {
			return err
		}
	}

	score11, score12, score21, score22 := sheet.Score11, sheet.Score12, sheet.Score21, sheet.Score22
	if s.rules.DeriveTeamScores {
		score11, score12, score21, score22, err = s.derivePersistedScores(ctx, exec, gc.game.ID)
		if err != nil {
			return err
		}
		for _, score := range []int{score11, score12, score21, score22} {
			if !s.rules.ValidRoundScore(score) {
				return fmt.Errorf("%w: derived score %d outside [%d, %d]",
					ErrScoreOutOfRange, score, s.rules.RoundScoreMin, s.rules.RoundScoreMax)
			}
		}
	}

	if err := s.gameRepo.UpdateScores(ctx, exec, gc.game.ID, score11, score12, score21, score22); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return ErrGameNotFound
		}
		return fmt.Errorf("%w: failed to update game scores: %w", ErrPersistenceFailure, err)
	}
	return nil
}

func (s *scoreSheetService) insertRound(ctx context.Context, exec repositories.SQLExecutor, gameID int, planned *plannedRound) error {
	var ids [4]int
	for i, pt := range planned.throws {
		throw := &models.SingleThrow{
			ThrowType:  pt.throwType,
			ThrowScore: pt.score,
			PlayerID:   pt.playerID,
			ThrowIndex: pt.throwIndex,
		}
		if err := s.singleThrowRepo.Insert(ctx, exec, throw); err != nil {
			return fmt.Errorf("%w: failed to insert throw: %w", ErrPersistenceFailure, err)
		}
		ids[i] = throw.ID
	}

	roundThrow := &models.SingleRoundThrow{
		GameID:        gameID,
		GameSetIndex:  planned.setIndex,
		ThrowPosition: planned.throwPosition,
		HomeTeam:      planned.homeTeam,
		TeamID:        planned.teamID,
		PlayerID:      planned.leadPlayerID,
	}
	roundThrow.SetThrowIDs(ids)

	if err := s.roundThrowRepo.Insert(ctx, exec, roundThrow); err != nil {
		if errors.Is(err, repositories.ErrRoundThrowDuplicate) {
			return ErrDuplicateRoundSlot
		}
		return fmt.Errorf("%w: failed to insert round throw: %w", ErrPersistenceFailure, err)
	}
	return nil
}

func (s *scoreSheetService) updateRound(ctx context.Context, exec repositories.SQLExecutor, current *models.SingleRoundThrow, planned *plannedRound) error {
	var ids [4]int
	for i, pt := range planned.throws {
		throw := &models.SingleThrow{
			ThrowType:  pt.throwType,
			ThrowScore: pt.score,
			PlayerID:   pt.playerID,
			ThrowIndex: pt.throwIndex,
		}
		linked := current.ThrowIDs()[i]
		if linked != nil {
			throw.ID = *linked
			if err := s.singleThrowRepo.Update(ctx, exec, throw); err != nil {
				return fmt.Errorf("%w: failed to update throw %d: %w", ErrPersistenceFailure, throw.ID, err)
			}
		} else {
			if err := s.singleThrowRepo.Insert(ctx, exec, throw); err != nil {
				return fmt.Errorf("%w: failed to insert throw: %w", ErrPersistenceFailure, err)
			}
		}
		ids[i] = throw.ID
	}

	current.TeamID = planned.teamID
	current.PlayerID = planned.leadPlayerID
	current.SetThrowIDs(ids)

	if err := s.roundThrowRepo.Update(ctx, exec, current); err != nil {
		return fmt.Errorf("%w: failed to update round throw %d: %w", ErrPersistenceFailure, current.ID, err)
	}
	return nil
}

func (s *scoreSheetService) buildTeamSheet(gc *gameContext, teamID int, homeTeam bool, persisted map[roundKey]*models.SingleRoundThrow, throws map[int]*models.SingleThrow) TeamSheet {
	team := TeamSheet{
		RegistrationID: teamID,
		Rounds:         make([]SheetRound, 0, gc.rotation.SetCount*gc.rotation.RoundsPerSet),
	}
	roster := gc.rosterIDs[teamID]

	for set := 1; set <= gc.rotation.SetCount; set++ {
		for roundNum := 1; roundNum <= gc.rotation.RoundsPerSet; roundNum++ {
			round := SheetRound{SetIndex: set, ThrowPosition: roundNum}

			// Absolute round across sets drives the rotation default.
			absoluteRound := (set-1)*gc.rotation.RoundsPerSet + roundNum
			for slot := 1; slot <= scoring.SlotsPerRound; slot++ {
				if idx := gc.rotation.PlayerIndex(absoluteRound, slot); idx < len(roster) {
					if slot == 1 {
						round.Slot1PlayerID = roster[idx]
					} else {
						round.Slot2PlayerID = roster[idx]
					}
				}
			}

			if rt, ok := persisted[roundKey{set, roundNum, homeTeam}]; ok {
				fillRoundFromPersisted(&round, rt, throws)
			}
			team.Rounds = append(team.Rounds, round)
		}
	}
	return team
}

func fillRoundFromPersisted(round *SheetRound, rt *models.SingleRoundThrow, throws map[int]*models.SingleThrow) {
	round.Slot1PlayerID = rt.PlayerID
	for i, id := range rt.ThrowIDs() {
		if id == nil {
			continue
		}
		throw, ok := throws[*id]
		if !ok {
			continue
		}
		round.Throws[i] = scoring.DisplayToken(throw.ThrowType, throw.ThrowScore)
		slot := scoring.SlotForThrow(i + 1)
		if slot == 1 {
			round.Slot1PlayerID = throw.PlayerID
		} else {
			round.Slot2PlayerID = throw.PlayerID
		}
	}
}

func (s *scoreSheetService) broadcast(sheet *ScoreSheet) {
	if s.broadcaster == nil {
		return
	}
	payload := ScoreSheetUpdatePayload{Type: "score_sheet_updated", Sheet: sheet}
	message, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to marshal score sheet broadcast", "game_id", sheet.GameID, "error", err)
		return
	}
	s.broadcaster.BroadcastToGame(sheet.GameID, message)
}

type roundKey struct {
	setIndex      int
	throwPosition int
	homeTeam      bool
}

func roundIsEmpty(round SheetRound) bool {
	if round.Slot1PlayerID != 0 || round.Slot2PlayerID != 0 {
		return false
	}
	for _, token := range round.Throws {
		if token != "" {
			return false
		}
	}
	return true
}

// derivePersistedScores sums the stored throw scores per set and side,
// reading the rounds back after the upsert. Summing persisted rows, not
// the submitted plan, keeps rounds from earlier submissions counted when
// a later sheet omits them. Sets beyond the second fold into the second
// score column.
func (s *scoreSheetService) derivePersistedScores(ctx context.Context, exec repositories.SQLExecutor, gameID int) (int, int, int, int, error) {
	rounds, err := s.roundThrowRepo.ListByGame(ctx, exec, gameID)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("%w: failed to list round throws for score derivation: %w", ErrPersistenceFailure, err)
	}

	throwIDs := make([]int, 0, len(rounds)*4)
	for _, rt := range rounds {
		for _, id := range rt.ThrowIDs() {
			if id != nil {
				throwIDs = append(throwIDs, *id)
			}
		}
	}
	throws, err := s.singleThrowRepo.GetByIDs(ctx, exec, throwIDs)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("%w: failed to load throws for score derivation: %w", ErrPersistenceFailure, err)
	}

	var home, away [2]int
	for _, rt := range rounds {
		col := 0
		if rt.GameSetIndex > 1 {
			col = 1
		}
		sum := 0
		for _, id := range rt.ThrowIDs() {
			if id == nil {
				continue
			}
			if throw, ok := throws[*id]; ok {
				sum += throw.ThrowScore
			}
		}
		if rt.HomeTeam {
			home[col] += sum
		} else {
			away[col] += sum
		}
	}
	return home[0], home[1], away[0], away[1], nil
}
