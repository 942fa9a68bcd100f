package services

import "errors"

// Shared errors used across services and the HTTP mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Scoring engine taxonomy.
	ErrGameNotFound            = errors.New("game not found")
	ErrInvalidThrowValue       = errors.New("invalid throw value")
	ErrPlayerSelectionRequired = errors.New("player selection is required")
	ErrInvalidPlayerSelection  = errors.New("invalid player selection")
	ErrScoreOutOfRange         = errors.New("score out of range")
	ErrDuplicateFixture        = errors.New("a game for this series, date, teams and round already exists")
	ErrDuplicateRoundSlot      = errors.New("round throw slot already recorded")
	ErrPersistenceFailure      = errors.New("persistence failure")

	// Entity lookups.
	ErrGameTypeNotFound     = errors.New("game type not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrSeriesNotFound       = errors.New("series not found")
	ErrRegistrationNotFound = errors.New("series registration not found")

	// Conflicts.
	ErrGameTypeNameConflict   = errors.New("game type name already exists")
	ErrPlayerEmailConflict    = errors.New("player email already registered")
	ErrSeriesNameYearConflict = errors.New("series with this name and year already exists")
	ErrAbbreviationConflict   = errors.New("team abbreviation already taken in this series")
	ErrRosterDuplicatePlayer  = errors.New("player already on roster")

	// Validation and business rules.
	ErrValidationFailed    = errors.New("validation failed")
	ErrGameTypeInUse       = errors.New("game type is in use and cannot be deleted")
	ErrPlayerInUse         = errors.New("player is in use and cannot be deleted")
	ErrSeriesInUse         = errors.New("series has registrations or games and cannot be deleted")
	ErrRegistrationInUse   = errors.New("registration has games and cannot be deleted")
	ErrRegistrationClosed  = errors.New("series registration is closed")
	ErrRosterFull          = errors.New("roster is full for this game type")
	ErrRosterEntryNotFound = errors.New("player is not on the roster")
	ErrSameTeamsInGame     = errors.New("a game requires two different registrations")
	ErrTeamsNotInSeries    = errors.New("both registrations must belong to the game's series")
)
