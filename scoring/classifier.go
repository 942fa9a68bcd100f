package scoring

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tarujar/kantalakyykka/models"
)

// ErrInvalidThrowValue marks a throw token that is neither a recognized
// letter code nor a numeric score within bounds.
var ErrInvalidThrowValue = errors.New("invalid throw value")

// ClassifyThrow parses one raw score-sheet token into a throw type and
// numeric score. Tokens are trimmed and case-insensitive: "H" is a hauki
// (miss), "F" a fault, "E" or an empty cell an unused throw; anything
// else must parse as an integer within the single-throw bounds.
func (r Rules) ClassifyThrow(raw string) (models.ThrowType, int, error) {
	token := strings.ToUpper(strings.TrimSpace(raw))

	switch token {
	case "H":
		return models.ThrowHauki, 0, nil
	case "F":
		return models.ThrowFault, 0, nil
	case "E", "":
		return models.ThrowUnused, r.UnusedThrowScore, nil
	}

	score, err := strconv.Atoi(token)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidThrowValue, raw)
	}
	if !r.ValidThrowScore(score) {
		return "", 0, fmt.Errorf("%w: %d out of range [%d, %d]",
			ErrInvalidThrowValue, score, r.SingleThrowMin, r.SingleThrowMax)
	}
	return models.ThrowValid, score, nil
}

// DisplayToken renders a persisted throw back into the token the score
// sheet showed when it was entered.
func DisplayToken(t models.ThrowType, score int) string {
	switch t {
	case models.ThrowHauki:
		return "H"
	case models.ThrowFault:
		return "F"
	case models.ThrowUnused:
		return "E"
	default:
		return strconv.Itoa(score)
	}
}
