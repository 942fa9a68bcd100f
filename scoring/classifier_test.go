package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarujar/kantalakyykka/models"
)

func TestClassifyThrowLetterCodes(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		raw       string
		wantType  models.ThrowType
		wantScore int
	}{
		{"H", models.ThrowHauki, 0},
		{"h", models.ThrowHauki, 0},
		{" h ", models.ThrowHauki, 0},
		{"F", models.ThrowFault, 0},
		{"f", models.ThrowFault, 0},
		{"E", models.ThrowUnused, 1},
		{"e", models.ThrowUnused, 1},
		{"", models.ThrowUnused, 1},
		{"  ", models.ThrowUnused, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.raw), func(t *testing.T) {
			throwType, score, err := rules.ClassifyThrow(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, throwType)
			assert.Equal(t, tt.wantScore, score)
		})
	}
}

func TestClassifyThrowUnusedPolicyZero(t *testing.T) {
	rules := DefaultRules()
	rules.UnusedThrowScore = 0

	for _, raw := range []string{"E", ""} {
		throwType, score, err := rules.ClassifyThrow(raw)
		require.NoError(t, err)
		assert.Equal(t, models.ThrowUnused, throwType)
		assert.Equal(t, 0, score)
	}
}

func TestClassifyThrowNumeric(t *testing.T) {
	rules := DefaultRules()

	for _, n := range []int{-40, -1, 0, 1, 10, 79, 80} {
		throwType, score, err := rules.ClassifyThrow(fmt.Sprintf("%d", n))
		require.NoError(t, err)
		assert.Equal(t, models.ThrowValid, throwType)
		assert.Equal(t, n, score)
	}
}

func TestClassifyThrowRejectsOutOfRange(t *testing.T) {
	rules := DefaultRules()

	for _, raw := range []string{"81", "-41", "100", "-999"} {
		_, _, err := rules.ClassifyThrow(raw)
		assert.ErrorIs(t, err, ErrInvalidThrowValue, "token %q", raw)
	}
}

func TestClassifyThrowRejectsGarbage(t *testing.T) {
	rules := DefaultRules()

	for _, raw := range []string{"abc", "1.5", "x", "10a", "--1", "+"} {
		_, _, err := rules.ClassifyThrow(raw)
		assert.ErrorIs(t, err, ErrInvalidThrowValue, "token %q", raw)
	}
}

func TestClassifyThrowLegacyBounds(t *testing.T) {
	rules := DefaultRules()
	rules.SingleThrowMin = -80

	throwType, score, err := rules.ClassifyThrow("-80")
	require.NoError(t, err)
	assert.Equal(t, models.ThrowValid, throwType)
	assert.Equal(t, -80, score)

	_, _, err = rules.ClassifyThrow("-81")
	assert.ErrorIs(t, err, ErrInvalidThrowValue)
}

func TestDisplayTokenRoundTrip(t *testing.T) {
	rules := DefaultRules()

	// Every accepted token must reproduce itself through classify+display.
	for _, raw := range []string{"10", "-5", "0", "80", "H", "F", "E"} {
		throwType, score, err := rules.ClassifyThrow(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, DisplayToken(throwType, score))
	}
}
