package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandBet_Direct(t *testing.T) {
	numbers, err := ExpandBet(BetTypeDirect, "42")
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, numbers)
}

func TestExpandBet_Reverse(t *testing.T) {
	numbers, err := ExpandBet(BetTypeReverse, "42")
	require.NoError(t, err)
	assert.Equal(t, []string{"42", "24"}, numbers)
}

func TestExpandBet_ReversePalindrome(t *testing.T) {
	// "77" reversed is itself: the set has one member, so the player is
	// charged for one wager, not two
	numbers, err := ExpandBet(BetTypeReverse, "77")
	require.NoError(t, err)
	assert.Equal(t, []string{"77"}, numbers)
}

func TestExpandBet_Double(t *testing.T) {
	numbers, err := ExpandBet(BetTypeDouble, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"00", "11", "22", "33", "44", "55", "66", "77", "88", "99"}, numbers)
}

func TestExpandBet_Head(t *testing.T) {
	numbers, err := ExpandBet(BetTypeHead, "7")
	require.NoError(t, err)
	assert.Equal(t, []string{"70", "71", "72", "73", "74", "75", "76", "77", "78", "79"}, numbers)
}

func TestExpandBet_Tail(t *testing.T) {
	numbers, err := ExpandBet(BetTypeTail, "7")
	require.NoError(t, err)
	assert.Equal(t, []string{"07", "17", "27", "37", "47", "57", "67", "77", "87", "97"}, numbers)
}

func TestExpandBet_InvalidInputs(t *testing.T) {
	tests := []struct {
		name      string
		betType   BetType
		rawNumber string
	}{
		{"direct one digit", BetTypeDirect, "4"},
		{"direct three digits", BetTypeDirect, "123"},
		{"direct non-numeric", BetTypeDirect, "4a"},
		{"direct empty", BetTypeDirect, ""},
		{"reverse one digit", BetTypeReverse, "4"},
		{"reverse non-numeric", BetTypeReverse, "ab"},
		{"head two digits", BetTypeHead, "42"},
		{"head non-numeric", BetTypeHead, "a"},
		{"head empty", BetTypeHead, ""},
		{"tail two digits", BetTypeTail, "42"},
		{"unknown type", BetType("triple"), "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			numbers, err := ExpandBet(tt.betType, tt.rawNumber)
			assert.Nil(t, numbers)
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestExpandBet_LeadingZeroPreserved(t *testing.T) {
	numbers, err := ExpandBet(BetTypeDirect, "07")
	require.NoError(t, err)
	assert.Equal(t, []string{"07"}, numbers)

	numbers, err = ExpandBet(BetTypeReverse, "07")
	require.NoError(t, err)
	assert.Equal(t, []string{"07", "70"}, numbers)
}

func TestParseBetType(t *testing.T) {
	for _, raw := range []string{"direct", "reverse", "double", "head", "tail"} {
		betType, err := ParseBetType(raw)
		require.NoError(t, err)
		assert.Equal(t, BetType(raw), betType)
	}

	_, err := ParseBetType("exacta")
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestIsTwoDigitNumber(t *testing.T) {
	assert.True(t, IsTwoDigitNumber("00"))
	assert.True(t, IsTwoDigitNumber("99"))
	assert.False(t, IsTwoDigitNumber("7"))
	assert.False(t, IsTwoDigitNumber("100"))
	assert.False(t, IsTwoDigitNumber("7a"))
	assert.False(t, IsTwoDigitNumber(""))
}
