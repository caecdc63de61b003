package entities

import "fmt"

// BetType is the expansion rule mapping one player input to one or more wagers
type BetType string

const (
	BetTypeDirect  BetType = "direct"
	BetTypeReverse BetType = "reverse"
	BetTypeDouble  BetType = "double"
	BetTypeHead    BetType = "head"
	BetTypeTail    BetType = "tail"
)

// ParseBetType converts a raw string into a BetType
func ParseBetType(raw string) (BetType, error) {
	switch BetType(raw) {
	case BetTypeDirect, BetTypeReverse, BetTypeDouble, BetTypeHead, BetTypeTail:
		return BetType(raw), nil
	default:
		return "", &ValidationError{Reason: fmt.Sprintf("unknown bet type %q", raw)}
	}
}

// ExpandBet expands a bet type and raw number input into the canonical set of
// two-digit numbers. Each member of the returned set becomes an independent
// wager carrying the full per-number stake.
func ExpandBet(betType BetType, rawNumber string) ([]string, error) {
	switch betType {
	case BetTypeDirect:
		if !isTwoDigits(rawNumber) {
			return nil, &ValidationError{Reason: fmt.Sprintf("direct bet requires a two-digit number, got %q", rawNumber)}
		}
		return []string{rawNumber}, nil

	case BetTypeReverse:
		if !isTwoDigits(rawNumber) {
			return nil, &ValidationError{Reason: fmt.Sprintf("reverse bet requires a two-digit number, got %q", rawNumber)}
		}
		reversed := string([]byte{rawNumber[1], rawNumber[0]})
		if reversed == rawNumber {
			// Palindrome: the set has exactly one member, charged once
			return []string{rawNumber}, nil
		}
		return []string{rawNumber, reversed}, nil

	case BetTypeDouble:
		numbers := make([]string, 0, 10)
		for d := byte('0'); d <= '9'; d++ {
			numbers = append(numbers, string([]byte{d, d}))
		}
		return numbers, nil

	case BetTypeHead:
		if !isOneDigit(rawNumber) {
			return nil, &ValidationError{Reason: fmt.Sprintf("head bet requires a single digit, got %q", rawNumber)}
		}
		numbers := make([]string, 0, 10)
		for d := byte('0'); d <= '9'; d++ {
			numbers = append(numbers, string([]byte{rawNumber[0], d}))
		}
		return numbers, nil

	case BetTypeTail:
		if !isOneDigit(rawNumber) {
			return nil, &ValidationError{Reason: fmt.Sprintf("tail bet requires a single digit, got %q", rawNumber)}
		}
		numbers := make([]string, 0, 10)
		for d := byte('0'); d <= '9'; d++ {
			numbers = append(numbers, string([]byte{d, rawNumber[0]}))
		}
		return numbers, nil

	default:
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown bet type %q", betType)}
	}
}

// IsTwoDigitNumber reports whether s is a valid wager number ("00".."99")
func IsTwoDigitNumber(s string) bool {
	return isTwoDigits(s)
}

func isTwoDigits(s string) bool {
	return len(s) == 2 && isDigit(s[0]) && isDigit(s[1])
}

func isOneDigit(s string) bool {
	return len(s) == 1 && isDigit(s[0])
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
