package domain

import "unicode/utf8"

type PasswordStrength string

const (
	StrengthNone   PasswordStrength = "none"
	StrengthWeak   PasswordStrength = "weak"
	StrengthMedium PasswordStrength = "medium"
	StrengthStrong PasswordStrength = "strong"
)

// MaxPasswordScore is the score of a password that passes every check.
const MaxPasswordScore = 6

// PasswordScore sums independent checks: length >= 8, length >= 12, and one
// point each for lowercase, uppercase, digit and any other character.
func PasswordScore(s string) int {
	score := 0
	n := utf8.RuneCountInString(s)
	if n >= 8 {
		score++
	}
	if n >= 12 {
		score++
	}

	classes := classify(s)
	for _, present := range []bool{classes.lower, classes.upper, classes.digit, classes.other} {
		if present {
			score++
		}
	}

	return score
}

func ScorePasswordStrength(s string) PasswordStrength {
	if s == "" {
		return StrengthNone
	}

	switch score := PasswordScore(s); {
	case score < 3:
		return StrengthWeak
	case score < 5:
		return StrengthMedium
	default:
		return StrengthStrong
	}
}
