package password

import "unicode"

// Strength is a coarse password quality band used for UI feedback.
type Strength string

const (
	StrengthWeak   Strength = "weak"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

// Evaluation is the result of scoring a candidate password.
type Evaluation struct {
	Score    int      `json:"score"`
	Strength Strength `json:"strength"`
}

// Evaluate scores a password one point per satisfied criterion: length >= 8,
// an upper-case letter, a lower-case letter, a digit, and a symbol.
func Evaluate(pw string) Evaluation {
	var upper, lower, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	score := 0
	if len(pw) >= 8 {
		score++
	}
	for _, ok := range []bool{upper, lower, digit, symbol} {
		if ok {
			score++
		}
	}

	strength := StrengthWeak
	switch {
	case score >= 4:
		strength = StrengthStrong
	case score >= 3:
		strength = StrengthMedium
	}

	return Evaluation{Score: score, Strength: strength}
}
