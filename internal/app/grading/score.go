package grading

import "sqltester/internal/domain/model"

// Score compares two normalized result texts. First match wins: exact
// equality (row order and all cell text included) scores 100, equality
// after sorting lines scores 50, anything else scores 0.
func Score(userText, keyText string) int {
	if userText == keyText {
		return model.ScoreExactMatch
	}
	if OrderInsensitive(userText) == OrderInsensitive(keyText) {
		return model.ScoreOrderMatch
	}
	return model.ScoreWrong
}
