package grading

import (
	"testing"

	"sqltester/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	ada := [][]string{{"1", "Ada"}, {"2", "Lin"}}
	adaReversed := [][]string{{"2", "Lin"}, {"1", "Ada"}}
	other := [][]string{{"1", "Ada"}, {"3", "Kay"}}

	tests := []struct {
		name string
		user [][]string
		key  [][]string
		want int
	}{
		{name: "identical rows identical order", user: ada, key: ada, want: model.ScoreExactMatch},
		{name: "identical rows different order", user: ada, key: adaReversed, want: model.ScoreOrderMatch},
		{name: "differing row", user: ada, key: other, want: model.ScoreWrong},
		{name: "both empty", user: nil, key: nil, want: model.ScoreExactMatch},
		{name: "user empty key not", user: nil, key: ada, want: model.ScoreWrong},
		{name: "subset is wrong", user: ada[:1], key: ada, want: model.ScoreWrong},
		{name: "duplicate counts differ", user: [][]string{{"x"}, {"x"}}, key: [][]string{{"x"}}, want: model.ScoreWrong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(Normalize(tt.user), Normalize(tt.key)))
		})
	}
}

// Exact match must win before the order-insensitive comparison runs.
func TestScoreExactBeatsOrderMatch(t *testing.T) {
	text := Normalize([][]string{{"2", "Lin"}, {"1", "Ada"}})
	assert.Equal(t, model.ScoreExactMatch, Score(text, text))
}
