package services

import (
	"testing"

	"github.com/isdelr/daily-diet-be/internal/models"
	"github.com/stretchr/testify/assert"
)

func mealsFromFlags(flags ...bool) []models.Meal {
	meals := make([]models.Meal, len(flags))
	for i, f := range flags {
		meals[i] = models.Meal{IsDiet: f}
	}
	return meals
}

func TestSummarize(t *testing.T) {
	const T, F = true, false

	tests := []struct {
		name  string
		flags []bool
		want  models.Summary
	}{
		{
			name:  "no meals",
			flags: nil,
			want:  models.Summary{},
		},
		{
			name:  "single diet meal",
			flags: []bool{T},
			want:  models.Summary{TotalMeals: 1, InDietMeals: 1, BestSequenceDietMeals: 1},
		},
		{
			name:  "single cheat meal",
			flags: []bool{F},
			want:  models.Summary{TotalMeals: 1, NotInDietMeals: 1},
		},
		{
			name:  "two day fixture",
			flags: []bool{T, T, T, T, T, F, T, T, T, T, F, F},
			want:  models.Summary{TotalMeals: 12, InDietMeals: 9, NotInDietMeals: 3, BestSequenceDietMeals: 5},
		},
		{
			name:  "longest run at the end",
			flags: []bool{T, F, T, T, F, T, T, T},
			want:  models.Summary{TotalMeals: 8, InDietMeals: 6, NotInDietMeals: 2, BestSequenceDietMeals: 3},
		},
		{
			name:  "equal runs",
			flags: []bool{T, T, F, T, T},
			want:  models.Summary{TotalMeals: 5, InDietMeals: 4, NotInDietMeals: 1, BestSequenceDietMeals: 2},
		},
		{
			name:  "all cheat",
			flags: []bool{F, F, F},
			want:  models.Summary{TotalMeals: 3, NotInDietMeals: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(mealsFromFlags(tt.flags...)))
		})
	}
}

// longestRun is a brute-force reference for the streak.
func longestRun(flags []bool) int {
	best := 0
	for i := range flags {
		n := 0
		for j := i; j < len(flags) && flags[j]; j++ {
			n++
		}
		if n > best {
			best = n
		}
	}
	return best
}

func TestSummarize_MatchesBruteForce(t *testing.T) {
	// every flag sequence up to length 10
	for n := 0; n <= 10; n++ {
		for mask := 0; mask < 1<<n; mask++ {
			flags := make([]bool, n)
			diet := 0
			for i := range flags {
				flags[i] = mask&(1<<i) != 0
				if flags[i] {
					diet++
				}
			}

			got := Summarize(mealsFromFlags(flags...))
			if got.BestSequenceDietMeals != longestRun(flags) || got.InDietMeals != diet ||
				got.NotInDietMeals != n-diet || got.TotalMeals != n {
				t.Fatalf("flags %v: got %+v", flags, got)
			}
		}
	}
}
