package services

import "github.com/isdelr/daily-diet-be/internal/models"

// Summarize computes diet statistics over meals, which must already be
// ordered by date. A non-diet meal resets the running streak; the best
// streak only moves when the running one strictly exceeds it.
func Summarize(meals []models.Meal) models.Summary {
	summary := models.Summary{TotalMeals: len(meals)}

	streak := 0
	for _, meal := range meals {
		if meal.IsDiet {
			summary.InDietMeals++
			streak++
		} else {
			summary.NotInDietMeals++
			streak = 0
		}
		if streak > summary.BestSequenceDietMeals {
			summary.BestSequenceDietMeals = streak
		}
	}
	return summary
}
