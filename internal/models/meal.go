package models

// Meal is a single meal record owned by a user.
type Meal struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Date        string  `json:"date"` // sortable text, e.g. "2024-02-20 08:00"
	IsDiet      bool    `json:"is_diet"`
	UserID      *string `json:"user_id"` // nil for an orphaned row
}

// OwnedBy reports whether the meal belongs to userID. Orphaned meals belong
// to nobody.
func (m Meal) OwnedBy(userID string) bool {
	return m.UserID != nil && *m.UserID == userID
}

// Summary holds the diet statistics for one user's meals.
type Summary struct {
	TotalMeals            int `json:"totalMeals"`
	InDietMeals           int `json:"inDietMeals"`
	NotInDietMeals        int `json:"notInDietMeals"`
	BestSequenceDietMeals int `json:"bestSequenceDietMeals"`
}
