package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/isdelr/daily-diet-be/internal/database"
	"github.com/isdelr/daily-diet-be/internal/models"
)

// MealInput carries the mutable fields of a meal.
type MealInput struct {
	Name        string
	Description string
	Date        string
	IsDiet      bool
}

// MealServiceProvider defines the interface for meal services. Every method
// is scoped to the calling user.
type MealServiceProvider interface {
	ListMeals(ctx context.Context, userID string) ([]models.Meal, error)
	GetMeal(ctx context.Context, userID, mealID string) (models.Meal, error)
	CreateMeal(ctx context.Context, userID string, input MealInput) (models.Meal, error)
	UpdateMeal(ctx context.Context, userID, mealID string, input MealInput) (models.Meal, error)
	DeleteMeal(ctx context.Context, userID, mealID string) error
	GetSummary(ctx context.Context, userID string) (models.Summary, error)
}

// MealService provides business logic for meal management.
type MealService struct {
	db *sql.DB
}

// NewMealService creates a new MealService.
func NewMealService(db *sql.DB) *MealService {
	return &MealService{db: db}
}

const mealColumns = "id, name, description, date, is_diet, user_id"

// scanMeal is a helper to scan a meal from a row or rows object.
func scanMeal(scanner interface{ Scan(...any) error }) (models.Meal, error) {
	var meal models.Meal
	var userID sql.NullString
	if err := scanner.Scan(&meal.ID, &meal.Name, &meal.Description, &meal.Date, &meal.IsDiet, &userID); err != nil {
		return models.Meal{}, err
	}
	if userID.Valid {
		meal.UserID = &userID.String
	}
	return meal, nil
}

// ListMeals returns the user's meals ordered by date.
func (s *MealService) ListMeals(ctx context.Context, userID string) ([]models.Meal, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+mealColumns+" FROM meals WHERE user_id = ? ORDER BY date ASC, id ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	meals := []models.Meal{}
	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	return meals, nil
}

// ownedMeal loads a meal and checks that userID owns it. Existence is checked
// first, so a missing meal is ErrNotFound even for a stranger.
func ownedMeal(ctx context.Context, db database.DBTX, userID, mealID string) (models.Meal, error) {
	meal, err := scanMeal(db.QueryRowContext(ctx, "SELECT "+mealColumns+" FROM meals WHERE id = ?", mealID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Meal{}, fmt.Errorf("meal %s: %w", mealID, ErrNotFound)
		}
		return models.Meal{}, fmt.Errorf("get meal %s: %w", mealID, err)
	}
	if !meal.OwnedBy(userID) {
		return models.Meal{}, fmt.Errorf("meal %s: %w", mealID, ErrForbidden)
	}
	return meal, nil
}

// GetMeal retrieves one of the user's meals.
func (s *MealService) GetMeal(ctx context.Context, userID, mealID string) (models.Meal, error) {
	return ownedMeal(ctx, s.db, userID, mealID)
}

// CreateMeal stores a new meal owned by userID.
func (s *MealService) CreateMeal(ctx context.Context, userID string, input MealInput) (models.Meal, error) {
	owner := userID
	meal := models.Meal{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		Date:        input.Date,
		IsDiet:      input.IsDiet,
		UserID:      &owner,
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO meals (id, name, description, date, is_diet, user_id) VALUES (?, ?, ?, ?, ?, ?)",
		meal.ID, meal.Name, meal.Description, meal.Date, meal.IsDiet, owner)
	if err != nil {
		return models.Meal{}, fmt.Errorf("insert meal: %w", err)
	}
	return meal, nil
}

// UpdateMeal replaces all mutable fields of one of the user's meals. The
// ownership check and the write share a transaction.
func (s *MealService) UpdateMeal(ctx context.Context, userID, mealID string, input MealInput) (models.Meal, error) {
	var updated models.Meal
	err := database.WithTx(ctx, s.db, func(ctx context.Context, tx database.DBTX) error {
		meal, err := ownedMeal(ctx, tx, userID, mealID)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			"UPDATE meals SET name = ?, description = ?, date = ?, is_diet = ? WHERE id = ? AND user_id = ?",
			input.Name, input.Description, input.Date, input.IsDiet, mealID, userID)
		if err != nil {
			return fmt.Errorf("update meal %s: %w", mealID, err)
		}
		if err := expectOneRow(res, mealID); err != nil {
			return err
		}

		meal.Name = input.Name
		meal.Description = input.Description
		meal.Date = input.Date
		meal.IsDiet = input.IsDiet
		updated = meal
		return nil
	})
	if err != nil {
		return models.Meal{}, err
	}
	return updated, nil
}

// DeleteMeal removes one of the user's meals.
func (s *MealService) DeleteMeal(ctx context.Context, userID, mealID string) error {
	return database.WithTx(ctx, s.db, func(ctx context.Context, tx database.DBTX) error {
		if _, err := ownedMeal(ctx, tx, userID, mealID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM meals WHERE id = ? AND user_id = ?", mealID, userID)
		if err != nil {
			return fmt.Errorf("delete meal %s: %w", mealID, err)
		}
		return expectOneRow(res, mealID)
	})
}

func expectOneRow(res sql.Result, mealID string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("meal %s: %w", mealID, err)
	}
	if affected == 0 {
		return fmt.Errorf("meal %s: %w", mealID, ErrNotFound)
	}
	return nil
}

// GetSummary computes diet statistics over all of the user's meals.
func (s *MealService) GetSummary(ctx context.Context, userID string) (models.Summary, error) {
	meals, err := s.ListMeals(ctx, userID)
	if err != nil {
		return models.Summary{}, err
	}
	return Summarize(meals), nil
}
