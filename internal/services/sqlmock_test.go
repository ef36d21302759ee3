package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockMealService(t *testing.T) (*MealService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewMealService(db), mock
}

func TestListMeals_DBError(t *testing.T) {
	svc, mock := newMockMealService(t)

	mock.ExpectQuery(`(?s)^SELECT .+ FROM meals WHERE user_id = \?`).
		WithArgs("u-1").
		WillReturnError(errors.New("db down"))

	_, err := svc.ListMeals(context.Background(), "u-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list meals: db down")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSummary_PropagatesScanError(t *testing.T) {
	svc, mock := newMockMealService(t)

	rows := sqlmock.NewRows([]string{"id", "name", "description", "date", "is_diet", "user_id"}).
		AddRow("m-1", "n", "d", "2024-01-01", "not-a-bool", "u-1")
	mock.ExpectQuery(`FROM meals WHERE user_id = \?`).WithArgs("u-1").WillReturnRows(rows)

	_, err := svc.GetSummary(context.Background(), "u-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan meal")
}

func TestDeleteMeal_RollsBackOnExecError(t *testing.T) {
	svc, mock := newMockMealService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM meals WHERE id = \?`).WithArgs("m-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "date", "is_diet", "user_id"}).
			AddRow("m-1", "n", "d", "2024-01-01", true, "u-1"))
	mock.ExpectExec(`DELETE FROM meals WHERE id = \? AND user_id = \?`).WithArgs("m-1", "u-1").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := svc.DeleteMeal(context.Background(), "u-1", "m-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMeal_ConcurrentDeleteIsNotFound(t *testing.T) {
	svc, mock := newMockMealService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM meals WHERE id = \?`).WithArgs("m-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "date", "is_diet", "user_id"}).
			AddRow("m-1", "n", "d", "2024-01-01", true, "u-1"))
	mock.ExpectExec(`UPDATE meals SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.UpdateMeal(context.Background(), "u-1", "m-1", pizza(false))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
