package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/daily-diet-be/internal/auth"
	"github.com/isdelr/daily-diet-be/internal/services"
	"github.com/rs/zerolog/log"
)

// MealHandler handles HTTP requests related to meals. Every route expects
// auth.RequireSession in front of it.
type MealHandler struct {
	service services.MealServiceProvider
}

// NewMealHandler creates a new MealHandler.
func NewMealHandler(service services.MealServiceProvider) *MealHandler {
	return &MealHandler{service: service}
}

// MealPayload is the full set of mutable meal fields. Date and IsDiet are
// pointers so that an empty date or a false flag is accepted while a missing
// field is not.
type MealPayload struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Date        *string `json:"date" validate:"required"`
	IsDiet      *bool   `json:"is_diet" validate:"required"`
}

func (p MealPayload) input() services.MealInput {
	return services.MealInput{
		Name:        p.Name,
		Description: p.Description,
		Date:        *p.Date,
		IsDiet:      *p.IsDiet,
	}
}

// GetAll lists the caller's meals ordered by date.
func (h *MealHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}

	meals, err := h.service.ListMeals(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list meals")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, meals)
}

// Get returns one of the caller's meals.
func (h *MealHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := validateID(id); err != nil {
		writeInvalid(w, err)
		return
	}

	meal, err := h.service.GetMeal(r.Context(), userID, id)
	if err != nil {
		writeMealError(w, err, id, "You just can see your own meals")
		return
	}
	writeJSON(w, http.StatusOK, meal)
}

// Create stores a new meal owned by the caller.
func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	var payload MealPayload
	if err := decodeAndValidate(r, &payload); err != nil {
		writeInvalid(w, err)
		return
	}

	meal, err := h.service.CreateMeal(r.Context(), userID, payload.input())
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create meal")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Debug().Str("meal_id", meal.ID).Str("user_id", userID).Msg("Meal created")
	w.WriteHeader(http.StatusCreated)
}

// Update replaces one of the caller's meals.
func (h *MealHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	var payload MealPayload
	if err := decodeAndValidate(r, &payload); err != nil {
		writeInvalid(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := validateID(id); err != nil {
		writeInvalid(w, err)
		return
	}

	if _, err := h.service.UpdateMeal(r.Context(), userID, id, payload.input()); err != nil {
		writeMealError(w, err, id, "You just can update your own meals")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Delete removes one of the caller's meals.
func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := validateID(id); err != nil {
		writeInvalid(w, err)
		return
	}

	if err := h.service.DeleteMeal(r.Context(), userID, id); err != nil {
		writeMealError(w, err, id, "You just can delete your own meals")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Summary returns the caller's diet statistics.
func (h *MealHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}

	summary, err := h.service.GetSummary(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to compute summary")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": summary})
}

func (h *MealHandler) caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "You must be logged in")
	}
	return userID, ok
}

func writeMealError(w http.ResponseWriter, err error, mealID, forbiddenMsg string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "Meal not found")
	case errors.Is(err, services.ErrForbidden):
		writeError(w, http.StatusForbidden, forbiddenMsg)
	default:
		log.Error().Err(err).Str("meal_id", mealID).Msg("Meal operation failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
