package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/daily-diet-be/internal/auth"
	"github.com/isdelr/daily-diet-be/internal/models"
	"github.com/isdelr/daily-diet-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service  services.UserServiceProvider
	sessions *auth.Sessions
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, sessions *auth.Sessions) *UserHandler {
	return &UserHandler{service: service, sessions: sessions}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UpdatePayload defines the structure for profile updates.
type UpdatePayload struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// PasswordPayload defines the structure for password changes.
type PasswordPayload struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// AuthPayload defines the structure for sign-in requests.
type AuthPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// GetAll returns every user, password digests included.
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Get handles retrieving a user by their ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validateID(id); err != nil {
		writeInvalid(w, err)
		return
	}

	user, err := h.service.GetUserByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, id, "Failed to get user")
		return
	}
	writeJSON(w, http.StatusOK, user.Profile())
}

// Create handles new user registration.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := decodeAndValidate(r, &payload); err != nil {
		writeInvalid(w, err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		h.writeServiceError(w, err, "", "Failed to register user")
		return
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")
	w.WriteHeader(http.StatusCreated)
}

// Update handles updating a user's name and email.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload UpdatePayload
	if err := decodeAndValidate(r, &payload); err != nil {
		writeInvalid(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := validateID(id); err != nil {
		writeInvalid(w, err)
		return
	}

	if err := h.service.UpdateUser(r.Context(), id, payload.Name, payload.Email); err != nil {
		h.writeServiceError(w, err, id, "Failed to update user")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ChangePassword handles replacing a user's password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var payload PasswordPayload
	if err := decodeAndValidate(r, &payload); err != nil {
		writeInvalid(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := validateID(id); err != nil {
		writeInvalid(w, err)
		return
	}

	if err := h.service.UpdatePassword(r.Context(), id, payload.Password); err != nil {
		h.writeServiceError(w, err, id, "Failed to change password")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// SignIn checks credentials and starts a session.
func (h *UserHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := decodeAndValidate(r, &payload); err != nil {
		writeInvalid(w, err)
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("email_hash", emailFingerprint(payload.Email)).Msg("Failed authentication attempt")
			writeError(w, http.StatusNotFound, "User email or password is wrong")
			return
		}
		log.Error().Err(err).Str("email_hash", emailFingerprint(payload.Email)).Msg("Failed to authenticate user")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !h.hasSessionFor(r, user) {
		if err := h.sessions.SetCookie(w, user.ID); err != nil {
			log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue session")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}
	writeMessage(w, "Login successfully")
}

// emailFingerprint identifies an e-mail in logs without recording it.
func emailFingerprint(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:8])
}

// hasSessionFor reports whether the request already carries a valid session
// for user.
func (h *UserHandler) hasSessionFor(r *http.Request, user models.User) bool {
	current, err := h.sessions.FromRequest(r)
	return err == nil && current == user.ID
}

// SignOut clears the session cookie, whether or not one was set.
func (h *UserHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	writeMessage(w, "Logout successfully")
}

func (h *UserHandler) writeServiceError(w http.ResponseWriter, err error, userID, msg string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrConflict):
		writeError(w, http.StatusBadRequest, "Email already exists")
	default:
		log.Error().Err(err).Str("user_id", userID).Msg(msg)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
