package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// CookieName is the cookie carrying the session.
const CookieName = "sessionUser"

var (
	ErrNoSession      = errors.New("no session")
	ErrInvalidSession = errors.New("invalid session")
)

type contextKey string

// UserIDKey is the context key for the authenticated user id.
const UserIDKey = contextKey("userID")

// Sessions issues and verifies session cookies.
//
// A cookie value has the form "<user id>.<token>", where token is an HS256 JWT
// whose subject is the same user id. The id prefix keeps the cookie readable;
// only the token is trusted.
type Sessions struct {
	key    []byte
	maxAge time.Duration
	secure bool
	now    func() time.Time
}

// NewSessions creates a session manager. secure marks cookies Secure, which
// production deployments behind TLS should enable.
func NewSessions(secret string, maxAge time.Duration, secure bool) *Sessions {
	return &Sessions{
		key:    []byte(secret),
		maxAge: maxAge,
		secure: secure,
		now:    time.Now,
	}
}

// Issue creates a signed session value for userID.
func (s *Sessions) Issue(userID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.maxAge)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return userID + "." + token, nil
}

// Verify parses a session value and returns the user id it carries.
func (s *Sessions) Verify(value string) (string, error) {
	userID, token, ok := strings.Cut(value, ".")
	if !ok || userID == "" || token == "" {
		return "", ErrInvalidSession
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.Subject != userID {
		return "", fmt.Errorf("%w: subject mismatch", ErrInvalidSession)
	}
	return userID, nil
}

// FromRequest returns the user id of the request's session cookie.
func (s *Sessions) FromRequest(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrNoSession
	}
	return s.Verify(cookie.Value)
}

// SetCookie issues a session for userID and attaches it to the response.
func (s *Sessions) SetCookie(w http.ResponseWriter, userID string) error {
	value, err := s.Issue(userID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(s.maxAge / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie expires the session cookie.
func (s *Sessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireSession is a middleware for routes that need a signed-in user.
func (s *Sessions) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.FromRequest(r)
		switch {
		case errors.Is(err, ErrNoSession):
			writeError(w, http.StatusUnauthorized, "You must be logged in")
			return
		case err != nil:
			log.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected session cookie")
			writeError(w, http.StatusUnauthorized, "Invalid session")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the user id stored by RequireSession.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
