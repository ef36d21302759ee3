package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/isdelr/daily-diet-be/internal/auth"
	"github.com/isdelr/daily-diet-be/internal/models"
	"github.com/isdelr/daily-diet-be/internal/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUserService rejects every sign-in.
type stubUserService struct {
	services.UserServiceProvider
	authErr error
}

func (s *stubUserService) AuthenticateUser(ctx context.Context, email, password string) (models.User, error) {
	return models.User{}, s.authErr
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}

func TestSignIn_FailureLogsOmitEmail(t *testing.T) {
	const email = "guilhermeandrade@gmail.com"

	tests := []struct {
		name       string
		authErr    error
		wantStatus int
	}{
		{"wrong credentials", services.ErrInvalidCredentials, http.StatusNotFound},
		{"store failure", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)
			h := NewUserHandler(&stubUserService{authErr: tt.authErr}, auth.NewSessions("test-secret", time.Hour, false))

			body := strings.NewReader(`{"email":"` + email + `","password":"12345678"}`)
			rec := httptest.NewRecorder()
			h.SignIn(rec, httptest.NewRequest(http.MethodPost, "/user/sign-in", body))

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.NotContains(t, buf.String(), email)
			assert.Contains(t, buf.String(), emailFingerprint(email))
		})
	}
}

func TestEmailFingerprint(t *testing.T) {
	a := emailFingerprint("Carlos@Gmail.com ")
	assert.Equal(t, a, emailFingerprint("carlos@gmail.com"))
	assert.NotEqual(t, a, emailFingerprint("guilherme@gmail.com"))
	assert.Len(t, a, 16)
}
