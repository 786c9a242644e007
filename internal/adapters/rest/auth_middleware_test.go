package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"flats-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// fakeResolveSession резолвит сессию по фиксированной таблице токенов.
type fakeResolveSession struct {
	sessions map[string]domain.Session
}

func (f *fakeResolveSession) Execute(ctx context.Context, tokenString string) domain.Session {
	if session, ok := f.sessions[tokenString]; ok {
		return session
	}
	return domain.Session{State: domain.SessionAbsent}
}

func presentSession() domain.Session {
	return domain.Session{
		State: domain.SessionPresent,
		Claims: &domain.Claims{
			UserID:      uuid.New(),
			SessionID:   uuid.New(),
			Email:       "user@example.com",
			DisplayName: "Elon Musk",
		},
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSession_RedirectsGuestsToLogin(t *testing.T) {
	resolveUC := &fakeResolveSession{sessions: map[string]domain.Session{}}
	handler := SessionMiddleware(resolveUC)(RequireSession(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/flats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireSession_PassesAuthenticatedUsers(t *testing.T) {
	resolveUC := &fakeResolveSession{sessions: map[string]domain.Session{
		"valid-token": presentSession(),
	}}
	handler := SessionMiddleware(resolveUC)(RequireSession(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/flats", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireSession_RejectsInvalidToken(t *testing.T) {
	resolveUC := &fakeResolveSession{sessions: map[string]domain.Session{}}
	handler := SessionMiddleware(resolveUC)(RequireSession(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/flats", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireGuest_RedirectsAuthenticatedUsersHome(t *testing.T) {
	resolveUC := &fakeResolveSession{sessions: map[string]domain.Session{
		"valid-token": presentSession(),
	}}
	handler := SessionMiddleware(resolveUC)(RequireGuest(okHandler()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRequireGuest_PassesGuests(t *testing.T) {
	resolveUC := &fakeResolveSession{sessions: map[string]domain.Session{}}
	handler := SessionMiddleware(resolveUC)(RequireGuest(okHandler()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionFromContext_DefaultsToUnresolved(t *testing.T) {
	session := SessionFromContext(context.Background())
	assert.Equal(t, domain.SessionUnresolved, session.State)
}

func TestBearerToken(t *testing.T) {
	testCases := []struct {
		name   string
		header string
		want   string
	}{
		{"no header", "", ""},
		{"well formed", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"lowercase scheme", "bearer abc", "abc"},
		{"wrong scheme", "Basic abc", ""},
		{"scheme only", "Bearer", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			assert.Equal(t, tc.want, bearerToken(req))
		})
	}
}
