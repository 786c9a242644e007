package rest

import (
	"context"
	"net/http"
	"strings"

	"flats-service/internal/core/domain"
	"flats-service/internal/core/port/usecases_port"
)

// Определяем кастомный тип для ключа контекста, чтобы избежать коллизий.
type contextKey string

const sessionKey = contextKey("session")

// SessionMiddleware разрешает сессию для каждого запроса по токену
// из заголовка Authorization и кладет результат в контекст.
// Само по себе оно ничего не запрещает: решения принимают
// RequireSession и RequireGuest ниже по цепочке.
func SessionMiddleware(resolveUC usecases_port.ResolveSessionUseCasePort) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			session := resolveUC.Execute(r.Context(), tokenString)

			ctx := context.WithValue(r.Context(), sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession пропускает только аутентифицированных пользователей.
// Остальных отправляет на /login.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := SessionFromContext(r.Context())
		if session.State != domain.SessionPresent {
			w.Header().Set("Location", "/login")
			WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireGuest пропускает только неаутентифицированных пользователей.
// Аутентифицированных перенаправляет на главную.
func RequireGuest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := SessionFromContext(r.Context())
		if session.State == domain.SessionPresent {
			w.Header().Set("Location", "/")
			WriteJSONError(w, http.StatusSeeOther, "Already authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionFromContext достает сессию, положенную SessionMiddleware.
// Если middleware не отработало, сессия считается неразрешенной.
func SessionFromContext(ctx context.Context) domain.Session {
	if session, ok := ctx.Value(sessionKey).(domain.Session); ok {
		return session
	}
	return domain.Session{State: domain.SessionUnresolved}
}

// bearerToken извлекает токен из заголовка "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
