package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"flats-service/internal/contextkeys"
	"flats-service/internal/core/domain"
	"flats-service/internal/core/port"
	"flats-service/internal/core/port/usecases_port"
)

// AuthHandlers обрабатывает запросы аутентификации и сессии.
type AuthHandlers struct {
	registerUC usecases_port.RegisterUserUseCasePort
	loginUC    usecases_port.LoginUserUseCasePort
	logoutUC   usecases_port.LogoutUserUseCasePort
	profileUC  usecases_port.GetProfileUseCasePort
}

// NewAuthHandlers - конструктор.
func NewAuthHandlers(registerUC usecases_port.RegisterUserUseCasePort,
	loginUC usecases_port.LoginUserUseCasePort,
	logoutUC usecases_port.LogoutUserUseCasePort,
	profileUC usecases_port.GetProfileUseCasePort) *AuthHandlers {
	return &AuthHandlers{
		registerUC: registerUC,
		loginUC:    loginUC,
		logoutUC:   logoutUC,
		profileUC:  profileUC,
	}
}

// Register обрабатывает POST /api/v1/auth/register
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Register"})

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode register request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Обогащаем логгер данными запроса (без пароля!)
	handlerLogger := logger.WithFields(port.Fields{"email": req.Email})
	handlerLogger.Info("Processing register request", nil)

	user, token, err := h.registerUC.Execute(r.Context(), req.Email, req.FullName, req.Password, req.RepeatPassword)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			handlerLogger.Warn("Registration failed: form validation", port.Fields{"fields": len(validationErr.Fields)})
			RespondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:  err.Error(),
				Fields: validationErr.Fields,
			})
			return
		}
		if errors.Is(err, domain.ErrEmailInUse) {
			handlerLogger.Warn("Registration failed: email already in use", nil)
			WriteJSONError(w, http.StatusConflict, err.Error())
			return
		}
		handlerLogger.Error("Register use case failed with an unexpected error", err, nil)
		// Текст ошибки отдаем как есть: клиент показывает его в уведомлении.
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	handlerLogger.Info("User registered successfully", port.Fields{"user_id": user.ID})

	RespondWithJSON(w, http.StatusCreated, AuthResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

// Login обрабатывает POST /api/v1/auth/login
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Login"})

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode login request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"email": req.Email})
	handlerLogger.Info("Processing login request", nil)

	user, token, err := h.loginUC.Execute(r.Context(), req.Email, req.Password)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			handlerLogger.Warn("Login failed: form validation", port.Fields{"fields": len(validationErr.Fields)})
			RespondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:  err.Error(),
				Fields: validationErr.Fields,
			})
			return
		}
		// Ошибка "invalid credentials" - это 401 Unauthorized
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrUserNotFound) {
			handlerLogger.Warn("Login failed: invalid credentials", nil)
			WriteJSONError(w, http.StatusUnauthorized, err.Error())
			return
		}
		// Любая другая ошибка - это 500
		handlerLogger.Error("Login use case failed with an unexpected error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	handlerLogger.Info("User logged in successfully", port.Fields{"user_id": user.ID})

	RespondWithJSON(w, http.StatusOK, AuthResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

// Logout обрабатывает POST /api/v1/auth/logout
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Logout"})

	session := SessionFromContext(r.Context())
	if session.State != domain.SessionPresent || session.Claims == nil {
		WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.logoutUC.Execute(r.Context(), session.Claims); err != nil {
		logger.Error("Logout use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("User logged out successfully", port.Fields{"user_id": session.Claims.UserID})

	RespondWithJSON(w, http.StatusOK, SessionResponse{State: domain.SessionAbsent.String()})
}

// Profile обрабатывает GET /api/v1/profile
func (h *AuthHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Profile"})

	session := SessionFromContext(r.Context())
	if session.State != domain.SessionPresent || session.Claims == nil {
		WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.profileUC.Execute(r.Context(), session.Claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			logger.Warn("Profile not found for a valid session", nil)
			WriteJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		logger.Error("Get profile use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	RespondWithJSON(w, http.StatusOK, toUserResponse(user))
}

// Session обрабатывает GET /api/v1/auth/session
// Эндпоинт публичный: клиент опрашивает его при старте, чтобы перевести
// сессию из "unresolved" в одно из конечных состояний.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	resp := SessionResponse{State: session.State.String()}
	if session.State == domain.SessionPresent && session.Claims != nil {
		user := toUserResponse(&domain.User{
			ID:          session.Claims.UserID,
			Email:       session.Claims.Email,
			DisplayName: session.Claims.DisplayName,
		})
		resp.User = &user
	}
	RespondWithJSON(w, http.StatusOK, resp)
}
