package rest

import (
	"time"

	"flats-service/internal/core/domain"
)

// LoginRequest - тело запроса для входа.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest - тело запроса для регистрации.
type RegisterRequest struct {
	Email          string `json:"email"`
	FullName       string `json:"fullName"`
	Password       string `json:"password"`
	RepeatPassword string `json:"repeatPassword"`
}

// UserResponse - публичное представление пользователя.
type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	// Initials рисуются в аватаре шапки ("Elon Musk" -> "EM").
	Initials string `json:"initials"`
}

// AuthResponse - тело ответа при успешном входе или регистрации.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// SessionResponse - тело ответа на запрос состояния сессии.
// User заполнен только в состоянии "present".
type SessionResponse struct {
	State string        `json:"state"`
	User  *UserResponse `json:"user,omitempty"`
}

// ValidationErrorResponse - ответ 400 с пофилдовыми сообщениями формы.
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// FlatResponse - одно объявление в выдаче.
type FlatResponse struct {
	ID              string  `json:"id"`
	Price           float64 `json:"price"`
	Address         string  `json:"address"`
	Description     string  `json:"description"`
	CoverImage      string  `json:"coverImage"`
	City            string  `json:"city"`
	PublicationTime string  `json:"publicationTime"`
}

// FlatsResponse - результат запроса выдачи.
type FlatsResponse struct {
	Flats []FlatResponse `json:"flats"`
}

// ErrorResponse - стандартная структура для ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Initials:    user.Initials(),
	}
}

func toFlatsResponse(flats []domain.Flat) FlatsResponse {
	resp := FlatsResponse{Flats: make([]FlatResponse, 0, len(flats))}
	for _, f := range flats {
		resp.Flats = append(resp.Flats, FlatResponse{
			ID:              f.ID,
			Price:           f.Price,
			Address:         f.Address,
			Description:     f.Description,
			CoverImage:      f.CoverImage,
			City:            f.City,
			PublicationTime: f.PublicationTime.UTC().Format(time.RFC3339),
		})
	}
	return resp
}
