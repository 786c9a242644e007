package domain

import "errors"

// Определяем переменные-ошибки, которые могут быть возвращены из Use Cases.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailInUse         = errors.New("email already in use")
	ErrTokenInvalid       = errors.New("invalid jwt token")
	ErrValidation         = errors.New("validation failed")
)

// ValidationError несет пофилдовые сообщения для формы.
// Ошибка показывается рядом с конкретным полем и блокирует сабмит.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string { return ErrValidation.Error() }

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error { return ErrValidation }
