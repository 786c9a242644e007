package domain

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User - основная доменная сущность пользователя.
type User struct {
	ID           uuid.UUID
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
}

// Claims - это данные, которые мы "зашиваем" в JWT токен.
// SessionID уникален для каждого входа и служит ключом кэша выдачи.
type Claims struct {
	UserID      uuid.UUID
	SessionID   uuid.UUID
	Email       string
	DisplayName string
}

// NewUser создает нового пользователя. Хэширование пароля происходит здесь.
func NewUser(email, password string) (*User, error) {
	// bcrypt.DefaultCost - это хороший баланс между скоростью и безопасностью.
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// CheckPassword сравнивает предоставленный пароль с хэшем, хранящимся у пользователя.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// Initials возвращает инициалы для аватара пользователя ("Elon Musk" -> "EM").
func (u *User) Initials() string {
	if u.DisplayName == "" {
		return "U"
	}
	parts := splitWords(u.DisplayName)
	if len(parts) >= 2 {
		return string(parts[0][0]) + string(parts[1][0])
	}
	return string(parts[0][0])
}

func splitWords(s string) []string {
	var words []string
	start := -1
	for i, r := range s {
		if r == ' ' {
			if start >= 0 {
				words = append(words, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, s[start:])
	}
	return words
}
