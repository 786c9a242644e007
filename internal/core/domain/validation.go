package domain

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// Правила валидации форм. Все функции чистые, без побочных эффектов:
// они запускаются на каждом изменении поля на клиенте и еще раз
// в use case перед обращением к провайдеру (сабмит блокируется).

const passwordMinLen = 12
const fullNameMinLen = 6

var (
	emailRule = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	// Только латинские буквы (включая диакритику) и пробелы.
	onlyLatinCharRule = regexp.MustCompile(`^[A-Za-z\x{00C0}-\x{00D6}\x{00D8}-\x{00F6}\x{00F8}-\x{00FF}\s]*$`)
	// "Слово Слово", оба с заглавной, ровно один пробел.
	fullNameRule = regexp.MustCompile(`^([A-Z][a-z]*)(\s)([A-Z][a-z]+)$`)
)

// FieldErrors - сообщения об ошибках по именам полей.
// Отсутствие ключа означает, что поле валидно.
type FieldErrors map[string]string

// ValidateEmail проверяет адрес электронной почты.
func ValidateEmail(email string) string {
	if email == "" {
		return "Required"
	}
	if !emailRule.MatchString(email) {
		return "Please enter a valid email"
	}
	return ""
}

// ValidateLoginPassword - правило для формы входа: только минимальная длина.
func ValidateLoginPassword(password string) string {
	if password == "" {
		return "Required"
	}
	if utf8.RuneCountInString(password) < passwordMinLen {
		return "password must be at least 12 characters"
	}
	return ""
}

// ValidateRegisterPassword - правило для формы регистрации:
// минимум 12 символов, хотя бы одна цифра, одна строчная и одна заглавная
// буква (порядок не важен).
func ValidateRegisterPassword(password string) string {
	if password == "" {
		return "Required"
	}
	if utf8.RuneCountInString(password) < passwordMinLen {
		return "password must be at least 12 characters"
	}
	var hasDigit, hasLower, hasUpper bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		}
	}
	if !hasDigit || !hasLower || !hasUpper {
		return "Please create a stronger password"
	}
	return ""
}

// ValidateRepeatPassword требует точного совпадения с паролем.
func ValidateRepeatPassword(password, repeat string) string {
	if repeat == "" {
		return "Required"
	}
	if repeat != password {
		return "Passwords must match"
	}
	return ""
}

// ValidateFullName проверяет полное имя: минимум 6 символов,
// только латиница и пробелы, форма "Elon Musk".
func ValidateFullName(fullName string) string {
	if fullName == "" {
		return "Required"
	}
	if utf8.RuneCountInString(fullName) < fullNameMinLen {
		return "full name must be at least 6 characters"
	}
	if !onlyLatinCharRule.MatchString(fullName) {
		return "Full name can only contain Latin letters"
	}
	if !fullNameRule.MatchString(fullName) {
		return "Please enter your full name: Elon Musk"
	}
	return ""
}

// ValidateLoginForm собирает ошибки формы входа.
func ValidateLoginForm(email, password string) FieldErrors {
	errs := FieldErrors{}
	if msg := ValidateEmail(email); msg != "" {
		errs["email"] = msg
	}
	if msg := ValidateLoginPassword(password); msg != "" {
		errs["password"] = msg
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateRegisterForm собирает ошибки формы регистрации.
func ValidateRegisterForm(email, fullName, password, repeat string) FieldErrors {
	errs := FieldErrors{}
	if msg := ValidateEmail(email); msg != "" {
		errs["email"] = msg
	}
	if msg := ValidateFullName(fullName); msg != "" {
		errs["full_name"] = msg
	}
	if msg := ValidateRegisterPassword(password); msg != "" {
		errs["password"] = msg
	}
	if msg := ValidateRepeatPassword(password, repeat); msg != "" {
		errs["repeat_password"] = msg
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
