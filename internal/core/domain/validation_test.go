package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	testCases := []struct {
		name  string
		email string
		want  string
	}{
		{"valid email", "user@example.com", ""},
		{"valid with subdomain", "user@mail.example.com", ""},
		{"empty", "", "Required"},
		{"no at sign", "user.example.com", "Please enter a valid email"},
		{"no domain dot", "user@example", "Please enter a valid email"},
		{"spaces inside", "us er@example.com", "Please enter a valid email"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidateEmail(tc.email))
		})
	}
}

func TestValidateLoginPassword(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		want     string
	}{
		{"long enough", "abcdefghijkl", ""},
		// Для входа достаточно длины: состав символов не проверяется.
		{"only lowercase accepted", "aaaaaaaaaaaa", ""},
		{"empty", "", "Required"},
		{"eleven chars", "abcdefghijk", "password must be at least 12 characters"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidateLoginPassword(tc.password))
		})
	}
}

func TestValidateRegisterPassword(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		want     string
	}{
		{"digit lower upper", "Abcdefghijk1", ""},
		{"classes in any order", "1abcdefghijK", ""},
		{"empty", "", "Required"},
		{"too short", "Abcdefghij1", "password must be at least 12 characters"},
		{"no digit", "Abcdefghijkl", "Please create a stronger password"},
		{"no uppercase", "abcdefghijk1", "Please create a stronger password"},
		{"no lowercase", "ABCDEFGHIJK1", "Please create a stronger password"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidateRegisterPassword(tc.password))
		})
	}
}

func TestValidateRepeatPassword(t *testing.T) {
	assert.Equal(t, "", ValidateRepeatPassword("Abcdefghijk1", "Abcdefghijk1"))
	assert.Equal(t, "Required", ValidateRepeatPassword("Abcdefghijk1", ""))
	assert.Equal(t, "Passwords must match", ValidateRepeatPassword("Abcdefghijk1", "Abcdefghijk2"))
}

func TestValidateFullName(t *testing.T) {
	testCases := []struct {
		name     string
		fullName string
		want     string
	}{
		{"canonical", "Elon Musk", ""},
		{"single letter first word", "E Musketeer", ""},
		{"empty", "", "Required"},
		{"too short", "E Mus", "full name must be at least 6 characters"},
		{"cyrillic letters", "Элон Маск", "Full name can only contain Latin letters"},
		{"digits", "Elon Musk2", "Full name can only contain Latin letters"},
		{"lowercase words", "elon musk", "Please enter your full name: Elon Musk"},
		{"single word", "Elonmusk", "Please enter your full name: Elon Musk"},
		{"three words", "Elon Reeve Musk", "Please enter your full name: Elon Musk"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidateFullName(tc.fullName))
		})
	}
}

func TestValidateLoginForm(t *testing.T) {
	assert.Nil(t, ValidateLoginForm("user@example.com", "abcdefghijkl"))

	errs := ValidateLoginForm("", "short")
	assert.Equal(t, "Required", errs["email"])
	assert.Equal(t, "password must be at least 12 characters", errs["password"])
}

func TestValidateRegisterForm(t *testing.T) {
	assert.Nil(t, ValidateRegisterForm("user@example.com", "Elon Musk", "Abcdefghijk1", "Abcdefghijk1"))

	errs := ValidateRegisterForm("bad", "elon musk", "Abcdefghijkl", "other")
	assert.Equal(t, "Please enter a valid email", errs["email"])
	assert.Equal(t, "Please enter your full name: Elon Musk", errs["full_name"])
	assert.Equal(t, "Please create a stronger password", errs["password"])
	assert.Equal(t, "Passwords must match", errs["repeat_password"])
}
