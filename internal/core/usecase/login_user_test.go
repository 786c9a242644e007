package usecase

import (
	"context"
	"testing"
	"time"

	"flats-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginUserUseCase_Success(t *testing.T) {
	userRepo := newFakeUserRepo()
	existing, err := domain.NewUser("user@example.com", "Abcdefghijk1")
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(context.Background(), existing))

	tokenSvc := &fakeTokenService{token: "signed-token"}
	notifier := &fakeNotifier{}
	uc := NewLoginUserUseCase(userRepo, tokenSvc, notifier, time.Hour)

	user, token, err := uc.Execute(context.Background(), "user@example.com", "Abcdefghijk1")

	require.NoError(t, err)
	assert.Equal(t, "signed-token", token)
	assert.Equal(t, existing.ID, user.ID)

	require.Len(t, notifier.setCalls, 1)
	assert.Equal(t, "Login success", notifier.setCalls[0].notification.Message)
	assert.Equal(t, domain.SeveritySuccess, notifier.setCalls[0].notification.Severity)
	assert.Equal(t, domain.PlacementBottomLeft, notifier.setCalls[0].notification.Placement)
}

func TestLoginUserUseCase_ValidationBlocksSubmit(t *testing.T) {
	userRepo := newFakeUserRepo()
	tokenSvc := &fakeTokenService{token: "signed-token"}
	notifier := &fakeNotifier{}
	uc := NewLoginUserUseCase(userRepo, tokenSvc, notifier, time.Hour)

	_, _, err := uc.Execute(context.Background(), "not-an-email", "short")

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Please enter a valid email", validationErr.Fields["email"])
	assert.Equal(t, "password must be at least 12 characters", validationErr.Fields["password"])
	assert.Empty(t, notifier.setCalls)
}

func TestLoginUserUseCase_UserNotFound(t *testing.T) {
	userRepo := newFakeUserRepo()
	tokenSvc := &fakeTokenService{token: "signed-token"}
	notifier := &fakeNotifier{}
	uc := NewLoginUserUseCase(userRepo, tokenSvc, notifier, time.Hour)

	_, _, err := uc.Execute(context.Background(), "missing@example.com", "Abcdefghijk1")

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Empty(t, notifier.setCalls)
}

func TestLoginUserUseCase_WrongPassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	existing, err := domain.NewUser("user@example.com", "Abcdefghijk1")
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(context.Background(), existing))

	tokenSvc := &fakeTokenService{token: "signed-token"}
	notifier := &fakeNotifier{}
	uc := NewLoginUserUseCase(userRepo, tokenSvc, notifier, time.Hour)

	_, _, err = uc.Execute(context.Background(), "user@example.com", "Abcdefghijk2")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Empty(t, notifier.setCalls)
}
