package account

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/domain/shared"
)

const strongPassword = "Violet-Harbor-58"

func newRegistrationService(users *MockUserRepository) *RegistrationService {
	manager := NewUserManager(users, nil, zap.NewNop())
	return NewRegistrationService(manager, users, account.NewPasswordPolicy(8), nil, zap.NewNop())
}

func TestRegistrationService_Register_Success(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	users.On("ExistsByPhoneNumber", ctx, "09121234567").Return(false, nil)
	users.On("Create", ctx, mock.AnythingOfType("*account.User")).Return(nil)

	user, err := newRegistrationService(users).Register(ctx, RegisterInput{
		Email:           "sara@example.com",
		PhoneNumber:     "09121234567",
		Password:        strongPassword,
		ConfirmPassword: strongPassword,
		IP:              "10.0.0.1",
	})

	require.NoError(t, err)
	assert.Equal(t, "sara@example.com", user.Email)
	assert.True(t, user.VerifyPassword(strongPassword))
	users.AssertExpectations(t)
}

func TestRegistrationService_Register_ReportsEveryField(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	users.On("ExistsByPhoneNumber", ctx, "09121234567").Return(true, nil)

	_, err := newRegistrationService(users).Register(ctx, RegisterInput{
		Email:           "not-an-email",
		PhoneNumber:     "09121234567",
		Password:        "1234",
		ConfirmPassword: "12345",
	})

	var verr *shared.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []string{"email", "phone_number", "confirm_password", "password"}, verr.FieldNames())
	assert.Equal(t, []string{"User with this Phone number already exists."}, verr.Messages("phone_number"))
	assert.Equal(t, []string{"Your passwords must match"}, verr.Messages("confirm_password"))
	assert.Contains(t, verr.Messages("password"), "This password is entirely numeric.")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegistrationService_Register_InvalidPhone(t *testing.T) {
	users := new(MockUserRepository)

	_, err := newRegistrationService(users).Register(context.Background(), RegisterInput{
		PhoneNumber:     "12345",
		Password:        strongPassword,
		ConfirmPassword: strongPassword,
	})

	var verr *shared.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"phone_number"}, verr.FieldNames())
	users.AssertNotCalled(t, "ExistsByPhoneNumber", mock.Anything, mock.Anything)
}

func TestRegistrationService_Register_PasswordSimilarToPhone(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	users.On("ExistsByPhoneNumber", ctx, "09121234567").Return(false, nil)

	_, err := newRegistrationService(users).Register(ctx, RegisterInput{
		PhoneNumber:     "09121234567",
		Password:        "09121234567a",
		ConfirmPassword: "09121234567a",
	})

	var verr *shared.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Messages("password"), "The password is too similar to the phone number.")
}

func TestRegistrationService_Register_CreateRace(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	users.On("ExistsByPhoneNumber", ctx, "09121234567").Return(false, nil).Once()
	users.On("ExistsByPhoneNumber", ctx, "09121234567").Return(true, nil).Once()

	_, err := newRegistrationService(users).Register(ctx, RegisterInput{
		PhoneNumber:     "09121234567",
		Password:        strongPassword,
		ConfirmPassword: strongPassword,
	})

	var verr *shared.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"phone_number"}, verr.FieldNames())
}
