package account

import (
	"errors"
	"testing"

	"github.com/painless/shop/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passwordMessages(t *testing.T, err error) []string {
	t.Helper()
	var verr *shared.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"password"}, verr.FieldNames())
	return verr.Messages("password")
}

func TestPasswordPolicy_Validate(t *testing.T) {
	policy := NewPasswordPolicy(8)

	t.Run("accepts a strong password", func(t *testing.T) {
		assert.NoError(t, policy.Validate("Xk9#mQ2$vLp7", nil))
	})

	t.Run("reports every failure", func(t *testing.T) {
		msgs := passwordMessages(t, policy.Validate("12345", nil))

		assert.Equal(t, []string{
			"This password is too short. It must contain at least 8 characters.",
			"This password is too common.",
			"This password is entirely numeric.",
		}, msgs)
	})

	t.Run("common passwords ignore case", func(t *testing.T) {
		msgs := passwordMessages(t, policy.Validate("PassWord", nil))
		assert.Equal(t, []string{"This password is too common."}, msgs)
	})

	t.Run("similar to phone number", func(t *testing.T) {
		user := &User{PhoneNumber: "09121234567"}

		msgs := passwordMessages(t, policy.Validate("09121234568", user))
		assert.Contains(t, msgs, "The password is too similar to the phone number.")
		assert.Contains(t, msgs, "This password is entirely numeric.")
	})

	t.Run("similar to a part of the email", func(t *testing.T) {
		user := &User{PhoneNumber: "09121234567", Email: "kourosh.tehrani@example.com"}

		msgs := passwordMessages(t, policy.Validate("Tehrani!!", user))
		assert.Equal(t, []string{"The password is too similar to the email address."}, msgs)
	})

	t.Run("similar to first name", func(t *testing.T) {
		user := &User{PhoneNumber: "09121234567", FirstName: "Alexander"}

		msgs := passwordMessages(t, policy.Validate("alexander1", user))
		assert.Equal(t, []string{"The password is too similar to the first name."}, msgs)
	})

	t.Run("uses configured minimum", func(t *testing.T) {
		msgs := passwordMessages(t, NewPasswordPolicy(14).Validate("Xk9#mQ2$vLp7", nil))
		assert.Equal(t, []string{"This password is too short. It must contain at least 14 characters."}, msgs)
	})

	t.Run("zero minimum falls back to default", func(t *testing.T) {
		assert.Equal(t, DefaultPasswordMinLength, NewPasswordPolicy(0).MinLength)
	})
}

func TestQuickRatio(t *testing.T) {
	assert.Equal(t, 1.0, quickRatio("abc", "cba"))
	assert.Equal(t, 0.0, quickRatio("abc", "xyz"))
	assert.InDelta(t, 0.5, quickRatio("ab", "ax"), 1e-9)
}
