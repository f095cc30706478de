package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/painless/shop/internal/domain/shared"
)

type signupForm struct {
	Email       string `json:"email" binding:"omitempty,email"`
	PhoneNumber string `json:"phone_number" binding:"required,iran_phone"`
	Nickname    string `json:"nickname" binding:"max=10"`
}

func bindSignup(t *testing.T, body string) *shared.ValidationError {
	t.Helper()
	SetupValidator()

	var verr *shared.ValidationError
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var form signupForm
		if err := c.ShouldBindJSON(&form); err != nil {
			verr = BindingError(err)
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), req)
	return verr
}

func TestBindingError_FieldNamesFollowJSONTags(t *testing.T) {
	verr := bindSignup(t, `{"email":"nope","phone_number":"12345","nickname":"far-too-long-name"}`)

	require.NotNil(t, verr)
	assert.ElementsMatch(t, []string{"email", "phone_number", "nickname"}, verr.FieldNames())
	assert.Equal(t, []string{"Enter a valid phone number."}, verr.Messages("phone_number"))
	assert.Equal(t, []string{"Enter a valid email address."}, verr.Messages("email"))
	assert.Equal(t, []string{"Ensure this field has no more than 10 characters."}, verr.Messages("nickname"))
}

func TestBindingError_Required(t *testing.T) {
	verr := bindSignup(t, `{}`)

	require.NotNil(t, verr)
	assert.Equal(t, []string{"This field is required."}, verr.Messages("phone_number"))
}

func TestBindingError_ValidPhonePasses(t *testing.T) {
	assert.Nil(t, bindSignup(t, `{"phone_number":"09121234567"}`))
}

func TestBindingError_MalformedBody(t *testing.T) {
	verr := bindSignup(t, `not json`)

	require.NotNil(t, verr)
	assert.Equal(t, []string{"non_field_errors"}, verr.FieldNames())
}

func TestBindingError_WrongType(t *testing.T) {
	verr := bindSignup(t, `{"phone_number": 9121234567}`)

	require.NotNil(t, verr)
	assert.Equal(t, []string{"phone_number"}, verr.FieldNames())
}
