package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appaccount "github.com/painless/shop/internal/application/account"
	"github.com/painless/shop/internal/domain/shared"
	"github.com/painless/shop/internal/infrastructure/auth"
	"github.com/painless/shop/internal/interfaces/http/dto"
	"github.com/painless/shop/internal/interfaces/http/middleware"
)

func authRouter(tokens *MockTokenIssuer, registrar *MockRegistrar) *gin.Engine {
	h := NewAuthHandler(tokens, registrar)
	r := gin.New()
	r.Use(middleware.ClientIP("192.0.2.0/24"))
	r.POST("/account/jwt/", h.ObtainToken)
	r.POST("/account/jwt/refresh/", h.RefreshToken)
	r.POST("/account/jwt/verify/", h.VerifyToken)
	r.POST("/account/register/", h.Register)
	r.POST("/account/logout/", h.Logout)
	return r
}

func testPair() *auth.TokenPair {
	now := time.Now().UTC().Truncate(time.Second)
	return &auth.TokenPair{
		AccessToken:           "access-token",
		RefreshToken:          "refresh-token",
		AccessTokenExpiresAt:  now.Add(5 * time.Minute),
		RefreshTokenExpiresAt: now.Add(24 * time.Hour),
	}
}

func TestAuthHandler_ObtainToken(t *testing.T) {
	tokens := new(MockTokenIssuer)
	tokens.On("ObtainToken", mock.Anything, appaccount.LoginInput{
		PhoneNumber: "09121234567",
		Password:    "Violet-Harbor-58",
		IP:          "203.0.113.7",
	}).Return(testPair(), nil)

	body := []byte(`{"phone_number":" 09121234567 ","password":"Violet-Harbor-58"}`)
	req := httptest.NewRequest(http.MethodPost, "/account/jwt/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := httptest.NewRecorder()
	authRouter(tokens, new(MockRegistrar)).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	results := decodeBody(t, w)["results"].(map[string]any)
	assert.Equal(t, "access-token", results["access"])
	assert.Equal(t, "refresh-token", results["refresh"])
	assert.NotEmpty(t, results["refresh_expires_at"])
	tokens.AssertExpectations(t)
}

func TestAuthHandler_ObtainToken_Errors(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		tokens := new(MockTokenIssuer)
		w := performJSON(t, authRouter(tokens, new(MockRegistrar)), http.MethodPost, "/account/jwt/",
			map[string]string{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, dto.ErrCodeValidation, body["code"])
		assert.Len(t, body["errors"], 2)
		tokens.AssertNotCalled(t, "ObtainToken", mock.Anything, mock.Anything)
	})

	t.Run("bad credentials", func(t *testing.T) {
		tokens := new(MockTokenIssuer)
		tokens.On("ObtainToken", mock.Anything, mock.Anything).Return(nil, appaccount.ErrInvalidCredentials)
		w := performJSON(t, authRouter(tokens, new(MockRegistrar)), http.MethodPost, "/account/jwt/",
			map[string]string{"phone_number": "09121234567", "password": "wrong"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidCredentials, decodeBody(t, w)["code"])
	})

	t.Run("ip blocked", func(t *testing.T) {
		tokens := new(MockTokenIssuer)
		tokens.On("ObtainToken", mock.Anything, mock.Anything).
			Return(nil, shared.NewThrottledError(dto.ErrCodeIPBlocked, time.Second))
		w := performJSON(t, authRouter(tokens, new(MockRegistrar)), http.MethodPost, "/account/jwt/",
			map[string]string{"phone_number": "09121234567", "password": "wrong"})

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "1", w.Header().Get("Retry-After"))
		assert.Equal(t, "Bad Request. Expected available in 1 second.", decodeBody(t, w)["detail"])
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	t.Run("without rotation omits refresh", func(t *testing.T) {
		pair := testPair()
		pair.RefreshToken = "current"
		tokens := new(MockTokenIssuer)
		tokens.On("Refresh", mock.Anything, "current").Return(pair, nil)

		w := performJSON(t, authRouter(tokens, new(MockRegistrar)), http.MethodPost, "/account/jwt/refresh/",
			map[string]string{"refresh": "current"})

		require.Equal(t, http.StatusOK, w.Code)
		results := decodeBody(t, w)["results"].(map[string]any)
		assert.Equal(t, "access-token", results["access"])
		assert.NotContains(t, results, "refresh")
	})

	t.Run("rotated refresh is returned", func(t *testing.T) {
		tokens := new(MockTokenIssuer)
		tokens.On("Refresh", mock.Anything, "current").Return(testPair(), nil)

		w := performJSON(t, authRouter(tokens, new(MockRegistrar)), http.MethodPost, "/account/jwt/refresh/",
			map[string]string{"refresh": "current"})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "refresh-token", decodeBody(t, w)["results"].(map[string]any)["refresh"])
	})

	t.Run("invalid token", func(t *testing.T) {
		tokens := new(MockTokenIssuer)
		tokens.On("Refresh", mock.Anything, "stale").Return(nil, appaccount.ErrTokenNotValid)

		w := performJSON(t, authRouter(tokens, new(MockRegistrar)), http.MethodPost, "/account/jwt/refresh/",
			map[string]string{"refresh": "stale"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenNotValid, decodeBody(t, w)["code"])
	})
}

func TestAuthHandler_VerifyToken(t *testing.T) {
	tokens := new(MockTokenIssuer)
	tokens.On("Verify", mock.Anything, "good").Return(nil)
	tokens.On("Verify", mock.Anything, "bad").Return(appaccount.ErrTokenNotValid)
	r := authRouter(tokens, new(MockRegistrar))

	w := performJSON(t, r, http.MethodPost, "/account/jwt/verify/", map[string]string{"token": "good"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"detail":null,"results":{}}`, w.Body.String())

	w = performJSON(t, r, http.MethodPost, "/account/jwt/verify/", map[string]string{"token": "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Register(t *testing.T) {
	user := newTestUser(t, "09121234567")
	require.NoError(t, user.SetEmail("sara@example.com"))

	registrar := new(MockRegistrar)
	registrar.On("Register", mock.Anything, mock.MatchedBy(func(in appaccount.RegisterInput) bool {
		return in.PhoneNumber == "09121234567" && in.ConfirmPassword == "Violet-Harbor-58"
	})).Return(user, nil)

	req := httptest.NewRequest(http.MethodPost, "/account/register/", bytes.NewReader([]byte(
		`{"email":"sara@example.com","phone_number":"09121234567","password":"Violet-Harbor-58","confirm_password":"Violet-Harbor-58"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Host = "shop.test"
	w := httptest.NewRecorder()
	authRouter(new(MockTokenIssuer), registrar).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	results := decodeBody(t, w)["results"].(map[string]any)
	assert.Equal(t, "http://shop.test/api/v1/account/users/09121234567/", results["url"])
	assert.Equal(t, "sara@example.com", results["email"])
	assert.Equal(t, "09121234567", results["phone_number"])
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	t.Run("invalid phone is rejected by binding", func(t *testing.T) {
		registrar := new(MockRegistrar)
		w := performJSON(t, authRouter(new(MockTokenIssuer), registrar), http.MethodPost, "/account/register/",
			map[string]string{"phone_number": "12345", "password": "x", "confirm_password": "x"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		errs := decodeBody(t, w)["errors"].([]any)
		require.Len(t, errs, 1)
		assert.Equal(t, "phone_number", errs[0].(map[string]any)["field"])
		registrar.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("service field errors", func(t *testing.T) {
		verr := shared.NewValidationError("confirm_password", "Your passwords must match")
		registrar := new(MockRegistrar)
		registrar.On("Register", mock.Anything, mock.Anything).Return(nil, verr)

		w := performJSON(t, authRouter(new(MockTokenIssuer), registrar), http.MethodPost, "/account/register/",
			map[string]string{"phone_number": "09121234567", "password": "a", "confirm_password": "b"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		errs := decodeBody(t, w)["errors"].([]any)
		assert.Equal(t, "Your passwords must match", errs[0].(map[string]any)["message"])
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	tokens := new(MockTokenIssuer)
	tokens.On("Logout", mock.Anything, "access-token", "refresh-token").Return(nil)
	tokens.On("Logout", mock.Anything, "access-token", "").Return(nil)
	r := authRouter(tokens, new(MockRegistrar))

	req := httptest.NewRequest(http.MethodPost, "/account/logout/", bytes.NewReader([]byte(`{"refresh":"refresh-token"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer access-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/account/logout/", nil)
	req.Header.Set("Authorization", "Bearer access-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	tokens.AssertExpectations(t)
}
