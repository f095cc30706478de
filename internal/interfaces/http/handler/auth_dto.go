package handler

import (
	"time"

	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/infrastructure/auth"
)

// =====================
// Auth Request DTOs
// =====================

// TokenObtainRequest represents the login body
type TokenObtainRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required" example:"09121234567"`
	Password    string `json:"password" binding:"required,max=128"`
}

// TokenRefreshRequest represents the request body for token refresh
type TokenRefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// TokenVerifyRequest represents the request body for token verification
type TokenVerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

// LogoutRequest optionally carries the refresh token to revoke with the access token
type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

// RegisterRequest represents the sign-up body
type RegisterRequest struct {
	Email           string `json:"email" binding:"omitempty,max=254" example:"sara@example.com"`
	PhoneNumber     string `json:"phone_number" binding:"required,iran_phone" example:"09121234567"`
	Password        string `json:"password" binding:"required,max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"required,max=128"`
}

// =====================
// Auth Response DTOs
// =====================

// TokenResponse represents an issued token pair.
// Refresh is omitted when refreshing without rotation.
type TokenResponse struct {
	Access           string     `json:"access"`
	Refresh          string     `json:"refresh,omitempty"`
	AccessExpiresAt  time.Time  `json:"access_expires_at"`
	RefreshExpiresAt *time.Time `json:"refresh_expires_at,omitempty"`
}

func toTokenResponse(pair *auth.TokenPair, includeRefresh bool) TokenResponse {
	resp := TokenResponse{
		Access:          pair.AccessToken,
		AccessExpiresAt: pair.AccessTokenExpiresAt,
	}
	if includeRefresh {
		resp.Refresh = pair.RefreshToken
		exp := pair.RefreshTokenExpiresAt
		resp.RefreshExpiresAt = &exp
	}
	return resp
}

// UserDetailResponse is the public representation of a user account
type UserDetailResponse struct {
	URL         string `json:"url" example:"https://shop.example.com/api/v1/account/users/09121234567/"`
	PhoneNumber string `json:"phone_number" example:"09121234567"`
	Email       string `json:"email" example:"sara@example.com"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
}

func toUserDetailResponse(u *account.User, url string) UserDetailResponse {
	return UserDetailResponse{
		URL:         url,
		PhoneNumber: u.PhoneNumber,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
	}
}
