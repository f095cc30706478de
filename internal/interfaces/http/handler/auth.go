package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	appaccount "github.com/painless/shop/internal/application/account"
	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/infrastructure/auth"
	"github.com/painless/shop/internal/interfaces/http/middleware"
)

// TokenIssuer issues, refreshes and revokes JWT pairs
type TokenIssuer interface {
	ObtainToken(ctx context.Context, input appaccount.LoginInput) (*auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	Verify(ctx context.Context, token string) error
	Logout(ctx context.Context, accessToken, refreshToken string) error
}

// Registrar signs up new users
type Registrar interface {
	Register(ctx context.Context, input appaccount.RegisterInput) (*account.User, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	tokens    TokenIssuer
	registrar Registrar
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(tokens TokenIssuer, registrar Registrar) *AuthHandler {
	return &AuthHandler{
		tokens:    tokens,
		registrar: registrar,
	}
}

// ObtainToken godoc
// @ID           obtainToken
// @Summary      Obtain a token pair
// @Description  Authenticate with phone number and password. Repeated failures from one IP are throttled.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body TokenObtainRequest true "Login credentials"
// @Success      200 {object} APIResponse[TokenResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      500 {object} ServerErrorResponse
// @Router       /account/jwt/ [post]
func (h *AuthHandler) ObtainToken(c *gin.Context) {
	var req TokenObtainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	pair, err := h.tokens.ObtainToken(c.Request.Context(), appaccount.LoginInput{
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Password:    req.Password,
		IP:          middleware.GetClientIP(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTokenResponse(pair, true))
}

// RefreshToken godoc
// @ID           refreshToken
// @Summary      Refresh access token
// @Description  Exchange a refresh token for a new access token. The refresh token is returned only when rotated.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body TokenRefreshRequest true "Refresh token"
// @Success      200 {object} APIResponse[TokenResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ServerErrorResponse
// @Router       /account/jwt/refresh/ [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req TokenRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	pair, err := h.tokens.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTokenResponse(pair, pair.RefreshToken != req.Refresh))
}

// VerifyToken godoc
// @ID           verifyToken
// @Summary      Verify a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body TokenVerifyRequest true "Token of either type"
// @Success      200 {object} APIResponse[EmptyResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /account/jwt/verify/ [post]
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	var req TokenVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.tokens.Verify(c.Request.Context(), req.Token); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, EmptyResult{})
}

// Register godoc
// @ID           registerUser
// @Summary      Register a user
// @Description  Create an account. Every invalid field is reported at once.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Sign-up data"
// @Success      201 {object} APIResponse[UserDetailResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      500 {object} ServerErrorResponse
// @Router       /account/register/ [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.registrar.Register(c.Request.Context(), appaccount.RegisterInput{
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		IP:              middleware.GetClientIP(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toUserDetailResponse(user, userDetailURL(c, user.PhoneNumber)))
}

// Logout godoc
// @ID           logout
// @Summary      Log out
// @Description  Revoke the presented access token and, when given, the refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LogoutRequest false "Refresh token to revoke"
// @Success      200 {object} APIResponse[EmptyResult]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ServerErrorResponse
// @Security     BearerAuth
// @Router       /account/logout/ [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}

	access := strings.TrimPrefix(c.GetHeader(middleware.AuthHeaderKey), middleware.BearerPrefix)
	if err := h.tokens.Logout(c.Request.Context(), access, req.Refresh); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, EmptyResult{})
}
