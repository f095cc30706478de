package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/domain/shared"
	"github.com/painless/shop/internal/infrastructure/auth"
	"github.com/painless/shop/internal/infrastructure/config"
	"github.com/painless/shop/internal/infrastructure/logger"
	"github.com/painless/shop/internal/infrastructure/telemetry"
)

// Authentication errors
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS",
		"Please enter a correct phone number and password. Note that both fields may be case-sensitive.")
	ErrTokenNotValid   = shared.NewDomainError("TOKEN_NOT_VALID", "Token is invalid or expired")
	ErrTokenMaxRefresh = shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
)

// AuthServiceConfig contains the login protection and token rotation settings
type AuthServiceConfig struct {
	AttemptThreshold       int
	IPBlockDuration        time.Duration
	RotateRefreshTokens    bool
	BlacklistAfterRotation bool
}

// NewAuthServiceConfig picks the auth settings out of the application config
func NewAuthServiceConfig(security config.SecurityConfig, jwt config.JWTConfig) AuthServiceConfig {
	return AuthServiceConfig{
		AttemptThreshold:       security.LoginAttemptThreshold,
		IPBlockDuration:        security.IPBlockDuration,
		RotateRefreshTokens:    jwt.RotateRefreshTokens,
		BlacklistAfterRotation: jwt.BlacklistAfterRotation,
	}
}

// AuthService issues, refreshes, verifies and revokes JWT pairs
type AuthService struct {
	users     account.UserRepository
	guard     account.LoginGuard
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
	metrics   *telemetry.AccountMetrics
	config    AuthServiceConfig
	logger    *zap.Logger
	now       func() time.Time

	verifyUnknown func(password string) bool
}

// NewAuthService creates an auth service. metrics may be nil.
func NewAuthService(
	users account.UserRepository,
	guard account.LoginGuard,
	jwt *auth.JWTService,
	blacklist auth.TokenBlacklist,
	metrics *telemetry.AccountMetrics,
	cfg AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		guard:     guard,
		jwt:       jwt,
		blacklist: blacklist,
		metrics:   metrics,
		config:    cfg,
		logger:    logger,
		now:       time.Now,

		verifyUnknown: account.VerifyUnknownUserPassword,
	}
}

// ObtainToken checks the credentials and returns a token pair.
// Wrong credentials and inactive accounts get the same error; repeated failures block the IP.
func (s *AuthService) ObtainToken(ctx context.Context, input LoginInput) (*auth.TokenPair, error) {
	log := logger.Enrich(ctx, s.logger)

	blocked, wait, err := s.guard.IsBlocked(ctx, input.IP)
	if err != nil {
		return nil, fmt.Errorf("failed to check ip block: %w", err)
	}
	if blocked {
		s.metrics.RecordLogin(ctx, telemetry.LoginBlocked)
		log.Warn("Login from blocked ip", zap.String("client_ip", input.IP), zap.Duration("wait", wait))
		return nil, shared.NewThrottledError("IP_BLOCKED", wait)
	}

	user, err := s.users.FindByPhoneNumber(ctx, input.PhoneNumber)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		s.verifyUnknown(input.Password)
		return nil, s.loginFailed(ctx, log, input, telemetry.LoginInvalidCredentials)
	case err != nil:
		return nil, err
	}
	if !user.VerifyPassword(input.Password) {
		return nil, s.loginFailed(ctx, log, input, telemetry.LoginInvalidCredentials)
	}
	if !s.guard.IsActive(user) {
		return nil, s.loginFailed(ctx, log, input, telemetry.LoginInactive)
	}

	for _, key := range attemptKeys(input) {
		if err := s.guard.ResetAttempts(ctx, key); err != nil {
			log.Warn("Failed to reset login attempts", zap.Error(err))
		}
	}

	pair, err := s.jwt.GenerateTokenPair(subjectOf(user))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token pair: %w", err)
	}

	at := s.now()
	user.RecordLogin(input.IP, at)
	if err := s.users.RecordLogin(ctx, user.ID, input.IP, at); err != nil {
		log.Error("Failed to record last login", zap.Error(err))
	}

	s.metrics.RecordLogin(ctx, telemetry.LoginSucceeded)
	log.Info("User logged in", logger.Phone(user.PhoneNumber), zap.String("user_id", user.ID.String()))
	return pair, nil
}

// loginFailed counts the failure per IP and phone number and blocks the IP once either reaches the threshold
func (s *AuthService) loginFailed(ctx context.Context, log *zap.Logger, input LoginInput, reason string) error {
	s.metrics.RecordLogin(ctx, reason)
	log.Warn("Login failed",
		logger.Phone(input.PhoneNumber),
		zap.String("client_ip", input.IP),
		zap.String("reason", reason),
	)

	block := false
	for _, key := range attemptKeys(input) {
		if _, err := s.guard.RegisterFailure(ctx, key); err != nil {
			log.Warn("Failed to count login attempt", zap.Error(err))
			continue
		}
		tooMany, err := s.guard.IsTooManyAttempts(ctx, key)
		if err != nil {
			log.Warn("Failed to read login attempts", zap.Error(err))
			continue
		}
		block = block || tooMany
	}

	if block && input.IP != "" {
		if err := s.guard.BlockIP(ctx, input.IP, s.config.IPBlockDuration); err != nil {
			log.Error("Failed to block ip", zap.Error(err))
		} else {
			s.metrics.RecordIPBlock(ctx)
			log.Warn("Ip blocked after repeated login failures",
				zap.String("client_ip", input.IP),
				zap.Duration("duration", s.config.IPBlockDuration),
			)
		}
	}
	return ErrInvalidCredentials
}

func attemptKeys(input LoginInput) []string {
	keys := make([]string, 0, 2)
	if input.IP != "" {
		keys = append(keys, "ip:"+input.IP)
	}
	if input.PhoneNumber != "" {
		keys = append(keys, "phone:"+input.PhoneNumber)
	}
	return keys
}

func subjectOf(user *account.User) auth.TokenSubject {
	return auth.TokenSubject{UserID: user.ID, PhoneNumber: user.PhoneNumber, IsStaff: user.IsStaff}
}

// Refresh exchanges a refresh token for a new access token, rotating the refresh token when configured
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrTokenNotValid
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, ErrTokenNotValid
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrTokenNotValid
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrTokenNotValid
	}

	pair, err := s.jwt.RefreshTokenPair(claims, refreshToken, subjectOf(user), s.config.RotateRefreshTokens)
	if err != nil {
		if errors.Is(err, auth.ErrMaxRefreshExceeded) {
			return nil, ErrTokenMaxRefresh
		}
		return nil, fmt.Errorf("failed to refresh token pair: %w", err)
	}

	if s.config.RotateRefreshTokens && s.config.BlacklistAfterRotation {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			return nil, fmt.Errorf("failed to blacklist rotated token: %w", err)
		}
	}
	return pair, nil
}

// Verify checks the signature, expiry and revocation of a token of either type
func (s *AuthService) Verify(ctx context.Context, token string) error {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return ErrTokenNotValid
	}
	return s.checkRevoked(ctx, claims)
}

// Logout revokes the given tokens. An empty refresh token is skipped.
// Nothing is revoked unless every given token is valid.
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	tokens := []string{accessToken}
	if refreshToken != "" {
		tokens = append(tokens, refreshToken)
	}
	validated := make([]*auth.Claims, 0, len(tokens))
	for _, token := range tokens {
		claims, err := s.jwt.ValidateToken(token)
		if err != nil {
			return ErrTokenNotValid
		}
		validated = append(validated, claims)
	}
	for _, claims := range validated {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			return fmt.Errorf("failed to blacklist token: %w", err)
		}
	}
	logger.Enrich(ctx, s.logger).Info("User logged out")
	return nil
}

// CheckRevoked reports ErrTokenNotValid for blacklisted tokens and tokens issued before the user's invalidation
func (s *AuthService) CheckRevoked(ctx context.Context, claims *auth.Claims) error {
	return s.checkRevoked(ctx, claims)
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if blacklisted {
		return ErrTokenNotValid
	}
	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		return fmt.Errorf("failed to check user tokens: %w", err)
	}
	if invalidated {
		return ErrTokenNotValid
	}
	return nil
}
