package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/domain/shared"
	"github.com/painless/shop/internal/infrastructure/auth"
	"github.com/painless/shop/internal/infrastructure/logger"
	"github.com/painless/shop/internal/infrastructure/telemetry"
)

// UserServiceConfig controls the user API behavior
type UserServiceConfig struct {
	// Debug reveals that a user exists to non-owners by answering FORBIDDEN instead of NOT_FOUND
	Debug bool
	// TokenTTL bounds how long a user-wide token invalidation must be remembered
	TokenTTL time.Duration
}

// UserService serves the owner-checked user API and the staff user administration
type UserService struct {
	users     account.UserRepository
	profiles  account.ProfileRepository
	blacklist auth.TokenBlacklist
	events    shared.EventPublisher
	config    UserServiceConfig
	logger    *zap.Logger
}

// NewUserService creates a user service
func NewUserService(
	users account.UserRepository,
	profiles account.ProfileRepository,
	blacklist auth.TokenBlacklist,
	events shared.EventPublisher,
	cfg UserServiceConfig,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:     users,
		profiles:  profiles,
		blacklist: blacklist,
		events:    events,
		config:    cfg,
		logger:    logger,
	}
}

// Get returns the user with the given phone number, but only to its owner
func (s *UserService) Get(ctx context.Context, requesterID uuid.UUID, phoneNumber string) (*account.User, error) {
	user, err := s.users.FindByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	if user.ID != requesterID {
		logger.Enrich(ctx, s.logger).Debug("User lookup by non-owner",
			logger.Phone(phoneNumber),
			zap.String("requester_id", requesterID.String()),
		)
		if s.config.Debug {
			return nil, shared.ErrForbidden
		}
		return nil, shared.ErrNotFound
	}
	return user, nil
}

// Me returns the requesting user
func (s *UserService) Me(ctx context.Context, userID uuid.UUID) (*account.User, error) {
	return s.users.FindByID(ctx, userID)
}

// List returns one window of users for the admin listing
func (s *UserService) List(ctx context.Context, filter account.UserFilter) (shared.Page[UserDTO], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "user", "list", "search", filter.Search)
	defer span.End()

	page, err := s.users.FindAll(ctx, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return shared.Page[UserDTO]{}, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrResultSize, len(page.Items))
	return shared.MapPage(page, ToUserDTO), nil
}

// GetProfile returns the profile of a user, creating an empty one if it is missing
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*account.Profile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	profile = account.NewProfile(userID)
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile applies the changes to the user's profile
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, update account.ProfileUpdate) (*account.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := profile.Update(update); err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	logger.Enrich(ctx, s.logger).Info("Profile updated", zap.String("user_id", userID.String()))
	return profile, nil
}

// Delete removes a user. Users that still have a profile are protected.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	log := logger.Enrich(ctx, s.logger)
	log.Info("User deleted", logger.Phone(user.PhoneNumber), zap.String("user_id", id.String()))
	if s.events != nil {
		if err := s.events.Publish(ctx, account.NewUserDeletedEvent(user.ID, user.PhoneNumber)); err != nil {
			log.Error("Failed to publish user deleted event", zap.Error(err))
		}
	}
	return nil
}

// SetActive activates or deactivates a user. Deactivation revokes every token issued so far.
func (s *UserService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*account.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsActive == active {
		return user, nil
	}

	if active {
		user.Activate()
	} else {
		user.Deactivate()
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	log := logger.Enrich(ctx, s.logger)
	if !active {
		if err := s.blacklist.InvalidateUserTokens(ctx, id.String(), s.config.TokenTTL); err != nil {
			return nil, fmt.Errorf("failed to revoke user tokens: %w", err)
		}
	}
	log.Info("User activation changed", zap.String("user_id", id.String()), zap.Bool("active", active))

	if events := user.PullDomainEvents(); len(events) > 0 && s.events != nil {
		if err := s.events.Publish(ctx, events...); err != nil {
			log.Error("Failed to publish user events", zap.Error(err))
		}
	}
	return user, nil
}
