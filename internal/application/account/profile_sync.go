package account

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/domain/shared"
)

// ProfileSync makes sure every saved user has a profile
type ProfileSync struct {
	profiles account.ProfileRepository
	logger   *zap.Logger
}

// NewProfileSync creates the handler
func NewProfileSync(profiles account.ProfileRepository, logger *zap.Logger) *ProfileSync {
	return &ProfileSync{profiles: profiles, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *ProfileSync) EventTypes() []string {
	return []string{account.EventTypeUserCreated, account.EventTypeUserUpdated}
}

// Handle creates an empty profile for the event's user when none exists yet
func (h *ProfileSync) Handle(ctx context.Context, event shared.DomainEvent) error {
	userID := event.AggregateID()

	exists, err := h.profiles.ExistsByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check profile: %w", err)
	}
	if exists {
		return nil
	}

	if err := h.profiles.Save(ctx, account.NewProfile(userID)); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	h.logger.Debug("Profile created", zap.String("user_id", userID.String()))
	return nil
}

var _ shared.EventHandler = (*ProfileSync)(nil)
