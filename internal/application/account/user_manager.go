// Package account holds the account use cases: user management, registration,
// token issuance, the owner-checked user API and the reporting queries.
package account

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/domain/shared"
)

// ErrPhoneNumberTaken reports a duplicate phone number
var ErrPhoneNumberTaken = shared.NewDomainError("ALREADY_EXISTS", "User with this Phone number already exists.")

// UserManager creates users and superusers and publishes their events
type UserManager struct {
	users  account.UserRepository
	events shared.EventPublisher
	logger *zap.Logger
}

// NewUserManager creates a user manager
func NewUserManager(users account.UserRepository, events shared.EventPublisher, logger *zap.Logger) *UserManager {
	return &UserManager{users: users, events: events, logger: logger}
}

// CreateUser creates an active, non-staff user unless extra says otherwise
func (m *UserManager) CreateUser(ctx context.Context, phoneNumber, password string, extra UserExtra) (*account.User, error) {
	return m.create(ctx, phoneNumber, password, extra,
		valueOr(extra.IsActive, true),
		valueOr(extra.IsStaff, false),
		valueOr(extra.IsSuperuser, false),
	)
}

// CreateSuperuser creates an active staff superuser. Explicitly lowering either flag is rejected.
func (m *UserManager) CreateSuperuser(ctx context.Context, phoneNumber, password string, extra UserExtra) (*account.User, error) {
	if extra.IsStaff != nil && !*extra.IsStaff {
		return nil, shared.NewDomainError("INVALID_SUPERUSER", "Superuser must have is_staff=True.")
	}
	if extra.IsSuperuser != nil && !*extra.IsSuperuser {
		return nil, shared.NewDomainError("INVALID_SUPERUSER", "Superuser must have is_superuser=True.")
	}
	return m.create(ctx, phoneNumber, password, extra, valueOr(extra.IsActive, true), true, true)
}

func (m *UserManager) create(ctx context.Context, phoneNumber, password string, extra UserExtra, active, staff, superuser bool) (*account.User, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if err := account.ValidatePhoneNumber(phoneNumber); err != nil {
		return nil, err
	}

	exists, err := m.users.ExistsByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check phone number: %w", err)
	}
	if exists {
		return nil, ErrPhoneNumberTaken
	}

	user, err := account.NewUser(phoneNumber, password)
	if err != nil {
		return nil, err
	}
	if err := user.SetEmail(extra.Email); err != nil {
		return nil, err
	}
	if err := user.SetNames(extra.FirstName, extra.LastName); err != nil {
		return nil, err
	}
	if !active {
		user.Deactivate()
	}
	user.GrantStaff(staff)
	user.GrantSuperuser(superuser)

	// A fresh user announces itself once, with its final flags.
	user.ClearDomainEvents()
	user.AddDomainEvent(account.NewUserCreatedEvent(user))

	if err := m.users.Create(ctx, user); err != nil {
		return nil, err
	}
	m.publish(ctx, user)
	return user, nil
}

// publish sends pending user events. The user is already stored, so failures are logged only.
func (m *UserManager) publish(ctx context.Context, user *account.User) {
	events := user.PullDomainEvents()
	if len(events) == 0 || m.events == nil {
		return
	}
	if err := m.events.Publish(ctx, events...); err != nil {
		m.logger.Error("Failed to publish user events",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}
}

func valueOr(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
