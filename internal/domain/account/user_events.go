package account

import (
	"github.com/google/uuid"

	"github.com/painless/shop/internal/domain/shared"
)

// AggregateTypeUser names the user aggregate in events
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserCreated = "account.user.created"
	EventTypeUserUpdated = "account.user.updated"
	EventTypeUserDeleted = "account.user.deleted"
)

// UserCreatedEvent is published when a user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	PhoneNumber string `json:"phone_number"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID),
		PhoneNumber:     user.PhoneNumber,
		IsStaff:         user.IsStaff,
		IsSuperuser:     user.IsSuperuser,
	}
}

// UserUpdatedEvent is published when a saved user changes
type UserUpdatedEvent struct {
	shared.BaseDomainEvent
	PhoneNumber string   `json:"phone_number"`
	Fields      []string `json:"fields"`
}

// NewUserUpdatedEvent creates a new UserUpdatedEvent
func NewUserUpdatedEvent(user *User, fields ...string) *UserUpdatedEvent {
	return &UserUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserUpdated, AggregateTypeUser, user.ID),
		PhoneNumber:     user.PhoneNumber,
		Fields:          fields,
	}
}

// UserDeletedEvent is published after a user row is removed
type UserDeletedEvent struct {
	shared.BaseDomainEvent
	PhoneNumber string `json:"phone_number"`
}

// NewUserDeletedEvent creates a new UserDeletedEvent
func NewUserDeletedEvent(id uuid.UUID, phoneNumber string) *UserDeletedEvent {
	return &UserDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserDeleted, AggregateTypeUser, id),
		PhoneNumber:     phoneNumber,
	}
}
