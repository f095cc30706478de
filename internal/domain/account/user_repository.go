package account

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/painless/shop/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// Update updates an existing user
	Update(ctx context.Context, user *User) error

	// RecordLogin stores the last login time and IP of a user and leaves every other column alone
	RecordLogin(ctx context.Context, id uuid.UUID, ip string, at time.Time) error

	// Delete deletes a user by ID. It fails with USER_PROTECTED while the user has a profile.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByPhoneNumber finds a user by phone number
	FindByPhoneNumber(ctx context.Context, phoneNumber string) (*User, error)

	// ExistsByPhoneNumber checks if a phone number is taken
	ExistsByPhoneNumber(ctx context.Context, phoneNumber string) (bool, error)

	// FindAll returns one window of users matching the filter
	FindAll(ctx context.Context, filter UserFilter) (shared.Page[*User], error)

	// Count returns the total number of users
	Count(ctx context.Context) (int64, error)
}

// UserFilter contains filter options for the admin user listing
type UserFilter struct {
	// Search matches phone number, first name or last name
	Search string

	IsActive    *bool
	IsStaff     *bool
	IsSuperuser *bool

	LastLoginFrom  *time.Time
	LastLoginTo    *time.Time
	DateJoinedFrom *time.Time
	DateJoinedTo   *time.Time

	SortBy    string
	SortOrder string // "asc" or "desc"

	Window shared.Window
}

// NewUserFilter creates a filter ordered by phone number
func NewUserFilter() UserFilter {
	return UserFilter{
		SortBy:    "phone_number",
		SortOrder: "asc",
		Window:    shared.NewWindow(shared.DefaultLimit, 0, 0),
	}
}

// ErrUserProtected is returned when deleting a user that still has a profile
var ErrUserProtected = shared.NewDomainError("USER_PROTECTED",
	"Cannot delete the user because it is referenced by its profile.")
