package account

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository defines the interface for profile persistence
type ProfileRepository interface {
	// Save inserts the profile or updates the one already stored for its user
	Save(ctx context.Context, profile *Profile) error

	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)

	ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error)

	// Delete removes the profile of a user, releasing the user for deletion
	Delete(ctx context.Context, userID uuid.UUID) error

	// FindUsersWithoutProfile returns up to limit ids of users that have no profile yet
	FindUsersWithoutProfile(ctx context.Context, limit int) ([]uuid.UUID, error)
}
