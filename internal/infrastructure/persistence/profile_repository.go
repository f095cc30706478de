package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/domain/shared"
	"github.com/painless/shop/internal/infrastructure/persistence/models"
)

// GormProfileRepository implements account.ProfileRepository using GORM
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// Save upserts the profile on its user id. The stored row keeps its original id.
func (r *GormProfileRepository) Save(ctx context.Context, profile *account.Profile) error {
	model := models.ProfileModelFromDomain(profile)
	err := r.db.WithContext(ctx).
		Omit("User").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"gender", "nickname", "job", "birth_date", "national_code", "is_complete", "updated_at",
			}),
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// FindByUserID finds the profile of a user
func (r *GormProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*account.Profile, error) {
	var model models.ProfileModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// ExistsByUserID checks if the user has a profile
func (r *GormProfileRepository) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProfileModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check profile: %w", err)
	}
	return count > 0, nil
}

// Delete removes the profile of a user
func (r *GormProfileRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProfileModel{}, "user_id = ?", userID)
	if result.Error != nil {
		return fmt.Errorf("delete profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindUsersWithoutProfile returns up to limit user ids that have no profile, oldest users first
func (r *GormProfileRepository) FindUsersWithoutProfile(ctx context.Context, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("NOT EXISTS (?)",
			r.db.Model(&models.ProfileModel{}).Select("1").Where("profiles.user_id = users.id"),
		).
		Order("users.date_joined ASC").
		Order("users.id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Pluck("users.id", &ids).Error; err != nil {
		return nil, fmt.Errorf("find users without profile: %w", err)
	}
	return ids, nil
}
