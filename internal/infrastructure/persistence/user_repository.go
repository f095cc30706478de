package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/domain/shared"
	"github.com/painless/shop/internal/infrastructure/persistence/models"
)

// ErrPhoneNumberTaken is returned when a phone number is already registered
var ErrPhoneNumberTaken = shared.NewDomainError("ALREADY_EXISTS", "User with this Phone number already exists.")

// GormUserRepository implements account.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a new user
func (r *GormUserRepository) Create(ctx context.Context, user *account.User) error {
	model := models.UserModelFromDomain(user)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrPhoneNumberTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update writes every column of an existing user
func (r *GormUserRepository) Update(ctx context.Context, user *account.User) error {
	model := models.UserModelFromDomain(user)
	result := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", user.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrPhoneNumberTaken
		}
		return fmt.Errorf("update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// RecordLogin stamps last_login and last_login_ip without touching the other columns
func (r *GormUserRepository) RecordLogin(ctx context.Context, id uuid.UUID, ip string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"last_login": at, "last_login_ip": ip})
	if result.Error != nil {
		return fmt.Errorf("record login: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a user. Users that still have a profile are protected.
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var profiles int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProfileModel{}).
		Where("user_id = ?", id).
		Count(&profiles).Error; err != nil {
		return fmt.Errorf("count user profiles: %w", err)
	}
	if profiles > 0 {
		return account.ErrUserProtected
	}

	result := r.db.WithContext(ctx).Delete(&models.UserModel{}, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return account.ErrUserProtected
		}
		return fmt.Errorf("delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*account.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindByPhoneNumber finds a user by exact phone number
func (r *GormUserRepository) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*account.User, error) {
	if phoneNumber == "" {
		return nil, shared.ErrNotFound
	}
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("phone_number = ?", phoneNumber).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// ExistsByPhoneNumber checks if a phone number is taken
func (r *GormUserRepository) ExistsByPhoneNumber(ctx context.Context, phoneNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("phone_number = ?", phoneNumber).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check phone number: %w", err)
	}
	return count > 0, nil
}

// FindAll returns one window of users matching the filter
func (r *GormUserRepository) FindAll(ctx context.Context, filter account.UserFilter) (shared.Page[*account.User], error) {
	window := filter.Window.Normalize()
	base := func() *gorm.DB {
		return r.applyFilter(r.db.WithContext(ctx).Model(&models.UserModel{}), filter)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return shared.Page[*account.User]{}, fmt.Errorf("count users: %w", err)
	}

	sortBy := ValidateSortField(filter.SortBy, UserSortFields, "phone_number")
	sortOrder := ValidateSortOrder(filter.SortOrder, "ASC")

	var rows []models.UserModel
	if err := base().
		Order(sortBy + " " + sortOrder).
		Order("id ASC").
		Limit(window.Limit).
		Offset(window.Offset).
		Find(&rows).Error; err != nil {
		return shared.Page[*account.User]{}, fmt.Errorf("list users: %w", err)
	}

	return shared.NewPage(toDomainUsers(rows), total, window), nil
}

// Count returns the total number of users
func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (r *GormUserRepository) applyFilter(query *gorm.DB, filter account.UserFilter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		query = query.Where(
			`LOWER(phone_number) LIKE ? ESCAPE '\' OR LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IsStaff != nil {
		query = query.Where("is_staff = ?", *filter.IsStaff)
	}
	if filter.IsSuperuser != nil {
		query = query.Where("is_superuser = ?", *filter.IsSuperuser)
	}
	if filter.LastLoginFrom != nil {
		query = query.Where("last_login >= ?", *filter.LastLoginFrom)
	}
	if filter.LastLoginTo != nil {
		query = query.Where("last_login <= ?", *filter.LastLoginTo)
	}
	if filter.DateJoinedFrom != nil {
		query = query.Where("date_joined >= ?", *filter.DateJoinedFrom)
	}
	if filter.DateJoinedTo != nil {
		query = query.Where("date_joined <= ?", *filter.DateJoinedTo)
	}
	return query
}

// likeEscaper makes LIKE wildcards in a search term match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func toDomainUsers(rows []models.UserModel) []*account.User {
	users := make([]*account.User, len(rows))
	for i := range rows {
		users[i] = rows[i].ToDomain()
	}
	return users
}

// notFoundOr maps gorm.ErrRecordNotFound to shared.ErrNotFound
func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}
