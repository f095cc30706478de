package account

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/domain/shared"
	"github.com/painless/shop/internal/domain/shop"
)

// MockUserRepository is a mock implementation of account.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *account.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *account.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) RecordLogin(ctx context.Context, id uuid.UUID, ip string, at time.Time) error {
	args := m.Called(ctx, id, ip, at)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*account.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

func (m *MockUserRepository) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*account.User, error) {
	args := m.Called(ctx, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByPhoneNumber(ctx context.Context, phoneNumber string) (bool, error) {
	args := m.Called(ctx, phoneNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter account.UserFilter) (shared.Page[*account.User], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Page[*account.User]), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockProfileRepository is a mock implementation of account.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Save(ctx context.Context, profile *account.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*account.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Profile), args.Error(1)
}

func (m *MockProfileRepository) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockProfileRepository) FindUsersWithoutProfile(ctx context.Context, limit int) ([]uuid.UUID, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockInsightRepository is a mock implementation of account.InsightRepository
type MockInsightRepository struct {
	mock.Mock
}

func (m *MockInsightRepository) users(args mock.Arguments) (shared.Page[*account.User], error) {
	return args.Get(0).(shared.Page[*account.User]), args.Error(1)
}

func (m *MockInsightRepository) counts(args mock.Arguments) (shared.Page[account.UserCount], error) {
	return args.Get(0).(shared.Page[account.UserCount]), args.Error(1)
}

func (m *MockInsightRepository) amounts(args mock.Arguments) (shared.Page[account.UserAmount], error) {
	return args.Get(0).(shared.Page[account.UserAmount]), args.Error(1)
}

func (m *MockInsightRepository) NormalUsers(ctx context.Context, w shared.Window) (shared.Page[*account.User], error) {
	return m.users(m.Called(ctx, w))
}

func (m *MockInsightRepository) UsersByActive(ctx context.Context, isActive bool, w shared.Window) (shared.Page[*account.User], error) {
	return m.users(m.Called(ctx, isActive, w))
}

func (m *MockInsightRepository) MostPurchases(ctx context.Context, w shared.Window) (shared.Page[account.UserCount], error) {
	return m.counts(m.Called(ctx, w))
}

func (m *MockInsightRepository) SoldTheMost(ctx context.Context, w shared.Window) (shared.Page[account.UserAmount], error) {
	return m.amounts(m.Called(ctx, w))
}

func (m *MockInsightRepository) BenefitedTheMost(ctx context.Context, w shared.Window) (shared.Page[account.UserAmount], error) {
	return m.amounts(m.Called(ctx, w))
}

func (m *MockInsightRepository) BoughtFromBrand(ctx context.Context, brandTitle string, w shared.Window) (shared.Page[*account.User], error) {
	return m.users(m.Called(ctx, brandTitle, w))
}

func (m *MockInsightRepository) DiscountedPurchases(ctx context.Context, w shared.Window) (shared.Page[*account.User], error) {
	return m.users(m.Called(ctx, w))
}

func (m *MockInsightRepository) WithoutPurchase(ctx context.Context, w shared.Window) (shared.Page[*account.User], error) {
	return m.users(m.Called(ctx, w))
}

func (m *MockInsightRepository) RequestedRefund(ctx context.Context, w shared.Window) (shared.Page[*account.User], error) {
	return m.users(m.Called(ctx, w))
}

func (m *MockInsightRepository) RefundRequestCounts(ctx context.Context, w shared.Window) (shared.Page[account.UserCount], error) {
	return m.counts(m.Called(ctx, w))
}

func (m *MockInsightRepository) PurchasedColor(ctx context.Context, colorTitle string, w shared.Window) (shared.Page[*account.User], error) {
	return m.users(m.Called(ctx, colorTitle, w))
}

func (m *MockInsightRepository) DeliveredOrCancelledCounts(ctx context.Context, w shared.Window) (shared.Page[account.UserCount], error) {
	return m.counts(m.Called(ctx, w))
}

func (m *MockInsightRepository) ByOrderStatus(ctx context.Context, status shop.OrderStatus, w shared.Window) (shared.Page[*account.User], error) {
	return m.users(m.Called(ctx, status, w))
}

func (m *MockInsightRepository) OrdersPerUser(ctx context.Context, w shared.Window) (shared.Page[account.UserOrders], error) {
	args := m.Called(ctx, w)
	return args.Get(0).(shared.Page[account.UserOrders]), args.Error(1)
}

func (m *MockInsightRepository) PostalAddresses(ctx context.Context, w shared.Window) (shared.Page[account.UserPostalAddress], error) {
	args := m.Called(ctx, w)
	return args.Get(0).(shared.Page[account.UserPostalAddress]), args.Error(1)
}

func (m *MockInsightRepository) UsersInfo(ctx context.Context, w shared.Window) (shared.Page[account.UserInfo], error) {
	args := m.Called(ctx, w)
	return args.Get(0).(shared.Page[account.UserInfo]), args.Error(1)
}

func (m *MockInsightRepository) VoucherConsumption(ctx context.Context, limit *int) ([]account.UserCount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]account.UserCount), args.Error(1)
}

func (m *MockInsightRepository) IncomePerAccount(ctx context.Context, w shared.Window) (shared.Page[account.UserAmount], error) {
	return m.amounts(m.Called(ctx, w))
}

func (m *MockInsightRepository) UserAddresses(ctx context.Context, userID uuid.UUID, w shared.Window) (shared.Page[*shop.Address], error) {
	args := m.Called(ctx, userID, w)
	return args.Get(0).(shared.Page[*shop.Address]), args.Error(1)
}

var (
	_ account.UserRepository    = (*MockUserRepository)(nil)
	_ account.ProfileRepository = (*MockProfileRepository)(nil)
	_ account.InsightRepository = (*MockInsightRepository)(nil)
)

func newTestUser(phone string) *account.User {
	user, err := account.NewUser(phone, "")
	if err != nil {
		panic(err)
	}
	user.ClearDomainEvents()
	return user
}

func boolPtr(b bool) *bool { return &b }
