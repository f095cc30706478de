package account

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/painless/shop/internal/domain/shared"
	"github.com/painless/shop/internal/domain/shared/valueobject"
	"github.com/painless/shop/internal/domain/shop"
)

// UserCount pairs a user with a counted quantity (purchases, refunds, vouchers)
type UserCount struct {
	User  *User
	Count int64
}

// UserAmount pairs a user with a money aggregate
type UserAmount struct {
	User   *User
	Amount valueobject.Money
}

// UserOrders is a user with their orders, oldest first
type UserOrders struct {
	User   *User
	Orders []*shop.Order
}

// UserPostalAddress is one address line of a user. PostalAddress is nil for users without addresses.
type UserPostalAddress struct {
	UserID        uuid.UUID
	PhoneNumber   string
	PostalAddress *string
}

// UserInfo is a user with personal details from the profile
type UserInfo struct {
	User      *User
	Gender    *Gender
	BirthDate *time.Time
}

// InsightRepository runs the reporting queries over users, orders, packs and vouchers
type InsightRepository interface {
	// NormalUsers returns active users that are neither staff nor superuser
	NormalUsers(ctx context.Context, w shared.Window) (shared.Page[*User], error)

	UsersByActive(ctx context.Context, isActive bool, w shared.Window) (shared.Page[*User], error)

	// MostPurchases sums purchased quantities per user, highest first
	MostPurchases(ctx context.Context, w shared.Window) (shared.Page[UserCount], error)

	// SoldTheMost sums quantity*cost per user, highest first
	SoldTheMost(ctx context.Context, w shared.Window) (shared.Page[UserAmount], error)

	// BenefitedTheMost sums quantity*(cost-buy_price) per user, highest first
	BenefitedTheMost(ctx context.Context, w shared.Window) (shared.Page[UserAmount], error)

	// BoughtFromBrand matches the brand title case-insensitively
	BoughtFromBrand(ctx context.Context, brandTitle string, w shared.Window) (shared.Page[*User], error)

	// DiscountedPurchases returns users who bought a product with an active voucher
	DiscountedPurchases(ctx context.Context, w shared.Window) (shared.Page[*User], error)

	WithoutPurchase(ctx context.Context, w shared.Window) (shared.Page[*User], error)

	RequestedRefund(ctx context.Context, w shared.Window) (shared.Page[*User], error)

	// RefundRequestCounts counts refunded pack orders per user
	RefundRequestCounts(ctx context.Context, w shared.Window) (shared.Page[UserCount], error)

	// PurchasedColor matches the color title case-insensitively
	PurchasedColor(ctx context.Context, colorTitle string, w shared.Window) (shared.Page[*User], error)

	// DeliveredOrCancelledCounts counts finished orders, for users that have any
	DeliveredOrCancelledCounts(ctx context.Context, w shared.Window) (shared.Page[UserCount], error)

	ByOrderStatus(ctx context.Context, status shop.OrderStatus, w shared.Window) (shared.Page[*User], error)

	OrdersPerUser(ctx context.Context, w shared.Window) (shared.Page[UserOrders], error)

	PostalAddresses(ctx context.Context, w shared.Window) (shared.Page[UserPostalAddress], error)

	UsersInfo(ctx context.Context, w shared.Window) (shared.Page[UserInfo], error)

	// VoucherConsumption counts vouchers used per user, highest first. A nil limit returns every user.
	VoucherConsumption(ctx context.Context, limit *int) ([]UserCount, error)

	// IncomePerAccount sums quantity*(price-buy_price) over each user's cart
	IncomePerAccount(ctx context.Context, w shared.Window) (shared.Page[UserAmount], error)

	UserAddresses(ctx context.Context, userID uuid.UUID, w shared.Window) (shared.Page[*shop.Address], error)
}
