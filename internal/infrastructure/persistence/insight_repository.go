package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/domain/shared"
	"github.com/painless/shop/internal/domain/shared/valueobject"
	"github.com/painless/shop/internal/domain/shop"
	"github.com/painless/shop/internal/infrastructure/persistence/models"
)

// GormInsightRepository implements account.InsightRepository with GORM query chains
type GormInsightRepository struct {
	db       *gorm.DB
	currency valueobject.Currency
	fold     cases.Caser
}

// NewGormInsightRepository creates an insight repository reporting amounts in currency
func NewGormInsightRepository(db *gorm.DB, currency valueobject.Currency) *GormInsightRepository {
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &GormInsightRepository{
		db:       db,
		currency: currency,
		fold:     cases.Lower(language.Und),
	}
}

// userScoreRow is a user row with one aggregated column
type userScoreRow struct {
	models.UserModel
	Score int64
}

// userAmountRow is a user row with one money aggregate
type userAmountRow struct {
	models.UserModel
	Amount decimal.Decimal
}

type userInfoRow struct {
	models.UserModel
	ProfileGender    *string
	ProfileBirthDate *time.Time
}

type postalAddressRow struct {
	UserID        uuid.UUID
	PhoneNumber   string
	PostalAddress *string
}

// NormalUsers returns active users that are neither staff nor superuser
func (r *GormInsightRepository) NormalUsers(ctx context.Context, w shared.Window) (shared.Page[*account.User], error) {
	return r.userPage(ctx, w, func(q *gorm.DB) *gorm.DB {
		return q.Where("users.is_superuser = ? AND users.is_staff = ? AND users.is_active = ?", false, false, true)
	})
}

// UsersByActive returns active or inactive users
func (r *GormInsightRepository) UsersByActive(ctx context.Context, isActive bool, w shared.Window) (shared.Page[*account.User], error) {
	return r.userPage(ctx, w, func(q *gorm.DB) *gorm.DB {
		return q.Where("users.is_active = ?", isActive)
	})
}

// MostPurchases sums purchased quantities per user. Users without orders score 0.
func (r *GormInsightRepository) MostPurchases(ctx context.Context, w shared.Window) (shared.Page[account.UserCount], error) {
	return r.userScorePage(ctx, w, nil, func(q *gorm.DB) *gorm.DB {
		return q.Select("users.*, COALESCE(SUM(pack_orders.quantity), 0) AS score").
			Joins("LEFT JOIN orders ON orders.user_id = users.id").
			Joins("LEFT JOIN pack_orders ON pack_orders.order_id = orders.id")
	})
}

// SoldTheMost sums quantity*cost per user
func (r *GormInsightRepository) SoldTheMost(ctx context.Context, w shared.Window) (shared.Page[account.UserAmount], error) {
	return r.userAmountPage(ctx, w, "DESC", func(q *gorm.DB) *gorm.DB {
		return q.Select("users.*, COALESCE(SUM(pack_orders.quantity * pack_orders.cost), 0) AS amount").
			Joins("LEFT JOIN orders ON orders.user_id = users.id").
			Joins("LEFT JOIN pack_orders ON pack_orders.order_id = orders.id")
	})
}

// BenefitedTheMost sums quantity*(cost-buy_price) per user
func (r *GormInsightRepository) BenefitedTheMost(ctx context.Context, w shared.Window) (shared.Page[account.UserAmount], error) {
	return r.userAmountPage(ctx, w, "DESC", func(q *gorm.DB) *gorm.DB {
		return q.Select("users.*, COALESCE(SUM(pack_orders.quantity * (pack_orders.cost - pack_orders.buy_price)), 0) AS amount").
			Joins("LEFT JOIN orders ON orders.user_id = users.id").
			Joins("LEFT JOIN pack_orders ON pack_orders.order_id = orders.id")
	})
}

// BoughtFromBrand returns distinct users who ordered a pack of the brand
func (r *GormInsightRepository) BoughtFromBrand(ctx context.Context, brandTitle string, w shared.Window) (shared.Page[*account.User], error) {
	sub := r.purchasedPacks().
		Joins("JOIN products ON products.id = packs.product_id").
		Joins("JOIN brands ON brands.id = products.brand_id").
		Where("LOWER(brands.title) = ?", r.fold.String(brandTitle))
	return r.userPage(ctx, w, func(q *gorm.DB) *gorm.DB {
		return q.Where("EXISTS (?)", sub)
	})
}

// DiscountedPurchases returns users who ordered a product with an active voucher
func (r *GormInsightRepository) DiscountedPurchases(ctx context.Context, w shared.Window) (shared.Page[*account.User], error) {
	sub := r.purchasedPacks().
		Joins("JOIN products ON products.id = packs.product_id").
		Where("products.is_voucher_active = ?", true)
	return r.userPage(ctx, w, func(q *gorm.DB) *gorm.DB {
		return q.Where("EXISTS (?)", sub)
	})
}

// WithoutPurchase returns users with no orders
func (r *GormInsightRepository) WithoutPurchase(ctx context.Context, w shared.Window) (shared.Page[*account.User], error) {
	sub := r.db.Model(&models.OrderModel{}).Select("1").Where("orders.user_id = users.id")
	return r.userPage(ctx, w, func(q *gorm.DB) *gorm.DB {
		return q.Where("NOT EXISTS (?)", sub)
	})
}

// RequestedRefund returns users with at least one refunded pack order
func (r *GormInsightRepository) RequestedRefund(ctx context.Context, w shared.Window) (shared.Page[*account.User], error) {
	sub := r.db.Model(&models.OrderModel{}).Select("1").
		Joins("JOIN pack_orders ON pack_orders.order_id = orders.id").
		Where("orders.user_id = users.id AND pack_orders.is_refunded = ?", true)
	return r.userPage(ctx, w, func(q *gorm.DB) *gorm.DB {
		return q.Where("EXISTS (?)", sub)
	})
}

// RefundRequestCounts counts refunded pack orders per user
func (r *GormInsightRepository) RefundRequestCounts(ctx context.Context, w shared.Window) (shared.Page[account.UserCount], error) {
	return r.userScorePage(ctx, w, nil, func(q *gorm.DB) *gorm.DB {
		return q.Select("users.*, COUNT(CASE WHEN pack_orders.is_refunded = ? THEN 1 END) AS score", true).
			Joins("LEFT JOIN orders ON orders.user_id = users.id").
			Joins("LEFT JOIN pack_orders ON pack_orders.order_id = orders.id")
	})
}

// PurchasedColor returns distinct users who ordered a pack in the color
func (r *GormInsightRepository) PurchasedColor(ctx context.Context, colorTitle string, w shared.Window) (shared.Page[*account.User], error) {
	sub := r.purchasedPacks().
		Joins("JOIN colors ON colors.id = packs.color_id").
		Where("LOWER(colors.title) = ?", r.fold.String(colorTitle))
	return r.userPage(ctx, w, func(q *gorm.DB) *gorm.DB {
		return q.Where("EXISTS (?)", sub)
	})
}

// DeliveredOrCancelledCounts counts delivered or cancelled orders, only for users that have one
func (r *GormInsightRepository) DeliveredOrCancelledCounts(ctx context.Context, w shared.Window) (shared.Page[account.UserCount], error) {
	finished := []string{string(shop.OrderStatusDelivered), string(shop.OrderStatusCancelled)}
	sub := r.db.Model(&models.OrderModel{}).Select("1").
		Where("orders.user_id = users.id AND orders.status IN ?", finished)
	countScope := func(q *gorm.DB) *gorm.DB {
		return q.Where("EXISTS (?)", sub)
	}
	return r.userScorePage(ctx, w, countScope, func(q *gorm.DB) *gorm.DB {
		return q.Select("users.*, COUNT(orders.id) AS score").
			Joins("JOIN orders ON orders.user_id = users.id AND orders.status IN ?", finished)
	})
}

// ByOrderStatus returns distinct users having an order in status
func (r *GormInsightRepository) ByOrderStatus(ctx context.Context, status shop.OrderStatus, w shared.Window) (shared.Page[*account.User], error) {
	if !status.IsValid() {
		return shared.Page[*account.User]{}, shared.NewDomainError("INVALID_ORDER_STATUS",
			"\""+status.String()+"\" is not a valid order status.")
	}
	sub := r.db.Model(&models.OrderModel{}).Select("1").
		Where("orders.user_id = users.id AND orders.status = ?", string(status))
	return r.userPage(ctx, w, func(q *gorm.DB) *gorm.DB {
		return q.Where("EXISTS (?)", sub)
	})
}

// OrdersPerUser returns a window of users, each with their orders oldest first
func (r *GormInsightRepository) OrdersPerUser(ctx context.Context, w shared.Window) (shared.Page[account.UserOrders], error) {
	users, err := r.userPage(ctx, w, nil)
	if err != nil {
		return shared.Page[account.UserOrders]{}, err
	}

	ids := make([]uuid.UUID, len(users.Items))
	for i, u := range users.Items {
		ids[i] = u.ID
	}
	var rows []models.OrderModel
	if len(ids) > 0 {
		if err := r.db.WithContext(ctx).
			Where("user_id IN ?", ids).
			Order("created ASC").
			Order("id ASC").
			Find(&rows).Error; err != nil {
			return shared.Page[account.UserOrders]{}, fmt.Errorf("load orders: %w", err)
		}
	}

	byUser := make(map[uuid.UUID][]*shop.Order, len(ids))
	for i := range rows {
		byUser[rows[i].UserID] = append(byUser[rows[i].UserID], rows[i].ToDomain())
	}
	return shared.MapPage(users, func(u *account.User) account.UserOrders {
		orders := byUser[u.ID]
		if orders == nil {
			orders = []*shop.Order{}
		}
		return account.UserOrders{User: u, Orders: orders}
	}), nil
}

// PostalAddresses returns one row per user address, and one empty row for users without addresses
func (r *GormInsightRepository) PostalAddresses(ctx context.Context, w shared.Window) (shared.Page[account.UserPostalAddress], error) {
	window := w.Normalize()
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.UserModel{}).
			Joins("LEFT JOIN addresses ON addresses.user_id = users.id")
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return shared.Page[account.UserPostalAddress]{}, fmt.Errorf("count postal addresses: %w", err)
	}

	var rows []postalAddressRow
	if err := base().
		Select("users.id AS user_id, users.phone_number AS phone_number, addresses.postal_address AS postal_address").
		Order("users.phone_number ASC").
		Order("addresses.postal_address ASC").
		Limit(window.Limit).
		Offset(window.Offset).
		Scan(&rows).Error; err != nil {
		return shared.Page[account.UserPostalAddress]{}, fmt.Errorf("list postal addresses: %w", err)
	}

	items := make([]account.UserPostalAddress, len(rows))
	for i, row := range rows {
		items[i] = account.UserPostalAddress{
			UserID:        row.UserID,
			PhoneNumber:   row.PhoneNumber,
			PostalAddress: row.PostalAddress,
		}
	}
	return shared.NewPage(items, total, window), nil
}

// UsersInfo returns users with gender and birth date from their profile
func (r *GormInsightRepository) UsersInfo(ctx context.Context, w shared.Window) (shared.Page[account.UserInfo], error) {
	window := w.Normalize()
	total, err := r.countUsers(ctx, nil)
	if err != nil {
		return shared.Page[account.UserInfo]{}, err
	}

	var rows []userInfoRow
	if err := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Select("users.*, profiles.gender AS profile_gender, profiles.birth_date AS profile_birth_date").
		Joins("LEFT JOIN profiles ON profiles.user_id = users.id").
		Order("users.phone_number ASC").
		Limit(window.Limit).
		Offset(window.Offset).
		Scan(&rows).Error; err != nil {
		return shared.Page[account.UserInfo]{}, fmt.Errorf("list users info: %w", err)
	}

	items := make([]account.UserInfo, len(rows))
	for i := range rows {
		info := account.UserInfo{
			User:      rows[i].UserModel.ToDomain(),
			BirthDate: rows[i].ProfileBirthDate,
		}
		if rows[i].ProfileGender != nil {
			g := account.Gender(*rows[i].ProfileGender)
			info.Gender = &g
		}
		items[i] = info
	}
	return shared.NewPage(items, total, window), nil
}

// VoucherConsumption counts vouchers attached to each user's orders, highest first
func (r *GormInsightRepository) VoucherConsumption(ctx context.Context, limit *int) ([]account.UserCount, error) {
	query := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Select("users.*, COUNT(order_vouchers.voucher_id) AS score").
		Joins("LEFT JOIN orders ON orders.user_id = users.id").
		Joins("LEFT JOIN order_vouchers ON order_vouchers.order_id = orders.id").
		Group("users.id").
		Order("score DESC").
		Order("users.phone_number ASC")
	if limit != nil {
		if *limit < 0 {
			return nil, shared.NewDomainError("INVALID_LIMIT", "Limit must be zero or greater.")
		}
		query = query.Limit(*limit)
	}

	var rows []userScoreRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("voucher consumption: %w", err)
	}
	return toUserCounts(rows), nil
}

// IncomePerAccount sums quantity*(price-buy_price) over each user's cart lines
func (r *GormInsightRepository) IncomePerAccount(ctx context.Context, w shared.Window) (shared.Page[account.UserAmount], error) {
	return r.userAmountPage(ctx, w, "", func(q *gorm.DB) *gorm.DB {
		return q.Select("users.*, COALESCE(SUM(pack_carts.quantity * (packs.price - packs.buy_price)), 0) AS amount").
			Joins("LEFT JOIN carts ON carts.user_id = users.id").
			Joins("LEFT JOIN pack_carts ON pack_carts.cart_id = carts.id").
			Joins("LEFT JOIN packs ON packs.id = pack_carts.pack_id")
	})
}

// UserAddresses returns the addresses of one user
func (r *GormInsightRepository) UserAddresses(ctx context.Context, userID uuid.UUID, w shared.Window) (shared.Page[*shop.Address], error) {
	window := w.Normalize()
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.AddressModel{}).Where("user_id = ?", userID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return shared.Page[*shop.Address]{}, fmt.Errorf("count addresses: %w", err)
	}

	var rows []models.AddressModel
	if err := base().
		Order("is_default DESC").
		Order("postal_address ASC").
		Limit(window.Limit).
		Offset(window.Offset).
		Find(&rows).Error; err != nil {
		return shared.Page[*shop.Address]{}, fmt.Errorf("list addresses: %w", err)
	}

	items := make([]*shop.Address, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return shared.NewPage(items, total, window), nil
}

// purchasedPacks is a correlated subquery over the packs ordered by the outer users row
func (r *GormInsightRepository) purchasedPacks() *gorm.DB {
	return r.db.Model(&models.OrderModel{}).Select("1").
		Joins("JOIN pack_orders ON pack_orders.order_id = orders.id").
		Joins("JOIN packs ON packs.id = pack_orders.pack_id").
		Where("orders.user_id = users.id")
}

func (r *GormInsightRepository) countUsers(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.UserModel{})
	if scope != nil {
		query = scope(query)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

// userPage lists users matching scope ordered by phone number
func (r *GormInsightRepository) userPage(ctx context.Context, w shared.Window, scope func(*gorm.DB) *gorm.DB) (shared.Page[*account.User], error) {
	window := w.Normalize()
	total, err := r.countUsers(ctx, scope)
	if err != nil {
		return shared.Page[*account.User]{}, err
	}

	query := r.db.WithContext(ctx).Model(&models.UserModel{})
	if scope != nil {
		query = scope(query)
	}
	var rows []models.UserModel
	if err := query.
		Order("users.phone_number ASC").
		Limit(window.Limit).
		Offset(window.Offset).
		Find(&rows).Error; err != nil {
		return shared.Page[*account.User]{}, fmt.Errorf("list users: %w", err)
	}
	return shared.NewPage(toDomainUsers(rows), total, window), nil
}

// userScorePage runs a grouped per-user count, highest first.
// countScope restricts the total when the aggregate drops users; nil counts every user.
func (r *GormInsightRepository) userScorePage(ctx context.Context, w shared.Window, countScope, aggregate func(*gorm.DB) *gorm.DB) (shared.Page[account.UserCount], error) {
	window := w.Normalize()
	total, err := r.countUsers(ctx, countScope)
	if err != nil {
		return shared.Page[account.UserCount]{}, err
	}

	var rows []userScoreRow
	if err := aggregate(r.db.WithContext(ctx).Model(&models.UserModel{})).
		Group("users.id").
		Order("score DESC").
		Order("users.phone_number ASC").
		Limit(window.Limit).
		Offset(window.Offset).
		Scan(&rows).Error; err != nil {
		return shared.Page[account.UserCount]{}, fmt.Errorf("aggregate users: %w", err)
	}
	return shared.NewPage(toUserCounts(rows), total, window), nil
}

// userAmountPage runs a grouped per-user sum. An empty order keeps phone number order.
func (r *GormInsightRepository) userAmountPage(ctx context.Context, w shared.Window, order string, aggregate func(*gorm.DB) *gorm.DB) (shared.Page[account.UserAmount], error) {
	window := w.Normalize()
	total, err := r.countUsers(ctx, nil)
	if err != nil {
		return shared.Page[account.UserAmount]{}, err
	}

	query := aggregate(r.db.WithContext(ctx).Model(&models.UserModel{})).Group("users.id")
	if order != "" {
		query = query.Order("amount " + order)
	}
	var rows []userAmountRow
	if err := query.
		Order("users.phone_number ASC").
		Limit(window.Limit).
		Offset(window.Offset).
		Scan(&rows).Error; err != nil {
		return shared.Page[account.UserAmount]{}, fmt.Errorf("aggregate users: %w", err)
	}

	items := make([]account.UserAmount, len(rows))
	for i := range rows {
		amount, err := valueobject.NewMoney(rows[i].Amount, r.currency)
		if err != nil {
			return shared.Page[account.UserAmount]{}, err
		}
		items[i] = account.UserAmount{User: rows[i].UserModel.ToDomain(), Amount: amount}
	}
	return shared.NewPage(items, total, window), nil
}

func toUserCounts(rows []userScoreRow) []account.UserCount {
	items := make([]account.UserCount, len(rows))
	for i := range rows {
		items[i] = account.UserCount{User: rows[i].UserModel.ToDomain(), Count: rows[i].Score}
	}
	return items
}
