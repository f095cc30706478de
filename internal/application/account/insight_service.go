package account

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/domain/shared"
	"github.com/painless/shop/internal/domain/shop"
	"github.com/painless/shop/internal/infrastructure/telemetry"
)

const requiredMessage = "This field is required."

// InsightService runs the staff reporting queries and maps them to DTOs
type InsightService struct {
	insights account.InsightRepository
}

// NewInsightService creates an insight service
func NewInsightService(insights account.InsightRepository) *InsightService {
	return &InsightService{insights: insights}
}

func runInsight[T, U any](
	ctx context.Context,
	name string,
	query func(context.Context) (shared.Page[T], error),
	convert func(T) U,
) (shared.Page[U], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "insight", name, telemetry.SpanAttrInsight, name)
	defer span.End()

	page, err := query(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return shared.Page[U]{}, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrResultSize, len(page.Items))
	return shared.MapPage(page, convert), nil
}

func requireTitle(field, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", shared.NewValidationError(field, requiredMessage)
	}
	return title, nil
}

func (s *InsightService) NormalUsers(ctx context.Context, w shared.Window) (shared.Page[UserDTO], error) {
	return runInsight(ctx, "normal_users", func(ctx context.Context) (shared.Page[*account.User], error) {
		return s.insights.NormalUsers(ctx, w)
	}, ToUserDTO)
}

func (s *InsightService) UsersByActive(ctx context.Context, isActive bool, w shared.Window) (shared.Page[UserDTO], error) {
	return runInsight(ctx, "users_by_active", func(ctx context.Context) (shared.Page[*account.User], error) {
		return s.insights.UsersByActive(ctx, isActive, w)
	}, ToUserDTO)
}

func (s *InsightService) MostPurchases(ctx context.Context, w shared.Window) (shared.Page[UserCountDTO], error) {
	return runInsight(ctx, "most_purchases", func(ctx context.Context) (shared.Page[account.UserCount], error) {
		return s.insights.MostPurchases(ctx, w)
	}, toUserCountDTO)
}

func (s *InsightService) SoldTheMost(ctx context.Context, w shared.Window) (shared.Page[UserAmountDTO], error) {
	return runInsight(ctx, "sold_the_most", func(ctx context.Context) (shared.Page[account.UserAmount], error) {
		return s.insights.SoldTheMost(ctx, w)
	}, toUserAmountDTO)
}

func (s *InsightService) BenefitedTheMost(ctx context.Context, w shared.Window) (shared.Page[UserAmountDTO], error) {
	return runInsight(ctx, "benefited_the_most", func(ctx context.Context) (shared.Page[account.UserAmount], error) {
		return s.insights.BenefitedTheMost(ctx, w)
	}, toUserAmountDTO)
}

// BoughtFromBrand returns the users who bought from the brand. The title is required.
func (s *InsightService) BoughtFromBrand(ctx context.Context, brand string, w shared.Window) (shared.Page[UserDTO], error) {
	title, err := requireTitle("brand", brand)
	if err != nil {
		return shared.Page[UserDTO]{}, err
	}
	return runInsight(ctx, "bought_from_brand", func(ctx context.Context) (shared.Page[*account.User], error) {
		return s.insights.BoughtFromBrand(ctx, title, w)
	}, ToUserDTO)
}

func (s *InsightService) DiscountedPurchases(ctx context.Context, w shared.Window) (shared.Page[UserDTO], error) {
	return runInsight(ctx, "discounted_purchases", func(ctx context.Context) (shared.Page[*account.User], error) {
		return s.insights.DiscountedPurchases(ctx, w)
	}, ToUserDTO)
}

func (s *InsightService) WithoutPurchase(ctx context.Context, w shared.Window) (shared.Page[UserDTO], error) {
	return runInsight(ctx, "without_purchase", func(ctx context.Context) (shared.Page[*account.User], error) {
		return s.insights.WithoutPurchase(ctx, w)
	}, ToUserDTO)
}

func (s *InsightService) RequestedRefund(ctx context.Context, w shared.Window) (shared.Page[UserDTO], error) {
	return runInsight(ctx, "requested_refund", func(ctx context.Context) (shared.Page[*account.User], error) {
		return s.insights.RequestedRefund(ctx, w)
	}, ToUserDTO)
}

func (s *InsightService) RefundRequestCounts(ctx context.Context, w shared.Window) (shared.Page[UserCountDTO], error) {
	return runInsight(ctx, "refund_request_counts", func(ctx context.Context) (shared.Page[account.UserCount], error) {
		return s.insights.RefundRequestCounts(ctx, w)
	}, toUserCountDTO)
}

// PurchasedColor returns the users who bought a pack in the color. The title is required.
func (s *InsightService) PurchasedColor(ctx context.Context, color string, w shared.Window) (shared.Page[UserDTO], error) {
	title, err := requireTitle("color", color)
	if err != nil {
		return shared.Page[UserDTO]{}, err
	}
	return runInsight(ctx, "purchased_color", func(ctx context.Context) (shared.Page[*account.User], error) {
		return s.insights.PurchasedColor(ctx, title, w)
	}, ToUserDTO)
}

func (s *InsightService) DeliveredOrCancelledCounts(ctx context.Context, w shared.Window) (shared.Page[UserCountDTO], error) {
	return runInsight(ctx, "delivered_or_cancelled_counts", func(ctx context.Context) (shared.Page[account.UserCount], error) {
		return s.insights.DeliveredOrCancelledCounts(ctx, w)
	}, toUserCountDTO)
}

// ByOrderStatus returns the users having an order in the given status
func (s *InsightService) ByOrderStatus(ctx context.Context, status string, w shared.Window) (shared.Page[UserDTO], error) {
	if strings.TrimSpace(status) == "" {
		return shared.Page[UserDTO]{}, shared.NewValidationError("status", requiredMessage)
	}
	parsed, err := shop.ParseOrderStatus(status)
	if err != nil {
		return shared.Page[UserDTO]{}, err
	}
	return runInsight(ctx, "by_order_status", func(ctx context.Context) (shared.Page[*account.User], error) {
		return s.insights.ByOrderStatus(ctx, parsed, w)
	}, ToUserDTO)
}

func (s *InsightService) OrdersPerUser(ctx context.Context, w shared.Window) (shared.Page[UserOrdersDTO], error) {
	return runInsight(ctx, "orders_per_user", func(ctx context.Context) (shared.Page[account.UserOrders], error) {
		return s.insights.OrdersPerUser(ctx, w)
	}, toUserOrdersDTO)
}

func (s *InsightService) PostalAddresses(ctx context.Context, w shared.Window) (shared.Page[PostalAddressDTO], error) {
	return runInsight(ctx, "postal_addresses", func(ctx context.Context) (shared.Page[account.UserPostalAddress], error) {
		return s.insights.PostalAddresses(ctx, w)
	}, toPostalAddressDTO)
}

func (s *InsightService) UsersInfo(ctx context.Context, w shared.Window) (shared.Page[UserInfoDTO], error) {
	return runInsight(ctx, "users_info", func(ctx context.Context) (shared.Page[account.UserInfo], error) {
		return s.insights.UsersInfo(ctx, w)
	}, toUserInfoDTO)
}

// VoucherConsumption ranks users by used vouchers. A nil limit returns every user.
func (s *InsightService) VoucherConsumption(ctx context.Context, limit *int) ([]UserCountDTO, error) {
	if limit != nil && *limit < 0 {
		return nil, shared.NewValidationError("limit", "Ensure this value is greater than or equal to 0.")
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "insight", "voucher_consumption",
		telemetry.SpanAttrInsight, "voucher_consumption")
	defer span.End()

	rows, err := s.insights.VoucherConsumption(ctx, limit)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrResultSize, len(rows))

	out := make([]UserCountDTO, len(rows))
	for i, row := range rows {
		out[i] = toUserCountDTO(row)
	}
	return out, nil
}

func (s *InsightService) IncomePerAccount(ctx context.Context, w shared.Window) (shared.Page[UserAmountDTO], error) {
	return runInsight(ctx, "income_per_account", func(ctx context.Context) (shared.Page[account.UserAmount], error) {
		return s.insights.IncomePerAccount(ctx, w)
	}, toUserAmountDTO)
}

func (s *InsightService) UserAddresses(ctx context.Context, userID uuid.UUID, w shared.Window) (shared.Page[AddressDTO], error) {
	if userID == uuid.Nil {
		return shared.Page[AddressDTO]{}, shared.NewValidationError("user_id", requiredMessage)
	}
	return runInsight(ctx, "user_addresses", func(ctx context.Context) (shared.Page[*shop.Address], error) {
		return s.insights.UserAddresses(ctx, userID, w)
	}, toAddressDTO)
}
