package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appaccount "github.com/painless/shop/internal/application/account"
	"github.com/painless/shop/internal/domain/shared"
	"github.com/painless/shop/internal/interfaces/http/dto"
)

// InsightService runs the staff analytics queries
type InsightService interface {
	NormalUsers(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserDTO], error)
	UsersByActive(ctx context.Context, isActive bool, w shared.Window) (shared.Page[appaccount.UserDTO], error)
	MostPurchases(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserCountDTO], error)
	SoldTheMost(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserAmountDTO], error)
	BenefitedTheMost(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserAmountDTO], error)
	BoughtFromBrand(ctx context.Context, brand string, w shared.Window) (shared.Page[appaccount.UserDTO], error)
	DiscountedPurchases(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserDTO], error)
	WithoutPurchase(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserDTO], error)
	RequestedRefund(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserDTO], error)
	RefundRequestCounts(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserCountDTO], error)
	PurchasedColor(ctx context.Context, color string, w shared.Window) (shared.Page[appaccount.UserDTO], error)
	DeliveredOrCancelledCounts(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserCountDTO], error)
	ByOrderStatus(ctx context.Context, status string, w shared.Window) (shared.Page[appaccount.UserDTO], error)
	OrdersPerUser(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserOrdersDTO], error)
	PostalAddresses(ctx context.Context, w shared.Window) (shared.Page[appaccount.PostalAddressDTO], error)
	UsersInfo(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserInfoDTO], error)
	VoucherConsumption(ctx context.Context, limit *int) ([]appaccount.UserCountDTO, error)
	IncomePerAccount(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserAmountDTO], error)
	UserAddresses(ctx context.Context, userID uuid.UUID, w shared.Window) (shared.Page[appaccount.AddressDTO], error)
}

// InsightHandler exposes one staff-only route per analytics query
type InsightHandler struct {
	BaseHandler
	insights InsightService
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(insights InsightService) *InsightHandler {
	return &InsightHandler{insights: insights}
}

// TitleQuery filters by a brand or color title
type TitleQuery struct {
	dto.ListRequest
	Title string `form:"title" binding:"omitempty,max=255"`
}

// StatusQuery filters by order status
type StatusQuery struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,max=32"`
}

// ActiveQuery filters by the active flag
type ActiveQuery struct {
	dto.ListRequest
	IsActive *bool `form:"is_active" binding:"required"`
}

// UserAddressQuery selects the user whose addresses are listed
type UserAddressQuery struct {
	dto.ListRequest
	UserID string `form:"user_id" binding:"omitempty,uuid"`
}

// VoucherQuery optionally caps the voucher ranking
type VoucherQuery struct {
	Limit *int `form:"limit"`
}

// Routes maps each route name under the insights group to its handler
func (h *InsightHandler) Routes() map[string]gin.HandlerFunc {
	return map[string]gin.HandlerFunc{
		"normal-users":                  h.NormalUsers,
		"users-by-active":               h.UsersByActive,
		"most-purchases":                h.MostPurchases,
		"sold-the-most":                 h.SoldTheMost,
		"benefited-the-most":            h.BenefitedTheMost,
		"bought-from-brand":             h.BoughtFromBrand,
		"discounted-purchases":          h.DiscountedPurchases,
		"without-purchase":              h.WithoutPurchase,
		"requested-refund":              h.RequestedRefund,
		"refund-request-counts":         h.RefundRequestCounts,
		"purchased-color":               h.PurchasedColor,
		"delivered-or-cancelled-counts": h.DeliveredOrCancelledCounts,
		"by-order-status":               h.ByOrderStatus,
		"orders-per-user":               h.OrdersPerUser,
		"postal-addresses":              h.PostalAddresses,
		"users-info":                    h.UsersInfo,
		"voucher-consumption":           h.VoucherConsumption,
		"income-per-account":            h.IncomePerAccount,
		"user-addresses":                h.UserAddresses,
	}
}

// servePage binds the query into q, runs fetch with the resulting window and writes the page
func servePage[Q any, T any](h *InsightHandler, c *gin.Context, q *Q, window func(*Q) shared.Window,
	fetch func(ctx context.Context, w shared.Window) (shared.Page[T], error)) {
	if err := c.ShouldBindQuery(q); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := fetch(c.Request.Context(), window(q))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

func simplePage[T any](h *InsightHandler, c *gin.Context, fetch func(ctx context.Context, w shared.Window) (shared.Page[T], error)) {
	servePage(h, c, &dto.ListRequest{}, func(q *dto.ListRequest) shared.Window { return h.listWindow(*q) }, fetch)
}

// NormalUsers godoc
// @ID           insightNormalUsers
// @Summary      Active users without staff or superuser rights
// @Tags         insights
// @Produce      json
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} PageResponse[appaccount.UserDTO]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /account/admin/insights/normal-users [get]
func (h *InsightHandler) NormalUsers(c *gin.Context) {
	simplePage(h, c, h.insights.NormalUsers)
}

// UsersByActive godoc
// @ID           insightUsersByActive
// @Summary      Users filtered by the active flag
// @Tags         insights
// @Produce      json
// @Param        is_active query bool true "Active flag"
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} PageResponse[appaccount.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /account/admin/insights/users-by-active [get]
func (h *InsightHandler) UsersByActive(c *gin.Context) {
	var q ActiveQuery
	servePage(h, c, &q, func(q *ActiveQuery) shared.Window { return h.listWindow(q.ListRequest) },
		func(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserDTO], error) {
			return h.insights.UsersByActive(ctx, *q.IsActive, w)
		})
}

// MostPurchases godoc
// @ID           insightMostPurchases
// @Summary      Users ranked by purchased quantity
// @Tags         insights
// @Produce      json
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} PageResponse[appaccount.UserCountDTO]
// @Security     BearerAuth
// @Router       /account/admin/insights/most-purchases [get]
func (h *InsightHandler) MostPurchases(c *gin.Context) {
	simplePage(h, c, h.insights.MostPurchases)
}

// SoldTheMost godoc
// @ID           insightSoldTheMost
// @Summary      Users ranked by amount spent
// @Tags         insights
// @Produce      json
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} PageResponse[appaccount.UserAmountDTO]
// @Security     BearerAuth
// @Router       /account/admin/insights/sold-the-most [get]
func (h *InsightHandler) SoldTheMost(c *gin.Context) {
	simplePage(h, c, h.insights.SoldTheMost)
}

// BenefitedTheMost godoc
// @ID           insightBenefitedTheMost
// @Summary      Users ranked by profit earned from their purchases
// @Tags         insights
// @Produce      json
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} PageResponse[appaccount.UserAmountDTO]
// @Security     BearerAuth
// @Router       /account/admin/insights/benefited-the-most [get]
func (h *InsightHandler) BenefitedTheMost(c *gin.Context) {
	simplePage(h, c, h.insights.BenefitedTheMost)
}

// BoughtFromBrand godoc
// @ID           insightBoughtFromBrand
// @Summary      Users who bought from a brand
// @Tags         insights
// @Produce      json
// @Param        title query string true "Brand title, case-insensitive"
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} PageResponse[appaccount.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /account/admin/insights/bought-from-brand [get]
func (h *InsightHandler) BoughtFromBrand(c *gin.Context) {
	var q TitleQuery
	servePage(h, c, &q, func(q *TitleQuery) shared.Window { return h.listWindow(q.ListRequest) },
		func(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserDTO], error) {
			return h.insights.BoughtFromBrand(ctx, q.Title, w)
		})
}

// DiscountedPurchases godoc
// @ID           insightDiscountedPurchases
// @Summary      Users who bought voucher-enabled products
// @Tags         insights
// @Produce      json
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} PageResponse[appaccount.UserDTO]
// @Security     BearerAuth
// @Router       /account/admin/insights/discounted-purchases [get]
func (h *InsightHandler) DiscountedPurchases(c *gin.Context) {
	simplePage(h, c, h.insights.DiscountedPurchases)
}

// WithoutPurchase godoc
// @ID           insightWithoutPurchase
// @Summary      Users without any order
// @Tags         insights
// @Produce      json
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} PageResponse[appaccount.UserDTO]
// @Security     BearerAuth
// @Router       /account/admin/insights/without-purchase [get]
func (h *InsightHandler) WithoutPurchase(c *gin.Context) {
	simplePage(h, c, h.insights.WithoutPurchase)
}

// RequestedRefund godoc
// @ID           insightRequestedRefund
// @Summary      Users with a refunded order line
// @Tags         insights
// @Produce      json
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} PageResponse[appaccount.UserDTO]
// @Security     BearerAuth
// @Router       /account/admin/insights/requested-refund [get]
func (h *InsightHandler) RequestedRefund(c *gin.Context) {
	simplePage(h, c, h.insights.RequestedRefund)
}

// RefundRequestCounts godoc
// @ID           insightRefundRequestCounts
// @Summary      Refunded order lines per user
// @Tags         insights
// @Produce      json
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} PageResponse[appaccount.UserCountDTO]
// @Security     BearerAuth
// @Router       /account/admin/insights/refund-request-counts [get]
func (h *InsightHandler) RefundRequestCounts(c *gin.Context) {
	simplePage(h, c, h.insights.RefundRequestCounts)
}

// PurchasedColor godoc
// @ID           insightPurchasedColor
// @Summary      Users who bought a pack of a color
// @Tags         insights
// @Produce      json
// @Param        title query string true "Color title, case-insensitive"
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} PageResponse[appaccount.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /account/admin/insights/purchased-color [get]
func (h *InsightHandler) PurchasedColor(c *gin.Context) {
	var q TitleQuery
	servePage(h, c, &q, func(q *TitleQuery) shared.Window { return h.listWindow(q.ListRequest) },
		func(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserDTO], error) {
			return h.insights.PurchasedColor(ctx, q.Title, w)
		})
}

// DeliveredOrCancelledCounts godoc
// @ID           insightDeliveredOrCancelledCounts
// @Summary      Delivered or cancelled orders per user
// @Tags         insights
// @Produce      json
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} PageResponse[appaccount.UserCountDTO]
// @Security     BearerAuth
// @Router       /account/admin/insights/delivered-or-cancelled-counts [get]
func (h *InsightHandler) DeliveredOrCancelledCounts(c *gin.Context) {
	simplePage(h, c, h.insights.DeliveredOrCancelledCounts)
}

// ByOrderStatus godoc
// @ID           insightByOrderStatus
// @Summary      Users with an order in a status
// @Tags         insights
// @Produce      json
// @Param        status query string true "Order status" Enums(waiting, expiring, processing, shipped, delivered, cancelled)
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} PageResponse[appaccount.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /account/admin/insights/by-order-status [get]
func (h *InsightHandler) ByOrderStatus(c *gin.Context) {
	var q StatusQuery
	servePage(h, c, &q, func(q *StatusQuery) shared.Window { return h.listWindow(q.ListRequest) },
		func(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserDTO], error) {
			return h.insights.ByOrderStatus(ctx, q.Status, w)
		})
}

// OrdersPerUser godoc
// @ID           insightOrdersPerUser
// @Summary      Users with their orders, oldest first
// @Tags         insights
// @Produce      json
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} PageResponse[appaccount.UserOrdersDTO]
// @Security     BearerAuth
// @Router       /account/admin/insights/orders-per-user [get]
func (h *InsightHandler) OrdersPerUser(c *gin.Context) {
	simplePage(h, c, h.insights.OrdersPerUser)
}

// PostalAddresses godoc
// @ID           insightPostalAddresses
// @Summary      Postal addresses per user
// @Description  Users without an address appear once with a null address
// @Tags         insights
// @Produce      json
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} PageResponse[appaccount.PostalAddressDTO]
// @Security     BearerAuth
// @Router       /account/admin/insights/postal-addresses [get]
func (h *InsightHandler) PostalAddresses(c *gin.Context) {
	simplePage(h, c, h.insights.PostalAddresses)
}

// UsersInfo godoc
// @ID           insightUsersInfo
// @Summary      Users with profile gender and birth date
// @Tags         insights
// @Produce      json
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} PageResponse[appaccount.UserInfoDTO]
// @Security     BearerAuth
// @Router       /account/admin/insights/users-info [get]
func (h *InsightHandler) UsersInfo(c *gin.Context) {
	simplePage(h, c, h.insights.UsersInfo)
}

// VoucherConsumption godoc
// @ID           insightVoucherConsumption
// @Summary      Users ranked by vouchers used
// @Description  Not paginated. limit caps the number of rows.
// @Tags         insights
// @Produce      json
// @Param        limit query int false "Maximum rows"
// @Success      200 {object} APIResponse[[]appaccount.UserCountDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /account/admin/insights/voucher-consumption [get]
func (h *InsightHandler) VoucherConsumption(c *gin.Context) {
	var q VoucherQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	rows, err := h.insights.VoucherConsumption(c.Request.Context(), q.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rows)
}

// IncomePerAccount godoc
// @ID           insightIncomePerAccount
// @Summary      Potential profit of each user's cart
// @Tags         insights
// @Produce      json
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} PageResponse[appaccount.UserAmountDTO]
// @Security     BearerAuth
// @Router       /account/admin/insights/income-per-account [get]
func (h *InsightHandler) IncomePerAccount(c *gin.Context) {
	simplePage(h, c, h.insights.IncomePerAccount)
}

// UserAddresses godoc
// @ID           insightUserAddresses
// @Summary      Addresses of one user
// @Tags         insights
// @Produce      json
// @Param        user_id query string true "User ID" format(uuid)
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} PageResponse[appaccount.AddressDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /account/admin/insights/user-addresses [get]
func (h *InsightHandler) UserAddresses(c *gin.Context) {
	var q UserAddressQuery
	servePage(h, c, &q, func(q *UserAddressQuery) shared.Window { return h.listWindow(q.ListRequest) },
		func(ctx context.Context, w shared.Window) (shared.Page[appaccount.AddressDTO], error) {
			userID, _ := uuid.Parse(q.UserID)
			return h.insights.UserAddresses(ctx, userID, w)
		})
}
