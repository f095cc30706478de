package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appaccount "github.com/painless/shop/internal/application/account"
	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/domain/shared"
	"github.com/painless/shop/internal/infrastructure/auth"
	"github.com/painless/shop/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// MockTokenIssuer is a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) ObtainToken(ctx context.Context, input appaccount.LoginInput) (*auth.TokenPair, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.TokenPair), args.Error(1)
}

func (m *MockTokenIssuer) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.TokenPair), args.Error(1)
}

func (m *MockTokenIssuer) Verify(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockTokenIssuer) Logout(ctx context.Context, accessToken, refreshToken string) error {
	return m.Called(ctx, accessToken, refreshToken).Error(0)
}

// MockRegistrar is a mock implementation of Registrar
type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) Register(ctx context.Context, input appaccount.RegisterInput) (*account.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Get(ctx context.Context, requesterID uuid.UUID, phoneNumber string) (*account.User, error) {
	args := m.Called(ctx, requesterID, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, filter account.UserFilter) (shared.Page[appaccount.UserDTO], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Page[appaccount.UserDTO]), args.Error(1)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID uuid.UUID) (*account.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Profile), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, update account.ProfileUpdate) (*account.Profile, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Profile), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*account.User, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

// MockInsightService is a mock implementation of InsightService
type MockInsightService struct {
	mock.Mock
}

func userPage(args mock.Arguments) (shared.Page[appaccount.UserDTO], error) {
	return args.Get(0).(shared.Page[appaccount.UserDTO]), args.Error(1)
}

func countPage(args mock.Arguments) (shared.Page[appaccount.UserCountDTO], error) {
	return args.Get(0).(shared.Page[appaccount.UserCountDTO]), args.Error(1)
}

func amountPage(args mock.Arguments) (shared.Page[appaccount.UserAmountDTO], error) {
	return args.Get(0).(shared.Page[appaccount.UserAmountDTO]), args.Error(1)
}

func (m *MockInsightService) NormalUsers(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserDTO], error) {
	return userPage(m.Called(ctx, w))
}

func (m *MockInsightService) UsersByActive(ctx context.Context, isActive bool, w shared.Window) (shared.Page[appaccount.UserDTO], error) {
	return userPage(m.Called(ctx, isActive, w))
}

func (m *MockInsightService) MostPurchases(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserCountDTO], error) {
	return countPage(m.Called(ctx, w))
}

func (m *MockInsightService) SoldTheMost(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserAmountDTO], error) {
	return amountPage(m.Called(ctx, w))
}

func (m *MockInsightService) BenefitedTheMost(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserAmountDTO], error) {
	return amountPage(m.Called(ctx, w))
}

func (m *MockInsightService) BoughtFromBrand(ctx context.Context, brand string, w shared.Window) (shared.Page[appaccount.UserDTO], error) {
	return userPage(m.Called(ctx, brand, w))
}

func (m *MockInsightService) DiscountedPurchases(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserDTO], error) {
	return userPage(m.Called(ctx, w))
}

func (m *MockInsightService) WithoutPurchase(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserDTO], error) {
	return userPage(m.Called(ctx, w))
}

func (m *MockInsightService) RequestedRefund(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserDTO], error) {
	return userPage(m.Called(ctx, w))
}

func (m *MockInsightService) RefundRequestCounts(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserCountDTO], error) {
	return countPage(m.Called(ctx, w))
}

func (m *MockInsightService) PurchasedColor(ctx context.Context, color string, w shared.Window) (shared.Page[appaccount.UserDTO], error) {
	return userPage(m.Called(ctx, color, w))
}

func (m *MockInsightService) DeliveredOrCancelledCounts(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserCountDTO], error) {
	return countPage(m.Called(ctx, w))
}

func (m *MockInsightService) ByOrderStatus(ctx context.Context, status string, w shared.Window) (shared.Page[appaccount.UserDTO], error) {
	return userPage(m.Called(ctx, status, w))
}

func (m *MockInsightService) OrdersPerUser(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserOrdersDTO], error) {
	args := m.Called(ctx, w)
	return args.Get(0).(shared.Page[appaccount.UserOrdersDTO]), args.Error(1)
}

func (m *MockInsightService) PostalAddresses(ctx context.Context, w shared.Window) (shared.Page[appaccount.PostalAddressDTO], error) {
	args := m.Called(ctx, w)
	return args.Get(0).(shared.Page[appaccount.PostalAddressDTO]), args.Error(1)
}

func (m *MockInsightService) UsersInfo(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserInfoDTO], error) {
	args := m.Called(ctx, w)
	return args.Get(0).(shared.Page[appaccount.UserInfoDTO]), args.Error(1)
}

func (m *MockInsightService) VoucherConsumption(ctx context.Context, limit *int) ([]appaccount.UserCountDTO, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appaccount.UserCountDTO), args.Error(1)
}

func (m *MockInsightService) IncomePerAccount(ctx context.Context, w shared.Window) (shared.Page[appaccount.UserAmountDTO], error) {
	return amountPage(m.Called(ctx, w))
}

func (m *MockInsightService) UserAddresses(ctx context.Context, userID uuid.UUID, w shared.Window) (shared.Page[appaccount.AddressDTO], error) {
	args := m.Called(ctx, userID, w)
	return args.Get(0).(shared.Page[appaccount.AddressDTO]), args.Error(1)
}

// asUser marks the request as authenticated the way the JWT middleware does
func asUser(id uuid.UUID, staff bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, id.String())
		c.Set(middleware.JWTIsStaffKey, staff)
		c.Next()
	}
}

func performJSON(t *testing.T, r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func newTestUser(t *testing.T, phone string) *account.User {
	t.Helper()
	user, err := account.NewUser(phone, "")
	require.NoError(t, err)
	user.ClearDomainEvents()
	return user
}
