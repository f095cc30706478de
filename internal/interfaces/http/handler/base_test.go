package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appaccount "github.com/painless/shop/internal/application/account"
	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/domain/shared"
	"github.com/painless/shop/internal/infrastructure/config"
	"github.com/painless/shop/internal/infrastructure/i18n"
	"github.com/painless/shop/internal/interfaces/http/dto"
	"github.com/painless/shop/internal/interfaces/http/middleware"
)

func errorRouter(err error) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Language(i18n.New(config.I18nConfig{DefaultLanguage: "en", Languages: []string{"en", "fa"}})))
	h := &BaseHandler{}
	r.GET("/fail", func(c *gin.Context) { h.HandleError(c, err) })
	return r
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantDetail string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound, "Not found."},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, dto.ErrCodeForbidden,
			"You do not have permission to perform this action."},
		{"wrapped credentials", fmt.Errorf("login: %w", appaccount.ErrInvalidCredentials),
			http.StatusUnauthorized, dto.ErrCodeInvalidCredentials, appaccount.ErrInvalidCredentials.Message},
		{"protected user", account.ErrUserProtected, http.StatusConflict, dto.ErrCodeUserProtected,
			account.ErrUserProtected.Message},
		{"aliased code", shared.NewDomainError("USER_NOT_FOUND", "missing"), http.StatusNotFound,
			dto.ErrCodeNotFound, "missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(t, errorRouter(tt.err), http.MethodGet, "/fail", nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Equal(t, tt.wantDetail, body["detail"])
			assert.NotContains(t, body, "errors")
		})
	}
}

func TestBaseHandler_HandleError_Validation(t *testing.T) {
	verr := shared.NewValidationError("email", "Enter a valid email address.")
	verr.Add("password", "This password is too short.")

	w := performJSON(t, errorRouter(verr), http.MethodGet, "/fail", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, dto.ErrCodeValidation, body["code"])
	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 2)
	assert.Equal(t, map[string]any{"field": "email", "message": "Enter a valid email address."}, errs[0])
}

func TestBaseHandler_HandleError_Throttled(t *testing.T) {
	err := shared.NewThrottledError(dto.ErrCodeIPBlocked, 90*time.Second)

	w := performJSON(t, errorRouter(err), http.MethodGet, "/fail", nil)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "90", w.Header().Get("Retry-After"))
	assert.Equal(t, "Bad Request. Expected available in 90 seconds.", decodeBody(t, w)["detail"])
}

func TestBaseHandler_HandleError_Unknown(t *testing.T) {
	w := performJSON(t, errorRouter(errors.New("connection reset")), http.MethodGet, "/fail", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Server Error","data":null}`, w.Body.String())
}

func TestBaseHandler_HandleError_Localized(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	req.Header.Set("Accept-Language", "fa-IR")
	w := httptest.NewRecorder()

	errorRouter(shared.ErrNotFound).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "یافت نشد.", decodeBody(t, w)["detail"])
}

func TestPaginated_AbsoluteLinks(t *testing.T) {
	r := gin.New()
	r.GET("/items/", func(c *gin.Context) {
		Paginated(c, shared.NewPage([]string{"a", "b"}, 6, shared.NewWindow(2, 2, 10)))
	})

	req := httptest.NewRequest(http.MethodGet, "/items/?limit=2&offset=2", nil)
	req.Host = "shop.test"
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Nil(t, body["detail"])
	assert.Equal(t, float64(6), body["total"])
	assert.Equal(t, "https://shop.test/items/?limit=2&offset=4", body["next"])
	assert.Equal(t, "https://shop.test/items/?limit=2", body["previous"])
	assert.Equal(t, []any{"a", "b"}, body["results"])
}

func TestGetUserID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	_, err := getUserID(c)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	id := uuid.New()
	c.Set(middleware.JWTUserIDKey, id.String())
	got, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestBaseHandler_PageLimits(t *testing.T) {
	h := &BaseHandler{}
	assert.Equal(t, shared.Window{Limit: shared.DefaultLimit}, h.listWindow(dto.ListRequest{}))
	assert.Equal(t, MaxPageSize, h.listWindow(dto.ListRequest{Limit: 5000}).Limit)

	h.SetPageLimits(25, 1000)
	assert.Equal(t, 25, h.listWindow(dto.ListRequest{}).Limit)
	assert.Equal(t, 1000, h.listWindow(dto.ListRequest{Limit: 5000}).Limit)
	assert.Equal(t, shared.Window{Limit: 10, Offset: 30}, h.listWindow(dto.ListRequest{Limit: 10, Offset: 30}))
}
