package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/painless/shop/internal/domain/shared"
	"github.com/painless/shop/internal/infrastructure/logger"
	"github.com/painless/shop/internal/interfaces/http/dto"
	"github.com/painless/shop/internal/interfaces/http/middleware"
)

// MaxPageSize caps the limit query parameter when no pagination limits are configured
const MaxPageSize = 500

// BaseHandler provides common handler utilities
type BaseHandler struct {
	defaultLimit int
	maxLimit     int
}

// SetPageLimits overrides the default and maximum page size of list endpoints.
// Non-positive values keep the built-in defaults.
func (h *BaseHandler) SetPageLimits(defaultLimit, maxLimit int) {
	h.defaultLimit = defaultLimit
	h.maxLimit = maxLimit
}

func (h *BaseHandler) listWindow(q dto.ListRequest) shared.Window {
	defaultLimit, maxLimit := shared.DefaultLimit, MaxPageSize
	if h.defaultLimit > 0 {
		defaultLimit = h.defaultLimit
	}
	if h.maxLimit > 0 {
		maxLimit = h.maxLimit
	}
	return q.Window(defaultLimit, maxLimit)
}

// getUserID extracts the authenticated user ID from JWT claims
func getUserID(c *gin.Context) (uuid.UUID, error) {
	id, ok := middleware.GetJWTUserUUID(c)
	if !ok {
		return uuid.Nil, shared.ErrUnauthorized
	}
	return id, nil
}

// Success sends a 200 response wrapped in the envelope
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated sends a page with absolute next and previous links
func Paginated[T any](c *gin.Context, page shared.Page[T]) {
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page, requestURL(c)))
}

// BindError reports a request binding failure as a field validation error
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	h.HandleError(c, middleware.BindingError(err))
}

// HandleError converts application errors to HTTP responses.
// Unknown errors are logged and answered with the generic server error body.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var throttled *shared.ThrottledError
	if errors.As(err, &throttled) {
		middleware.AbortThrottled(c, throttled)
		return
	}

	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		resp := dto.NewErrorResponse(dto.ErrCodeValidation, "Invalid input.")
		resp.Errors = verr.Fields
		c.AbortWithStatusJSON(http.StatusBadRequest, resp)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.AbortWithStatusJSON(dto.GetHTTPStatus(code),
			dto.NewErrorResponse(code, middleware.Localize(c, domainErr.Message)))
		return
	}

	logger.L(c.Request.Context()).Error("Unhandled request error",
		zap.Error(err),
		zap.String("path", c.FullPath()),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError,
		dto.NewServerErrorResponse(middleware.Localize(c, dto.ServerErrorDetail)))
}

// absoluteURL resolves path against the scheme and host the client used
func absoluteURL(c *gin.Context, path string) string {
	u := url.URL{Scheme: requestScheme(c), Host: c.Request.Host, Path: path}
	return u.String()
}

func requestURL(c *gin.Context) *url.URL {
	u := *c.Request.URL
	u.Scheme = requestScheme(c)
	u.Host = c.Request.Host
	return &u
}

func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" || proto == "http" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
