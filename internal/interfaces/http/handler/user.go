package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appaccount "github.com/painless/shop/internal/application/account"
	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/domain/shared"
	"github.com/painless/shop/internal/interfaces/http/dto"
)

// userDetailPath is the route of the public user endpoint
const userDetailPath = "/api/v1/account/users/"

// UserService reads and manages user accounts and profiles
type UserService interface {
	Get(ctx context.Context, requesterID uuid.UUID, phoneNumber string) (*account.User, error)
	List(ctx context.Context, filter account.UserFilter) (shared.Page[appaccount.UserDTO], error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*account.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update account.ProfileUpdate) (*account.Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*account.User, error)
}

// UserHandler handles user and profile endpoints
type UserHandler struct {
	BaseHandler
	users UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

func userDetailURL(c *gin.Context, phoneNumber string) string {
	return absoluteURL(c, userDetailPath+phoneNumber+"/")
}

// GetUser godoc
// @ID           getUser
// @Summary      Get a user by phone number
// @Description  Users can only read their own account
// @Tags         users
// @Produce      json
// @Param        phone_number path string true "Phone number" example(09121234567)
// @Success      200 {object} APIResponse[UserDetailResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /account/users/{phone_number}/ [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	var uri UserDetailURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.HandleError(c, shared.ErrNotFound)
		return
	}
	requesterID, err := getUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	user, err := h.users.Get(c.Request.Context(), requesterID, uri.PhoneNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserDetailResponse(user, userDetailURL(c, user.PhoneNumber)))
}

// GetProfile godoc
// @ID           getMyProfile
// @Summary      Get the current user's profile
// @Description  A missing profile is created on first read
// @Tags         users
// @Produce      json
// @Success      200 {object} APIResponse[appaccount.ProfileDTO]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /account/me/profile/ [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	profile, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, appaccount.ToProfileDTO(profile))
}

// UpdateProfile godoc
// @ID           updateMyProfile
// @Summary      Update the current user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      200 {object} APIResponse[appaccount.ProfileDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /account/me/profile/ [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	update, err := req.ToUpdate()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	profile, err := h.users.UpdateProfile(c.Request.Context(), userID, update)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, appaccount.ToProfileDTO(profile))
}

// ListUsers godoc
// @ID           listUsers
// @Summary      List users
// @Description  Staff only. Search covers phone number, first name and last name.
// @Tags         admin
// @Produce      json
// @Param        search query string false "Search term"
// @Param        is_active query bool false "Active flag"
// @Param        is_staff query bool false "Staff flag"
// @Param        is_superuser query bool false "Superuser flag"
// @Param        last_login_after query string false "YYYY-MM-DD"
// @Param        last_login_before query string false "YYYY-MM-DD"
// @Param        date_joined_after query string false "YYYY-MM-DD"
// @Param        date_joined_before query string false "YYYY-MM-DD"
// @Param        ordering query string false "Sort field, prefix with - for descending" example(-date_joined)
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} PageResponse[appaccount.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /account/admin/users/ [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var query UserListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	filter := query.ToFilter()
	filter.Window = h.listWindow(query.ListRequest)
	page, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(c, page)
}

// SetActive godoc
// @ID           setUserActive
// @Summary      Activate or deactivate a user
// @Description  Staff only. Deactivation invalidates the user's issued tokens.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Param        request body SetActiveRequest true "Active flag"
// @Success      200 {object} APIResponse[appaccount.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /account/admin/users/{id}/active [patch]
func (h *UserHandler) SetActive(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.users.SetActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, appaccount.ToUserDTO(user))
}

// DeleteUser godoc
// @ID           deleteUser
// @Summary      Delete a user
// @Description  Staff only. Users that still have a profile are protected.
// @Tags         admin
// @Param        id path string true "User ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /account/admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *UserHandler) bindID(c *gin.Context) (uuid.UUID, bool) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.HandleError(c, shared.ErrNotFound)
		return uuid.Nil, false
	}
	return uuid.MustParse(uri.ID), true
}
