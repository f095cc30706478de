package handler

import (
	"strings"
	"time"

	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/domain/shared"
	"github.com/painless/shop/internal/interfaces/http/dto"
)

// UserDetailURI is the path parameter of the public user endpoint
type UserDetailURI struct {
	PhoneNumber string `uri:"phone_number" binding:"required,iran_phone"`
}

// UpdateProfileRequest carries the editable profile fields. Omitted fields are left unchanged.
type UpdateProfileRequest struct {
	Gender       *string `json:"gender" binding:"omitempty" enums:"male,female" example:"female"`
	Nickname     *string `json:"nickname" example:"sara"`
	Job          *string `json:"job" example:"designer"`
	BirthDate    *string `json:"birth_date" binding:"omitempty,datetime=2006-01-02" example:"1990-05-17"`
	NationalCode *string `json:"national_code" binding:"omitempty,numeric" example:"0012345678"`
	IsComplete   *bool   `json:"is_complete"`
}

// ToUpdate converts the request to a domain update
func (r UpdateProfileRequest) ToUpdate() (account.ProfileUpdate, error) {
	update := account.ProfileUpdate{
		Gender:       r.Gender,
		Nickname:     r.Nickname,
		Job:          r.Job,
		NationalCode: r.NationalCode,
		IsComplete:   r.IsComplete,
	}
	if r.BirthDate != nil && *r.BirthDate != "" {
		d, err := time.Parse(time.DateOnly, *r.BirthDate)
		if err != nil {
			return update, shared.NewValidationError("birth_date",
				"Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
		}
		update.BirthDate = &d
	}
	return update, nil
}

// UserListQuery is the admin user listing query.
// Ordering names a sort field, prefixed with "-" for descending order.
type UserListQuery struct {
	dto.ListRequest
	Search          string `form:"search" binding:"omitempty,max=100"`
	IsActive        *bool  `form:"is_active"`
	IsStaff         *bool  `form:"is_staff"`
	IsSuperuser     *bool  `form:"is_superuser"`
	LastLoginAfter  string `form:"last_login_after" binding:"omitempty,datetime=2006-01-02"`
	LastLoginBefore string `form:"last_login_before" binding:"omitempty,datetime=2006-01-02"`
	JoinedAfter     string `form:"date_joined_after" binding:"omitempty,datetime=2006-01-02"`
	JoinedBefore    string `form:"date_joined_before" binding:"omitempty,datetime=2006-01-02"`
	Ordering        string `form:"ordering" binding:"omitempty,max=32"`
}

// endOfDay is the last instant of a day at the microsecond resolution of a timestamptz column
const endOfDay = 24*time.Hour - time.Microsecond

// ToFilter converts the query to a repository filter.
// Before bounds cover the whole named day and stop short of the next midnight.
func (q UserListQuery) ToFilter() account.UserFilter {
	filter := account.NewUserFilter()
	filter.Search = strings.TrimSpace(q.Search)
	filter.IsActive = q.IsActive
	filter.IsStaff = q.IsStaff
	filter.IsSuperuser = q.IsSuperuser
	filter.LastLoginFrom = parseDay(q.LastLoginAfter, 0)
	filter.LastLoginTo = parseDay(q.LastLoginBefore, endOfDay)
	filter.DateJoinedFrom = parseDay(q.JoinedAfter, 0)
	filter.DateJoinedTo = parseDay(q.JoinedBefore, endOfDay)
	if ordering := strings.TrimSpace(q.Ordering); ordering != "" {
		filter.SortOrder = "asc"
		if strings.HasPrefix(ordering, "-") {
			filter.SortOrder = "desc"
			ordering = ordering[1:]
		}
		filter.SortBy = ordering
	}
	filter.Window = q.Window(shared.DefaultLimit, MaxPageSize)
	return filter
}

func parseDay(value string, offset time.Duration) *time.Time {
	if value == "" {
		return nil
	}
	d, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil
	}
	d = d.Add(offset)
	return &d
}

// SetActiveRequest toggles a user's active flag
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
