package dto

import (
	"net/url"
	"strconv"

	"github.com/painless/shop/internal/domain/shared"
)

// ServerErrorDetail is the detail of every 5xx body
const ServerErrorDetail = "Server Error"

// Response wraps successful payloads: {"detail": null, "results": ...}
type Response struct {
	Detail  *string `json:"detail"`
	Results any     `json:"results"`
}

// PaginatedResponse wraps a limit/offset page
type PaginatedResponse struct {
	Detail   *string `json:"detail"`
	Total    int64   `json:"total"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// ErrorResponse is the client error body. Errors is present for field failures only.
type ErrorResponse struct {
	Detail string              `json:"detail"`
	Code   string              `json:"code"`
	Errors []shared.FieldError `json:"errors,omitempty"`
}

// ServerErrorResponse is the body of every 5xx response
type ServerErrorResponse struct {
	Detail string `json:"detail"`
	Data   any    `json:"data"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(results any) Response {
	return Response{Results: results}
}

// NewPaginatedResponse builds the page envelope. base is the absolute request URL;
// next and previous keep its query and replace limit and offset.
func NewPaginatedResponse[T any](page shared.Page[T], base *url.URL) PaginatedResponse {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	resp := PaginatedResponse{Total: page.Total, Results: items}
	if page.Limit <= 0 || base == nil {
		return resp
	}
	if page.HasNext() {
		resp.Next = pageLink(base, page.Limit, page.Offset+page.Limit)
	}
	if page.HasPrevious() {
		resp.Previous = pageLink(base, page.Limit, max(page.Offset-page.Limit, 0))
	}
	return resp
}

func pageLink(base *url.URL, limit, offset int) *string {
	u := *base
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	} else {
		q.Del("offset")
	}
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

// NewErrorResponse creates a client error body
func NewErrorResponse(code, detail string) ErrorResponse {
	return ErrorResponse{Detail: detail, Code: code}
}

// NewServerErrorResponse creates the server error body
func NewServerErrorResponse(detail string) ServerErrorResponse {
	if detail == "" {
		detail = ServerErrorDetail
	}
	return ServerErrorResponse{Detail: detail}
}

// ListRequest is the limit/offset query shared by list endpoints
type ListRequest struct {
	Limit  int `form:"limit" binding:"omitempty,min=0"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Window converts the request to a repository window. A zero limit takes defaultLimit.
func (r ListRequest) Window(defaultLimit, maxLimit int) shared.Window {
	limit := r.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	return shared.NewWindow(limit, r.Offset, maxLimit)
}

// IDRequest represents a request with an ID path parameter
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}
