package handler

import "github.com/painless/shop/internal/interfaces/http/dto"

// APIResponse represents a success envelope for OpenAPI documentation
// @Description Standard response wrapper with typed results
type APIResponse[T any] struct {
	Detail  *string `json:"detail" swaggertype:"string" extensions:"x-nullable"`
	Results T       `json:"results"`
}

// PageResponse represents a paginated envelope for OpenAPI documentation
// @Description Limit/offset page with absolute next and previous links
type PageResponse[T any] struct {
	Detail   *string `json:"detail" swaggertype:"string" extensions:"x-nullable"`
	Total    int64   `json:"total" example:"120"`
	Next     *string `json:"next" example:"https://shop.example.com/api/v1/account/admin/users/?limit=100&offset=100"`
	Previous *string `json:"previous" extensions:"x-nullable"`
	Results  []T     `json:"results"`
}

// ErrorResponse documents client error bodies
// @Description Client error with an optional list of field errors
type ErrorResponse = dto.ErrorResponse

// ServerErrorResponse documents 5xx bodies
// @Description Generic server error
type ServerErrorResponse = dto.ServerErrorResponse

// EmptyResult is the results object of endpoints that return no data
type EmptyResult struct{}
