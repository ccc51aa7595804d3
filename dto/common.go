package dto

import "discounts/response"

// PaginatedResponse is the generic paged payload
type PaginatedResponse[T any] struct {
	Data       T                   `json:"data"`
	Pagination response.Pagination `json:"pagination"`
}

// CategoryRef is the short form of a category
type CategoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
