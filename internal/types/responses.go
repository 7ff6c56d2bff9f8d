package types

// APIResponse is the envelope for single-resource responses.
type APIResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Status  int         `json:"status"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
}

// PageMeta carries pagination metadata for collection responses.
type PageMeta struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// PaginatedResponse is the envelope for collection responses.
type PaginatedResponse struct {
	Data interface{} `json:"data"`
	Meta PageMeta    `json:"meta"`
}

// ErrorResponse is the envelope for error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

// NewPageMeta derives pagination metadata from the executed page. TotalPages
// is computed from the full filtered count, independent of the page actually
// returned.
func NewPageMeta(limit, offset int, totalItems int64) PageMeta {
	if limit <= 0 {
		limit = 1
	}
	totalPages := int((totalItems + int64(limit) - 1) / int64(limit))
	return PageMeta{
		CurrentPage:  offset/limit + 1,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: limit,
	}
}
