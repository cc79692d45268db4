package models

// Response is the envelope every API endpoint answers with.
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Token      string      `json:"token,omitempty"`
	User       interface{} `json:"user,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
}

// NewPagination computes the page count for a total row count and page size.
// Pages is ceil(total/limit); a page past the end still reports the same
// page count alongside an empty data array.
func NewPagination(total int64, page, limit int) *Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return &Pagination{
		Total:       total,
		Pages:       pages,
		CurrentPage: page,
		Limit:       limit,
	}
}
