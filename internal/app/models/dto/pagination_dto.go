package dto

// PaginationInfo represents pagination metadata
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	HasPrevious bool  `json:"hasPrevious"`
	HasNext     bool  `json:"hasNext"`
}

// PreviousPage is the page before the current one
func (p PaginationInfo) PreviousPage() int {
	return p.CurrentPage - 1
}

// NextPage is the page after the current one
func (p PaginationInfo) NextPage() int {
	return p.CurrentPage + 1
}
