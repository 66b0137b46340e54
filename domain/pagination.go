package domain

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

type PageRequest struct {
	Page     int `query:"page"`
	PageSize int `query:"pageSize"`
}

// Normalize applies the defaults for absent or nonsense values.
func (p PageRequest) Normalize() PageRequest {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is the envelope every list endpoint returns.
type Page struct {
	Items      interface{} `json:"items"`
	TotalItems int64       `json:"totalItems"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

func NewPage(items interface{}, total int64, req PageRequest) Page {
	totalPages := int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	return Page{
		Items:      items,
		TotalItems: total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}
}
