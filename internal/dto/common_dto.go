package dto

import "math"

// ErrorResponse is the envelope every failed request is answered with.
type ErrorResponse struct {
	Status  string `json:"status" example:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type MessageResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message"`
}

// MaxPage bounds the page parameter so the row offset stays far from overflow.
const MaxPage = 1_000_000

// PageQuery binds the page and per_page query parameters.
type PageQuery struct {
	Page    int `form:"page,default=1" binding:"min=1,max=1000000"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.PerPage
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
	TotalExams int64 `json:"total_exams"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

func NewPagination(q PageQuery, total int64) Pagination {
	pages := 0
	if q.PerPage > 0 {
		pages = int(math.Ceil(float64(total) / float64(q.PerPage)))
	}
	return Pagination{
		Page:       q.Page,
		PerPage:    q.PerPage,
		TotalPages: pages,
		TotalExams: total,
		HasNext:    q.Page < pages,
		HasPrev:    q.Page > 1,
	}
}
