package web

import (
	"net/http"
	"strconv"
)

// PageQuery carries the pagination and filter parameters of the audit
// trail listing. Ordering is always by creation time; only the direction
// is selectable.
type PageQuery struct {
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
	SortOrder string `json:"sort_order"`
	Keyword   string `json:"keyword"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func ParsePageQuery(r *http.Request) PageQuery {
	q := PageQuery{
		Page:      1,
		PageSize:  20,
		SortOrder: "desc",
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			q.Page = p
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p <= 100 {
			q.PageSize = p
		}
	}
	if v := r.URL.Query().Get("sort_order"); v == "asc" || v == "desc" {
		q.SortOrder = v
	}
	q.Keyword = r.URL.Query().Get("keyword")
	q.StartTime = r.URL.Query().Get("start_time")
	q.EndTime = r.URL.Query().Get("end_time")
	return q
}

func (q *PageQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}
