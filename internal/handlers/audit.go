package handlers

import (
	"net/http"

	"cammanager/internal/database"
	"cammanager/internal/web"
)

type AuditHandler struct {
	auditRepo *database.AuditLogRepo
}

func NewAuditHandler() *AuditHandler {
	return &AuditHandler{auditRepo: database.NewAuditLogRepo()}
}

// List returns the audit trail, newest first, filterable by action,
// target type, username, time range and a keyword matched against the
// target name and details.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	pq := web.ParsePageQuery(r)
	filter := database.AuditFilter{
		Page:       pq.Page,
		PageSize:   pq.PageSize,
		SortOrder:  pq.SortOrder,
		Action:     r.URL.Query().Get("action"),
		TargetType: r.URL.Query().Get("target_type"),
		Username:   r.URL.Query().Get("username"),
		Keyword:    pq.Keyword,
		StartTime:  pq.StartTime,
		EndTime:    pq.EndTime,
	}
	logs, total, err := h.auditRepo.List(filter)
	if err != nil {
		web.FailErr(w, r, web.ErrAuditQueryFail)
		return
	}
	web.OKPage(w, r, logs, total, filter.Page, filter.PageSize)
}
