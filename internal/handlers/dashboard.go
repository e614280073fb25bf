package handlers

import (
	"net/http"

	"cammanager/internal/database"
	"cammanager/internal/inventory"
	"cammanager/internal/web"
)

type DashboardHandler struct {
	svc       *inventory.Service
	userRepo  *database.UserRepo
	auditRepo *database.AuditLogRepo
}

func NewDashboardHandler(svc *inventory.Service) *DashboardHandler {
	return &DashboardHandler{
		svc:       svc,
		userRepo:  database.NewUserRepo(),
		auditRepo: database.NewAuditLogRepo(),
	}
}

type dashboardStats struct {
	TotalCameras   int                 `json:"total_cameras"`
	TotalRecorders int                 `json:"total_recorders"`
	ByStatus       map[string]int      `json:"by_status"`
	ByLocation     map[string]int      `json:"by_location"`
	ByType         map[string]int      `json:"by_type"`
	RecentActivity []database.AuditLog `json:"recent_activity"`
}

// Stats aggregates the caller's visible fleet for the dashboard cards.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	scope := requestScope(r, h.userRepo)

	cams, err := h.svc.ListCameras(scope)
	if err != nil {
		web.FailErr(w, r, web.ErrDBQuery)
		return
	}
	recs, err := h.svc.ListRecorders(scope)
	if err != nil {
		web.FailErr(w, r, web.ErrDBQuery)
		return
	}
	recent, err := h.auditRepo.Recent(10)
	if err != nil {
		web.FailErr(w, r, web.ErrDBQuery)
		return
	}

	stats := dashboardStats{
		TotalCameras:   len(cams),
		TotalRecorders: len(recs),
		ByStatus:       make(map[string]int),
		ByLocation:     make(map[string]int),
		ByType:         make(map[string]int),
		RecentActivity: recent,
	}
	for _, c := range cams {
		stats.ByStatus[c.Status]++
		stats.ByLocation[c.Location]++
		stats.ByType[c.Type]++
	}
	web.OK(w, r, stats)
}
