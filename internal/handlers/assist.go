package handlers

import (
	"encoding/json"
	"net/http"

	"cammanager/internal/assist"
	"cammanager/internal/database"
	"cammanager/internal/inventory"
	"cammanager/internal/web"
)

type AssistHandler struct {
	svc      *inventory.Service
	client   *assist.Client
	userRepo *database.UserRepo
}

func NewAssistHandler(svc *inventory.Service, client *assist.Client) *AssistHandler {
	return &AssistHandler{svc: svc, client: client, userRepo: database.NewUserRepo()}
}

// Query answers a free-text question about the caller's visible fleet.
// The assistant only ever sees devices the caller is allowed to see.
func (h *AssistHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.FailErr(w, r, web.ErrInvalidBody)
		return
	}
	if req.Query == "" {
		web.FailErr(w, r, web.ErrInvalidParam)
		return
	}

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

	answer := h.client.Analyze(r.Context(), req.Query, cams, recs)
	web.OK(w, r, map[string]string{"answer": answer})
}
