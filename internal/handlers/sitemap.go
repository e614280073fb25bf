package handlers

import (
	"encoding/json"
	"net/http"

	"cammanager/internal/inventory"
	"cammanager/internal/web"
)

type SiteMapHandler struct {
	svc *inventory.Service
}

func NewSiteMapHandler(svc *inventory.Service) *SiteMapHandler {
	return &SiteMapHandler{svc: svc}
}

func (h *SiteMapHandler) List(w http.ResponseWriter, r *http.Request) {
	maps, err := h.svc.ListMaps()
	if err != nil {
		web.FailErr(w, r, web.ErrDBQuery)
		return
	}
	web.OK(w, r, maps)
}

func (h *SiteMapHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Image string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.FailErr(w, r, web.ErrInvalidBody)
		return
	}
	m, err := h.svc.CreateMap(req.Name, req.Image, web.GetUsername(r))
	if err != nil {
		failInventory(w, r, err)
		return
	}
	web.OK(w, r, m)
}

func (h *SiteMapHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		web.FailErr(w, r, web.ErrInvalidParam)
		return
	}
	if err := h.svc.DeleteMap(id, web.GetUsername(r)); err != nil {
		web.FailErr(w, r, web.ErrMapWriteFail)
		return
	}
	web.OK(w, r, map[string]string{"message": "ok"})
}

func (h *SiteMapHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID    string `json:"id"`
		Image string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.FailErr(w, r, web.ErrInvalidBody)
		return
	}
	if err := h.svc.UpdateMapImage(req.ID, req.Image, web.GetUsername(r)); err != nil {
		failInventory(w, r, err)
		return
	}
	web.OK(w, r, map[string]string{"message": "ok"})
}

// Positions returns the camera placements on one map.
func (h *SiteMapHandler) Positions(w http.ResponseWriter, r *http.Request) {
	mapID := r.URL.Query().Get("map_id")
	if mapID == "" {
		web.FailErr(w, r, web.ErrInvalidParam)
		return
	}
	positions, err := h.svc.MapPositions(mapID)
	if err != nil {
		web.FailErr(w, r, web.ErrDBQuery)
		return
	}
	web.OK(w, r, positions)
}

func (h *SiteMapHandler) SetPosition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CameraID string  `json:"cameraId"`
		MapID    string  `json:"mapId"`
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.FailErr(w, r, web.ErrInvalidBody)
		return
	}
	if req.CameraID == "" || req.MapID == "" {
		web.FailErr(w, r, web.ErrInvalidParam)
		return
	}
	if err := h.svc.SetPosition(req.CameraID, req.MapID, req.X, req.Y); err != nil {
		failInventory(w, r, err)
		return
	}
	web.OK(w, r, map[string]string{"message": "ok"})
}

func (h *SiteMapHandler) ClearPosition(w http.ResponseWriter, r *http.Request) {
	cameraID := r.URL.Query().Get("camera_id")
	if cameraID == "" {
		web.FailErr(w, r, web.ErrInvalidParam)
		return
	}
	if err := h.svc.ClearPosition(cameraID); err != nil {
		web.FailErr(w, r, web.ErrMapWriteFail)
		return
	}
	web.OK(w, r, map[string]string{"message": "ok"})
}
