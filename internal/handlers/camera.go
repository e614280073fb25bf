package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"cammanager/internal/database"
	"cammanager/internal/inventory"
	"cammanager/internal/web"
)

type CameraHandler struct {
	svc      *inventory.Service
	userRepo *database.UserRepo
}

func NewCameraHandler(svc *inventory.Service) *CameraHandler {
	return &CameraHandler{svc: svc, userRepo: database.NewUserRepo()}
}

type cameraPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IP          string `json:"ip"`
	RecorderID  string `json:"recorderId"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	InstallDate string `json:"installDate"`
	Note        string `json:"note"`
}

func toCameraPayload(c *database.Camera) cameraPayload {
	return cameraPayload{
		ID: c.ID, Name: c.Name, IP: c.IP, RecorderID: c.RecorderID,
		Location: c.Location, Type: c.Type, Status: c.Status,
		InstallDate: c.InstallDate, Note: c.Note,
	}
}

// List returns the cameras visible to the caller.
func (h *CameraHandler) List(w http.ResponseWriter, r *http.Request) {
	cams, err := h.svc.ListCameras(requestScope(r, h.userRepo))
	if err != nil {
		web.FailErr(w, r, web.ErrDBQuery)
		return
	}
	out := make([]cameraPayload, 0, len(cams))
	for i := range cams {
		out = append(out, toCameraPayload(&cams[i]))
	}
	web.OK(w, r, out)
}

func (h *CameraHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req cameraPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.FailErr(w, r, web.ErrInvalidBody)
		return
	}
	if req.Name == "" || req.IP == "" {
		web.FailErr(w, r, web.ErrDeviceValidation, "name and ip are required")
		return
	}

	cam := &database.Camera{
		ID: req.ID, Name: req.Name, IP: req.IP, RecorderID: req.RecorderID,
		Location: req.Location, Type: req.Type, Status: req.Status,
		InstallDate: req.InstallDate, Note: req.Note,
	}
	saved, err := h.svc.SaveCamera(cam, web.GetUsername(r))
	if err != nil {
		if errors.Is(err, inventory.ErrDuplicateIP) {
			web.FailErr(w, r, web.ErrCameraDuplicateIP)
			return
		}
		web.FailErr(w, r, web.ErrCameraSaveFail)
		return
	}
	web.OK(w, r, toCameraPayload(saved))
}

func (h *CameraHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		web.FailErr(w, r, web.ErrInvalidParam)
		return
	}
	if err := h.svc.DeleteCamera(id, web.GetUsername(r)); err != nil {
		web.FailErr(w, r, web.ErrDBQuery)
		return
	}
	web.OK(w, r, map[string]string{"message": "ok"})
}

type importResponse struct {
	Added   int    `json:"added"`
	Skipped int    `json:"skipped"`
	Outcome string `json:"outcome"`
}

// Import bulk-loads cameras from parsed upload rows.
func (h *CameraHandler) Import(w http.ResponseWriter, r *http.Request) {
	var rows []inventory.ImportRow
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		web.FailErr(w, r, web.ErrInvalidBody)
		return
	}
	result, err := h.svc.ImportCameras(rows, web.GetUsername(r))
	if err != nil {
		web.FailErr(w, r, web.ErrImportFailed)
		return
	}
	web.OK(w, r, importResponse{
		Added:   result.Added,
		Skipped: result.Skipped,
		Outcome: result.Outcome(),
	})
}
