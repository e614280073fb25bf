package handlers

import (
	"encoding/json"
	"net/http"

	"cammanager/internal/database"
	"cammanager/internal/inventory"
	"cammanager/internal/web"
)

type RecorderHandler struct {
	svc      *inventory.Service
	userRepo *database.UserRepo
}

func NewRecorderHandler(svc *inventory.Service) *RecorderHandler {
	return &RecorderHandler{svc: svc, userRepo: database.NewUserRepo()}
}

type recorderPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IP          string `json:"ip"`
	Port        int    `json:"port"`
	Username    string `json:"username"`
	Password    string `json:"password,omitempty"`
	Location    string `json:"location"`
	HDDCapacity string `json:"hddCapacity"`
	Note        string `json:"note"`
}

func toRecorderPayload(rec *database.Recorder) recorderPayload {
	return recorderPayload{
		ID: rec.ID, Name: rec.Name, IP: rec.IP, Port: rec.Port,
		Username: rec.Username, Location: rec.Location,
		HDDCapacity: rec.HDDCapacity, Note: rec.Note,
	}
}

func (h *RecorderHandler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.ListRecorders(requestScope(r, h.userRepo))
	if err != nil {
		web.FailErr(w, r, web.ErrDBQuery)
		return
	}
	out := make([]recorderPayload, 0, len(recs))
	for i := range recs {
		out = append(out, toRecorderPayload(&recs[i]))
	}
	web.OK(w, r, out)
}

func (h *RecorderHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req recorderPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.FailErr(w, r, web.ErrInvalidBody)
		return
	}
	if req.Name == "" || req.IP == "" {
		web.FailErr(w, r, web.ErrDeviceValidation, "name and ip are required")
		return
	}

	rec := &database.Recorder{
		ID: req.ID, Name: req.Name, IP: req.IP, Port: req.Port,
		Username: req.Username, Password: req.Password,
		Location: req.Location, HDDCapacity: req.HDDCapacity, Note: req.Note,
	}
	saved, err := h.svc.SaveRecorder(rec, web.GetUsername(r))
	if err != nil {
		web.FailErr(w, r, web.ErrRecorderSaveFail)
		return
	}
	web.OK(w, r, toRecorderPayload(saved))
}

func (h *RecorderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		web.FailErr(w, r, web.ErrInvalidParam)
		return
	}
	if err := h.svc.DeleteRecorder(id, web.GetUsername(r)); err != nil {
		web.FailErr(w, r, web.ErrDBQuery)
		return
	}
	web.OK(w, r, map[string]string{"message": "ok"})
}
