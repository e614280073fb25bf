package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"cammanager/internal/constants"
	"cammanager/internal/database"
	"cammanager/internal/inventory"
	"cammanager/internal/web"
)

// ExportHandler streams the caller's visible devices as CSV downloads.
type ExportHandler struct {
	svc          *inventory.Service
	userRepo     *database.UserRepo
	recorderRepo *database.RecorderRepo
}

func NewExportHandler(svc *inventory.Service) *ExportHandler {
	return &ExportHandler{
		svc:          svc,
		userRepo:     database.NewUserRepo(),
		recorderRepo: database.NewRecorderRepo(),
	}
}

// utf8BOM makes Excel detect the encoding correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func exportHeader(w http.ResponseWriter, entity string) {
	filename := fmt.Sprintf("cammanager_%s_%s.csv", entity, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(utf8BOM)
}

// ExportCameras writes the camera CSV. Recorder ids resolve to names;
// a dangling reference degrades to "Unknown".
func (h *ExportHandler) ExportCameras(w http.ResponseWriter, r *http.Request) {
	cams, err := h.svc.ListCameras(requestScope(r, h.userRepo))
	if err != nil {
		web.FailErr(w, r, web.ErrExportFailed)
		return
	}
	recorders, err := h.recorderRepo.List()
	if err != nil {
		web.FailErr(w, r, web.ErrExportFailed)
		return
	}
	nameByID := make(map[string]string, len(recorders))
	for _, rec := range recorders {
		nameByID[rec.ID] = rec.Name
	}

	exportHeader(w, "cameras")
	writer := csv.NewWriter(w)
	writer.Write([]string{"id", "name", "ip", "type", "recorder", "location", "installDate", "status", "note"})
	for _, c := range cams {
		recorderName := nameByID[c.RecorderID]
		if recorderName == "" {
			recorderName = constants.UnknownRecorder
		}
		writer.Write([]string{
			c.ID, c.Name, c.IP, c.Type, recorderName,
			c.Location, c.InstallDate, c.Status, c.Note,
		})
	}
	writer.Flush()
}

func (h *ExportHandler) ExportRecorders(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.ListRecorders(requestScope(r, h.userRepo))
	if err != nil {
		web.FailErr(w, r, web.ErrExportFailed)
		return
	}

	exportHeader(w, "recorders")
	writer := csv.NewWriter(w)
	writer.Write([]string{"id", "name", "ip", "port", "hddCapacity", "location", "note"})
	for _, rec := range recs {
		writer.Write([]string{
			rec.ID, rec.Name, rec.IP, fmt.Sprintf("%d", rec.Port),
			rec.HDDCapacity, rec.Location, rec.Note,
		})
	}
	writer.Flush()
}
