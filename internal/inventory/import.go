package inventory

import (
	"fmt"
	"strings"
	"time"

	"cammanager/internal/constants"
	"cammanager/internal/database"
	"cammanager/internal/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportRow is one loosely-typed record from a bulk upload. Every field
// is optional; rows without a usable IP are skipped.
type ImportRow struct {
	IP           string `json:"ip"`
	Name         string `json:"name"`
	RecorderName string `json:"recorderName"`
	Location     string `json:"location"`
	Type         string `json:"type"`
	Status       string `json:"status"`
	InstallDate  string `json:"installDate"`
	Note         string `json:"note"`
}

type ImportResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// Outcome classifies the result for the UI notification.
func (r ImportResult) Outcome() string {
	switch {
	case r.Added > 0 && r.Skipped == 0:
		return "success"
	case r.Added > 0:
		return "warning"
	default:
		return "error"
	}
}

// ImportCameras bulk-inserts rows. Duplicate IPs — against the store or
// earlier rows in the same batch — and empty IPs count as skipped.
// Unknown recorder names resolve to an empty reference; unknown
// location/type/status values are auto-registered. The whole batch
// commits with one aggregate audit entry.
func (s *Service) ImportCameras(rows []ImportRow, username string) (ImportResult, error) {
	var result ImportResult
	var logged *database.AuditLog

	err := s.db.Transaction(func(tx *gorm.DB) error {
		seenIPs := make(map[string]bool)
		var existing []database.Camera
		if err := tx.Select("ip_norm").Find(&existing).Error; err != nil {
			return err
		}
		for _, c := range existing {
			seenIPs[c.IPNorm] = true
		}

		// recorder name → id, case-insensitive
		var recorders []database.Recorder
		if err := tx.Find(&recorders).Error; err != nil {
			return err
		}
		recorderByName := make(map[string]string, len(recorders))
		for _, r := range recorders {
			recorderByName[strings.ToLower(strings.TrimSpace(r.Name))] = r.ID
		}

		known := make(map[string]map[string]string) // kind → lower(name) → registered name
		defaults := make(map[string]string)         // kind → first entry name
		var entries []database.TaxonomyEntry
		if err := tx.Order("id asc").Find(&entries).Error; err != nil {
			return err
		}
		for _, e := range entries {
			if known[e.Kind] == nil {
				known[e.Kind] = make(map[string]string)
			}
			known[e.Kind][strings.ToLower(e.Name)] = e.Name
			if defaults[e.Kind] == "" {
				defaults[e.Kind] = e.Name
			}
		}
		if defaults[constants.KindStatus] == "" {
			defaults[constants.KindStatus] = constants.DefaultStatuses[0]
		}
		if defaults[constants.KindType] == "" {
			defaults[constants.KindType] = constants.DefaultTypes[0]
		}

		// register resolves a row value against the registry and returns the
		// registered spelling, so devices never hold a casing variant the
		// registry does not track (rename cascades match columns exactly).
		register := func(kind, name string) (string, error) {
			if name == "" {
				return "", nil
			}
			if known[kind] == nil {
				known[kind] = make(map[string]string)
			}
			if registered, ok := known[kind][strings.ToLower(name)]; ok {
				return registered, nil
			}
			if err := tx.Create(&database.TaxonomyEntry{Kind: kind, Name: name}).Error; err != nil {
				return "", err
			}
			known[kind][strings.ToLower(name)] = name
			return name, nil
		}

		today := time.Now().Format("2006-01-02")
		for _, row := range rows {
			ip := strings.TrimSpace(row.IP)
			if ip == "" {
				result.Skipped++
				continue
			}
			norm := database.NormalizeIP(ip)
			if seenIPs[norm] {
				result.Skipped++
				continue
			}

			recName := strings.TrimSpace(row.RecorderName)
			recID, recKnown := recorderByName[strings.ToLower(recName)]
			if recName != "" && !recKnown {
				logger.Inventory.Debug().Str("recorder", recName).Str("ip", ip).Msg("import: unknown recorder name, left unassigned")
			}

			cam := database.Camera{
				ID:          uuid.NewString(),
				Name:        strings.TrimSpace(row.Name),
				IP:          ip,
				IPNorm:      norm,
				RecorderID:  recID,
				Location:    strings.TrimSpace(row.Location),
				Type:        strings.TrimSpace(row.Type),
				Status:      strings.TrimSpace(row.Status),
				InstallDate: strings.TrimSpace(row.InstallDate),
				Note:        row.Note,
			}
			if cam.Name == "" {
				cam.Name = constants.ImportDefaultName
			}
			if cam.InstallDate == "" {
				cam.InstallDate = today
			}
			if cam.Status == "" {
				cam.Status = defaults[constants.KindStatus]
			}
			if cam.Type == "" {
				cam.Type = defaults[constants.KindType]
			}

			loc, err := register(constants.KindLocation, cam.Location)
			if err != nil {
				return err
			}
			cam.Location = loc
			typ, err := register(constants.KindType, cam.Type)
			if err != nil {
				return err
			}
			cam.Type = typ
			status, err := register(constants.KindStatus, cam.Status)
			if err != nil {
				return err
			}
			cam.Status = status

			if err := tx.Create(&cam).Error; err != nil {
				return err
			}
			seenIPs[norm] = true
			result.Added++
		}

		details := fmt.Sprintf("Imported %d cameras, skipped %d duplicate-IP records", result.Added, result.Skipped)
		var aerr error
		logged, aerr = audit(tx, constants.ActionAdd, constants.TargetCamera, "bulk import", details, username)
		return aerr
	})
	if err != nil {
		return ImportResult{}, err
	}

	s.emit(constants.ChannelInventory, "cameras.imported", result)
	s.emitAudit(logged)
	logger.Inventory.Info().Int("added", result.Added).Int("skipped", result.Skipped).Msg("camera import finished")
	return result, nil
}
