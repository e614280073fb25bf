package inventory

import (
	"fmt"
	"strings"

	"cammanager/internal/database"
)

type fieldChange struct {
	field string
	from  string
	to    string
}

// changeSummary renders a field-level diff for the audit trail. An empty
// diff still yields a summary, matching the dashboard convention that
// every edit produces a readable detail line.
func changeSummary(changes []fieldChange) string {
	if len(changes) == 0 {
		return "updated, no data changed"
	}
	parts := make([]string, 0, len(changes))
	for _, c := range changes {
		parts = append(parts, fmt.Sprintf("%s: %q → %q", c.field, c.from, c.to))
	}
	return strings.Join(parts, "; ")
}

func diffCameras(old, new *database.Camera) []fieldChange {
	var changes []fieldChange
	add := func(field, from, to string) {
		if from != to {
			changes = append(changes, fieldChange{field, from, to})
		}
	}
	add("name", old.Name, new.Name)
	add("ip", old.IP, new.IP)
	add("location", old.Location, new.Location)
	add("status", old.Status, new.Status)
	add("type", old.Type, new.Type)
	add("recorder", old.RecorderID, new.RecorderID)
	add("installDate", old.InstallDate, new.InstallDate)
	add("note", old.Note, new.Note)
	return changes
}

func diffRecorders(old, new *database.Recorder) []fieldChange {
	var changes []fieldChange
	add := func(field, from, to string) {
		if from != to {
			changes = append(changes, fieldChange{field, from, to})
		}
	}
	add("name", old.Name, new.Name)
	add("ip", old.IP, new.IP)
	add("port", fmt.Sprintf("%d", old.Port), fmt.Sprintf("%d", new.Port))
	add("username", old.Username, new.Username)
	add("location", old.Location, new.Location)
	add("hddCapacity", old.HDDCapacity, new.HDDCapacity)
	add("note", old.Note, new.Note)
	if old.Password != new.Password {
		changes = append(changes, fieldChange{"password", "***", "***"})
	}
	return changes
}
