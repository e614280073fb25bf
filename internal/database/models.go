package database

import (
	"encoding/json"
	"strings"
	"time"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Role         string    `gorm:"not null;default:user" json:"role"`
	Avatar       string    `gorm:"type:text" json:"avatar,omitempty"`
	// AllowedLocations is a JSON-encoded []string of location names a
	// non-admin may see. Empty means no visibility, not full visibility.
	AllowedLocations string    `gorm:"type:text" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Locations decodes the AllowedLocations column.
func (u *User) Locations() []string {
	if u.AllowedLocations == "" {
		return nil
	}
	var locs []string
	if err := json.Unmarshal([]byte(u.AllowedLocations), &locs); err != nil {
		return nil
	}
	return locs
}

// SetLocations encodes locs into the AllowedLocations column.
func (u *User) SetLocations(locs []string) {
	if len(locs) == 0 {
		u.AllowedLocations = ""
		return
	}
	data, _ := json.Marshal(locs)
	u.AllowedLocations = string(data)
}

type Camera struct {
	ID   string `gorm:"primaryKey;size:36" json:"id"`
	Name string `gorm:"not null" json:"name"`
	IP   string `gorm:"not null" json:"ip"`
	// IPNorm is the trimmed, lowercased IP used for uniqueness checks.
	IPNorm      string    `gorm:"uniqueIndex;not null" json:"-"`
	RecorderID  string    `gorm:"index;size:36" json:"recorder_id"`
	Location    string    `gorm:"index" json:"location"`
	Type        string    `gorm:"index" json:"type"`
	Status      string    `gorm:"index" json:"status"`
	InstallDate string    `json:"install_date"`
	Note        string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Recorder struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	IP          string    `gorm:"not null" json:"ip"`
	Port        int       `json:"port"`
	Username    string    `json:"username"`
	Password    string    `json:"password,omitempty"`
	Location    string    `gorm:"index" json:"location"`
	HDDCapacity string    `json:"hdd_capacity,omitempty"`
	Note        string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaxonomyEntry is one value of a shared enumeration (location, type or
// status). Names are unique per kind, compared case-insensitively at the
// service layer.
type TaxonomyEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Kind      string    `gorm:"uniqueIndex:idx_kind_name;not null;size:16" json:"kind"`
	Name      string    `gorm:"uniqueIndex:idx_kind_name;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type SiteMap struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Image     string    `gorm:"type:text" json:"image,omitempty"` // data URI, empty until uploaded
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CameraPosition places a camera on exactly one map, in percentage
// coordinates relative to the map bounds.
type CameraPosition struct {
	CameraID  string    `gorm:"primaryKey;size:36" json:"camera_id"`
	MapID     string    `gorm:"index;size:36;not null" json:"map_id"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuditLog records one committed mutation. Rows are append-only: the repo
// exposes no update or delete.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Action     string    `gorm:"index" json:"action"`
	TargetType string    `gorm:"index" json:"target_type"`
	TargetName string    `json:"target_name"`
	Details    string    `gorm:"type:text" json:"details,omitempty"`
	Username   string    `gorm:"index" json:"username"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// NormalizeIP canonicalizes an IP/channel string for uniqueness checks.
func NormalizeIP(ip string) string {
	return strings.ToLower(strings.TrimSpace(ip))
}
