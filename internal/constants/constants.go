package constants

// User roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Audit actions
const (
	ActionAdd    = "Add"
	ActionEdit   = "Edit"
	ActionDelete = "Delete"
)

// Audit target types
const (
	TargetCamera   = "Camera"
	TargetRecorder = "Recorder"
	TargetLocation = "Location"
	TargetType     = "Type"
	TargetStatus   = "Status"
	TargetMap      = "Map"
	TargetAccount  = "Account"
)

// Live-feed channels clients subscribe to.
const (
	ChannelInventory = "inventory" // camera/recorder/taxonomy/map changes
	ChannelAudit     = "audit"     // committed audit entries
)

// Taxonomy kinds
const (
	KindLocation = "location"
	KindType     = "type"
	KindStatus   = "status"
)

var AllKinds = []string{KindLocation, KindType, KindStatus}

// Default taxonomy values seeded into an empty database. Import falls back
// to the first status/type when a row omits them.
var (
	DefaultStatuses = []string{"Active", "Offline", "Maintenance"}
	DefaultTypes    = []string{"Bullet", "Dome", "PTZ"}
)

// ImportDefaultName is assigned to imported rows without a camera name.
const ImportDefaultName = "Unnamed Camera"

// UnknownRecorder is displayed for cameras whose recorder no longer exists.
const UnknownRecorder = "Unknown"
