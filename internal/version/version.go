package version

// Version is the current CamManager release. Overridden at build time via
// -ldflags "-X cammanager/internal/version.Version=x.y.z".
var Version = "1.0.40"
