package web

import "embed"

// StaticFS holds the built frontend. The dist directory is produced by
// the web build and embedded into the binary.
//
//go:embed all:dist
var StaticFS embed.FS
