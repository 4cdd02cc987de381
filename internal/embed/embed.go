package embed

import "embed"

// ProfilesFS holds the embedded builtin behavior-profile catalog, one YAML
// file per device type, compiled into the binary so a fresh pool never
// starts with an empty catalog.
//
//go:embed all:profiles
var ProfilesFS embed.FS
