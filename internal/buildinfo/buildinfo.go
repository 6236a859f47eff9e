// Package buildinfo holds version information injected at build time via ldflags.
package buildinfo

var (
	Version    = "dev"
	Codename   = "unknown"
	CommitHash = "unknown"
	BuildDate  = "unknown"

	// ApplicationID is the chat platform application identifier baked into the
	// binary, e.g. -X github.com/digirp/digirp/internal/buildinfo.ApplicationID=1234...
	ApplicationID = ""
)
