// Package version holds the build version string.
package version

// Version is the current release. Overridden at build time via
// -ldflags "-X .../internal/version.Version=v1.2.3".
var Version = "dev"
