// Package version holds the build-time version string.
package version

// Version is the service's release version, overridden at build time via
// -ldflags "-X github.com/aurel42/zonepoi/pkg/version.Version=v1.2.3".
var Version = "v0.0.0-dev"
