// Package version reports the build version of llmport.
package version

import "runtime/debug"

// Version is set at link time with -ldflags "-X .../version.Version=v1.2.3".
// When empty the module version from the build info is used.
var Version = ""

// Get returns the version of the application.
func Get() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(unknown version)"
}
