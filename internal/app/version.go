package app

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/tejashwikalptaru/goscope/internal/app.Version=...".
var (
	Version   = "dev"
	GitCommit = ""
	GitTag    = ""
	BuildTime = ""
)

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version   string
	GitCommit string
	GitTag    string
	BuildTime string
	GoVersion string
}

// GetVersionInfo returns the ldflags values, falling back to the VCS stamp
// the go toolchain embeds when they were not set.
func GetVersionInfo() VersionInfo {
	v := VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		GitTag:    GitTag,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if v.GitCommit == "" {
					v.GitCommit = s.Value
				}
			case "vcs.time":
				if v.BuildTime == "" {
					v.BuildTime = s.Value
				}
			}
		}
	}

	if len(v.GitCommit) > 12 {
		v.GitCommit = v.GitCommit[:12]
	}
	if v.GitCommit == "" {
		v.GitCommit = "unknown"
	}
	if v.BuildTime == "" {
		v.BuildTime = "unknown"
	}
	return v
}

// String is the short form shown by --version.
func (v VersionInfo) String() string {
	if v.GitTag != "" {
		return v.GitTag
	}
	return v.Version
}

// FullString returns a detailed version string for logging.
func (v VersionInfo) FullString() string {
	return fmt.Sprintf("GoScope %s (commit: %s, built: %s, %s)", v.String(), v.GitCommit, v.BuildTime, v.GoVersion)
}
