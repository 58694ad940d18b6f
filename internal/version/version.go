// Package version reports build metadata of the alloy-heat binaries. Release
// builds set the variables with -ldflags "-X alloy-heat/internal/version.Version=...";
// local builds fall back to the VCS stamp the Go toolchain embeds.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Info is the build metadata of the running binary.
type Info struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string
	Modified  bool
}

// Get returns the injected metadata completed from the embedded build info.
func Get() Info {
	return fromBuildInfo(Info{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}, debug.ReadBuildInfo)
}

func fromBuildInfo(info Info, read func() (*debug.BuildInfo, bool)) Info {
	bi, ok := read()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String renders the info on one line, e.g.
// "alloy-heat v0.2.0 (3f9c2a1b7d0e-dirty, go1.24.0, 2026-10-01T12:00:00Z)".
func (i Info) String() string {
	commit := i.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if commit == "" {
		commit = "unknown commit"
	}
	if i.Modified {
		commit += "-dirty"
	}
	s := fmt.Sprintf("alloy-heat %s (%s, %s", i.Version, commit, i.GoVersion)
	if i.Date != "" {
		s += ", " + i.Date
	}
	return s + ")"
}
