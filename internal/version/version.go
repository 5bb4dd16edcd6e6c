// Package version exposes the build version of the fluxvision binaries.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Version and Commit are normally injected at build time:
//
//	go build -ldflags="-X github.com/muurk/fluxvision/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/fluxvision/internal/version.Commit=abc1234"
//
// When they are empty the VCS stamp embedded by the Go toolchain is used.
var (
	Version = ""
	Commit  = ""
)

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
	Modified  bool   `json:"modified"`
}

func init() {
	info := fromBuildInfo()
	if Version == "" {
		Version = info.Version
	}
	if Commit == "" {
		Commit = info.Commit
	}
}

// Get returns the build information for this binary.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		Modified:  strings.HasSuffix(Commit, "-dirty"),
	}
}

// Full returns the version together with the commit, e.g. "v0.3.0 (commit: abc1234)".
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// String renders a one-line banner for the named binary.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit: %s, %s)", i.Version, i.Commit, i.GoVersion)
}

func fromBuildInfo() Info {
	out := Info{Version: "dev", Commit: "unknown"}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}
	if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		out.Version = bi.Main.Version
	}

	var revision, vcsTime string
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			vcsTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	if revision != "" {
		if len(revision) > 7 {
			revision = revision[:7]
		}
		out.Commit = revision
		if out.Modified {
			out.Commit += "-dirty"
		}
	}
	// vcs.time is RFC3339; the date part is enough to tell dev builds apart.
	if out.Version == "dev" && len(vcsTime) >= 10 {
		out.Version = "dev-" + strings.ReplaceAll(vcsTime[:10], "-", "")
	}
	return out
}
