package contracts

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const (
	// Version is the release of the dashboard contracts and binaries
	Version = "1.0.0"
	// APIVersion prefixes the REST payloads and websocket protocol
	APIVersion = "v1"
)

// Overridden at link time:
//
//	go build -ldflags "-X ridepulse/pkg/contracts.GitCommit=$(git rev-parse --short HEAD)"
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo describes the running binary
type VersionInfo struct {
	Version      string `json:"version"`
	APIVersion   string `json:"api_version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
}

// GetVersionInfo reports the link-time values. When GitCommit was not set
// the VCS revision stamped by the go tool is used instead.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:      Version,
		APIVersion:   APIVersion,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
	}
	if info.GitCommit == "unknown" {
		if rev := vcsRevision(); rev != "" {
			info.GitCommit = rev
		}
	}
	return info
}

// GetFullVersionString formats GetVersionInfo for a --version flag
func GetFullVersionString() string {
	info := GetVersionInfo()
	return fmt.Sprintf("RidePulse v%s (api %s, commit %s, built %s, %s %s/%s)",
		info.Version, info.APIVersion, info.GitCommit, info.BuildTime,
		info.GoVersion, info.OS, info.Architecture)
}

func vcsRevision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			if len(s.Value) > 12 {
				return s.Value[:12]
			}
			return s.Value
		}
	}
	return ""
}
