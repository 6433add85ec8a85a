// Package buildinfo holds the version stamped into starlake-docs at build
// time.
//
// Set the variables with ldflags:
//
//	go build -ldflags "-X github.com/starlake-ai/starlake-site-builder/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/starlake-ai/starlake-site-builder/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/starlake-ai/starlake-site-builder/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Info is the build stamp as reported by the health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Current returns the build stamp of the running binary.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String returns the build stamp on three lines.
func (i Info) String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", i.Version, i.Commit, i.Date)
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} version {{.Version}}\n" + fmt.Sprintf("commit: %s\nbuilt: %s\n", Commit, Date)
}
