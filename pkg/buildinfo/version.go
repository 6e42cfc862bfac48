// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/qbicsoftware/samplegraph/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/qbicsoftware/samplegraph/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/qbicsoftware/samplegraph/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"
	// Commit is the git commit SHA.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)

// Short returns the version with an abbreviated commit, e.g. "v1.2.3 (3f2a9c1)".
func Short() string {
	commit := Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", Version, commit)
}

// ServerHeader is the value of the Server header the host sends.
func ServerHeader() string {
	return "samplegraph/" + Version
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
