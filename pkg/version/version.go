package version

import "fmt"

// Version indicates what version of kinduct the binary belongs to. Set at
// build time through the linker.
var Version = "dev"

// GitCommit indicates which git commit the binary was built from.
var GitCommit string

// String returns a pretty concatenation of Version and GitCommit.
func String() string {
	if GitCommit == "" {
		return Version
	}
	return fmt.Sprintf("%s (commit %s)", Version, GitCommit)
}
