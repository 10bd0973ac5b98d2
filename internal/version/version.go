// File: internal/version/version.go (complete file)

package version

import "fmt"

// These values are intended to be set at build time using -ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// UserAgent is sent with every provider request.
func UserAgent() string {
	return "ipinsight/" + Version
}

func String() string {
	return fmt.Sprintf("ipinsight %s (commit=%s build_date=%s)", Version, Commit, BuildDate)
}
