package internal

import "fmt"

var (
	Version = "v0.1.0-dev"
	Commit  = ""
)

func PrintableVersion() string {
	if Commit == "" {
		return fmt.Sprintf("LocalSD %s", Version)
	}
	return fmt.Sprintf("LocalSD %s (%s)", Version, Commit)
}
