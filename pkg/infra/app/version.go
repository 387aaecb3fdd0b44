package app

import "github.com/kart-io/version"

// BuildVersion is the git version stamped into the binary at link time.
// Health endpoints report it.
func BuildVersion() string {
	return version.Get().GitVersion
}
