package update

import "starttls-hq/everywhere/pkg/policy/model"

// ShouldReplace reports whether remote is strictly newer than local.
// Equal timestamps keep the local copy.
func ShouldReplace(local, remote *model.Config) bool {
	return remote.Timestamp().After(local.Timestamp())
}
