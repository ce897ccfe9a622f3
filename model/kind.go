// Package model defines the data structures shared by versiondb,
// including manifest versions, catalog entries and merged records.
package model

// Kind represents the release channel of a version as reported by the manifest
type Kind string

const (
	// KindRelease is a stable release.
	KindRelease Kind = "release"
	// KindSnapshot is a weekly development snapshot or pre-release.
	KindSnapshot Kind = "snapshot"
	// KindOldBeta is a legacy beta build.
	KindOldBeta Kind = "old_beta"
	// KindOldAlpha is a legacy alpha build.
	KindOldAlpha Kind = "old_alpha"
)

// String returns the wire form of the kind
func (k Kind) String() string {
	return string(k)
}

// Known reports whether k is one of the kinds the manifest is documented to emit.
// Unknown kinds are still carried through verbatim.
func (k Kind) Known() bool {
	switch k {
	case KindRelease, KindSnapshot, KindOldBeta, KindOldAlpha:
		return true
	}
	return false
}
