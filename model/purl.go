package model

import (
	"github.com/package-url/packageurl-go"
)

// PackageURL returns the package URL identifying this game version, e.g.
// pkg:generic/minecraft@1.20.1?type=release
func (r MergedRecord) PackageURL() string {
	var qualifiers packageurl.Qualifiers
	if r.Kind != "" {
		qualifiers = packageurl.QualifiersFromMap(map[string]string{"type": string(r.Kind)})
	}
	purl := packageurl.NewPackageURL("generic", "", "minecraft", r.ID, qualifiers, "")
	return purl.ToString()
}
