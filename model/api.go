// Package model - wire types for the upstream JSON payloads
package model

// Latest holds the newest release and snapshot ids advertised by the manifest
type Latest struct {
	Release  string `json:"release"`
	Snapshot string `json:"snapshot"`
}

// Manifest is the parsed primary payload
type Manifest struct {
	Latest   Latest
	Versions []VersionRecord
}

// ManifestResponse matches version_manifest_v2.json. Pointer fields let the
// parser tell a missing key from an empty one.
type ManifestResponse struct {
	Latest   *Latest           `json:"latest"`
	Versions []ManifestVersion `json:"versions"`
}

// ManifestVersion is one element of ManifestResponse.Versions; only the fields we consume are declared
type ManifestVersion struct {
	ID          *string `json:"id"`
	Type        *string `json:"type"`
	ReleaseTime *string `json:"releaseTime"`
}

// CatalogResponse matches the catalog endpoint: {"data": [...]}
type CatalogResponse struct {
	Data []CatalogItem `json:"data"`
}

// CatalogItem is one element of CatalogResponse.Data
type CatalogItem struct {
	VersionString string `json:"versionString"`
	GameVersionID *int   `json:"gameVersionId"`
}
