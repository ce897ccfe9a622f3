// Package model - VersionRecord and MergedRecord define the records flowing through the merge.
package model

// UnmatchedID is the catalog id written for a version that has no catalog entry
const UnmatchedID = -1

// VersionRecord is a single entry of the primary version manifest
type VersionRecord struct {
	ID         string `json:"v"`
	Kind       Kind   `json:"t"`
	ReleasedAt string `json:"d"` // ISO-8601 UTC, "Z" suffix after normalization
}

// CatalogEntry is a single entry of the secondary catalog
type CatalogEntry struct {
	VersionString string
	GameVersionID int
}

// MergedRecord is the output unit. Field order is part of the file format: v, t, i, d.
type MergedRecord struct {
	ID         string `json:"v"`
	Kind       Kind   `json:"t"`
	CatalogID  int    `json:"i"`
	ReleasedAt string `json:"d"`
}

// NewMergedRecord builds an unmatched record from a manifest version
func NewMergedRecord(v VersionRecord) MergedRecord {
	return MergedRecord{
		ID:         v.ID,
		Kind:       v.Kind,
		CatalogID:  UnmatchedID,
		ReleasedAt: v.ReleasedAt,
	}
}

// Matched reports whether the record was resolved against the catalog
func (r MergedRecord) Matched() bool {
	return r.CatalogID != UnmatchedID
}

// CanReleaseToCurseForge reports whether files can target this version on CurseForge.
// Only stable releases with a positive catalog id qualify.
func (r MergedRecord) CanReleaseToCurseForge() bool {
	return r.Kind == KindRelease && r.CatalogID > 0
}

// Version returns the manifest view of the record
func (r MergedRecord) Version() VersionRecord {
	return VersionRecord{ID: r.ID, Kind: r.Kind, ReleasedAt: r.ReleasedAt}
}
