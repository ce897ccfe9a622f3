// Package merge joins the primary version manifest with the secondary catalog.
package merge

import (
	"github.com/modpublish/versiondb/model"
)

// Observer receives progress from Merge. Implementations must not retain the
// records beyond the call.
type Observer interface {
	// OnMatch is called once for every record that resolved to a catalog id.
	OnMatch(record model.MergedRecord)
	// OnComplete is called once after the last record.
	OnComplete(matched, total int)
}

// NopObserver discards all notifications
type NopObserver struct{}

// OnMatch implements Observer
func (NopObserver) OnMatch(model.MergedRecord) {}

// OnComplete implements Observer
func (NopObserver) OnComplete(int, int) {}

// BuildCatalogIndex maps version strings to catalog ids. The last occurrence
// of a duplicate version string wins and empty version strings are skipped.
func BuildCatalogIndex(entries []model.CatalogEntry) map[string]int {
	index := make(map[string]int, len(entries))
	for _, e := range entries {
		if e.VersionString == "" {
			continue
		}
		index[e.VersionString] = e.GameVersionID
	}
	return index
}

// Merge resolves every primary record against index. The result has the same
// length and order as primary; ids missing from index get model.UnmatchedID.
func Merge(primary []model.VersionRecord, index map[string]int, obs Observer) []model.MergedRecord {
	if obs == nil {
		obs = NopObserver{}
	}

	merged := make([]model.MergedRecord, 0, len(primary))
	matched := 0

	for _, v := range primary {
		record := model.NewMergedRecord(v)
		if id, ok := index[v.ID]; ok {
			record.CatalogID = id
		}

		// a catalog entry that itself carries -1 still counts as unmatched
		if record.Matched() {
			matched++
			obs.OnMatch(record)
		}

		merged = append(merged, record)
	}

	obs.OnComplete(matched, len(primary))
	return merged
}

// Rebase turns a previously merged file back into a merge base.
// Stored catalog ids are dropped; they are recomputed by the next Merge.
func Rebase(records []model.MergedRecord) []model.VersionRecord {
	base := make([]model.VersionRecord, len(records))
	for i, r := range records {
		base[i] = r.Version()
	}
	return base
}
