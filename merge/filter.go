package merge

import "github.com/modpublish/versiondb/model"

// Filter selects records for the read APIs
type Filter struct {
	Kinds          []model.Kind // empty selects every kind
	MatchedOnly    bool
	CurseForgeOnly bool
}

// Apply returns the records selected by f, in their original order
func (f Filter) Apply(records []model.MergedRecord) []model.MergedRecord {
	out := make([]model.MergedRecord, 0, len(records))
	for _, r := range records {
		if f.match(r) {
			out = append(out, r)
		}
	}
	return out
}

func (f Filter) match(r model.MergedRecord) bool {
	if f.MatchedOnly && !r.Matched() {
		return false
	}
	if f.CurseForgeOnly && !r.CanReleaseToCurseForge() {
		return false
	}
	if len(f.Kinds) == 0 {
		return true
	}
	for _, k := range f.Kinds {
		if r.Kind == k {
			return true
		}
	}
	return false
}

// Find returns the record with the given version id
func Find(records []model.MergedRecord, id string) (model.MergedRecord, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return model.MergedRecord{}, false
}
