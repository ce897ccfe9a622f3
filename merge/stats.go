package merge

import "github.com/modpublish/versiondb/model"

// Stats summarizes how much of a merged list was resolved
type Stats struct {
	Total     int     `json:"total"`
	Matched   int     `json:"matched"`
	Unmatched int     `json:"unmatched"`
	MatchRate float64 `json:"match_rate"` // percent, 0 for an empty list
}

// ComputeStats counts matched and unmatched records
func ComputeStats(records []model.MergedRecord) Stats {
	s := Stats{Total: len(records)}
	for _, r := range records {
		if r.Matched() {
			s.Matched++
		}
	}
	s.Unmatched = s.Total - s.Matched
	if s.Total > 0 {
		s.MatchRate = float64(s.Matched) * 100 / float64(s.Total)
	}
	return s
}
