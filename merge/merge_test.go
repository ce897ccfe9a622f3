package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modpublish/versiondb/model"
)

type recordingObserver struct {
	matches  []string
	matched  int
	total    int
	complete int
}

func (o *recordingObserver) OnMatch(r model.MergedRecord) {
	o.matches = append(o.matches, r.ID)
}

func (o *recordingObserver) OnComplete(matched, total int) {
	o.matched = matched
	o.total = total
	o.complete++
}

func primary(ids ...string) []model.VersionRecord {
	out := make([]model.VersionRecord, len(ids))
	for i, id := range ids {
		out[i] = model.VersionRecord{ID: id, Kind: model.KindRelease, ReleasedAt: "2023-06-07T12:00:00Z"}
	}
	return out
}

func TestBuildCatalogIndex(t *testing.T) {
	tests := []struct {
		name    string
		entries []model.CatalogEntry
		want    map[string]int
	}{
		{
			name:    "empty input",
			entries: nil,
			want:    map[string]int{},
		},
		{
			name: "distinct entries",
			entries: []model.CatalogEntry{
				{VersionString: "1.20", GameVersionID: 9999},
				{VersionString: "1.19.4", GameVersionID: 9776},
			},
			want: map[string]int{"1.20": 9999, "1.19.4": 9776},
		},
		{
			name: "duplicate keeps last occurrence",
			entries: []model.CatalogEntry{
				{VersionString: "1.20", GameVersionID: 1},
				{VersionString: "1.19", GameVersionID: 2},
				{VersionString: "1.20", GameVersionID: 3},
			},
			want: map[string]int{"1.20": 3, "1.19": 2},
		},
		{
			name: "empty version string skipped",
			entries: []model.CatalogEntry{
				{VersionString: "", GameVersionID: 42},
				{VersionString: "1.20", GameVersionID: 9999},
			},
			want: map[string]int{"1.20": 9999},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildCatalogIndex(tt.entries)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), len(tt.entries))
		})
	}
}

func TestMerge_PreservesLengthAndOrder(t *testing.T) {
	in := primary("1.21", "1.20", "23w13a", "1.19.4")
	indexes := []map[string]int{
		{},
		{"1.20": 9999},
		{"1.21": 1, "1.20": 2, "23w13a": 3, "1.19.4": 4, "unrelated": 5},
	}

	for _, index := range indexes {
		out := Merge(in, index, nil)
		require.Len(t, out, len(in))
		for i := range in {
			assert.Equal(t, in[i].ID, out[i].ID)
			assert.Equal(t, in[i].Kind, out[i].Kind)
			assert.Equal(t, in[i].ReleasedAt, out[i].ReleasedAt)
		}
	}
}

func TestMerge_ResolvesCatalogIDs(t *testing.T) {
	index := map[string]int{"1.20": 9999, "1.19.4": 9776, "orphan": 1}
	out := Merge(primary("1.21", "1.20", "1.19.4"), index, nil)

	assert.Equal(t, model.UnmatchedID, out[0].CatalogID)
	assert.Equal(t, 9999, out[1].CatalogID)
	assert.Equal(t, 9776, out[2].CatalogID)
	for _, r := range out {
		assert.NotEqual(t, "orphan", r.ID, "catalog-only entries must not appear in the output")
	}
}

func TestMerge_EmptyPrimary(t *testing.T) {
	out := Merge(nil, map[string]int{"1.20": 1}, nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestMerge_ReportsToObserver(t *testing.T) {
	obs := &recordingObserver{}
	index := map[string]int{"1.20": 9999, "1.18": -1}

	Merge(primary("1.21", "1.20", "1.18"), index, obs)

	assert.Equal(t, []string{"1.20"}, obs.matches)
	assert.Equal(t, 1, obs.matched, "an explicit -1 catalog id is not a match")
	assert.Equal(t, 3, obs.total)
	assert.Equal(t, 1, obs.complete)
}

func TestRebase_DropsCatalogIDs(t *testing.T) {
	records := []model.MergedRecord{
		{ID: "1.20", Kind: model.KindRelease, CatalogID: 9999, ReleasedAt: "2023-06-07T12:00:00Z"},
		{ID: "23w13a", Kind: model.KindSnapshot, CatalogID: -1, ReleasedAt: "2023-03-29T10:00:00Z"},
	}

	base := Rebase(records)
	require.Len(t, base, 2)
	assert.Equal(t, model.VersionRecord{ID: "1.20", Kind: model.KindRelease, ReleasedAt: "2023-06-07T12:00:00Z"}, base[0])

	remerged := Merge(base, map[string]int{"23w13a": 9500}, nil)
	assert.Equal(t, model.UnmatchedID, remerged[0].CatalogID)
	assert.Equal(t, 9500, remerged[1].CatalogID)
}

func TestComputeStats(t *testing.T) {
	assert.Equal(t, Stats{}, ComputeStats(nil))

	s := ComputeStats([]model.MergedRecord{
		{ID: "a", CatalogID: 1},
		{ID: "b", CatalogID: -1},
		{ID: "c", CatalogID: 3},
		{ID: "d", CatalogID: -1},
	})
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Matched)
	assert.Equal(t, 2, s.Unmatched)
	assert.InDelta(t, 50.0, s.MatchRate, 0.001)
}
