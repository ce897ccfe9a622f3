package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modpublish/versiondb/model"
)

func filterFixture() []model.MergedRecord {
	return []model.MergedRecord{
		{ID: "1.21", Kind: model.KindRelease, CatalogID: -1},
		{ID: "24w14a", Kind: model.KindSnapshot, CatalogID: 11000},
		{ID: "1.20", Kind: model.KindRelease, CatalogID: 9999},
		{ID: "b1.7.3", Kind: model.KindOldBeta, CatalogID: -1},
	}
}

func ids(records []model.MergedRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestFilter_Apply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero filter keeps all", Filter{}, []string{"1.21", "24w14a", "1.20", "b1.7.3"}},
		{"releases", Filter{Kinds: []model.Kind{model.KindRelease}}, []string{"1.21", "1.20"}},
		{"releases and snapshots", Filter{Kinds: []model.Kind{model.KindRelease, model.KindSnapshot}}, []string{"1.21", "24w14a", "1.20"}},
		{"matched", Filter{MatchedOnly: true}, []string{"24w14a", "1.20"}},
		{"curseforge", Filter{CurseForgeOnly: true}, []string{"1.20"}},
		{"no match", Filter{Kinds: []model.Kind{model.KindOldAlpha}}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(filterFixture())))
		})
	}
}

func TestFind(t *testing.T) {
	r, ok := Find(filterFixture(), "1.20")
	assert.True(t, ok)
	assert.Equal(t, 9999, r.CatalogID)

	_, ok = Find(filterFixture(), "1.0")
	assert.False(t, ok)
}
