// Package pipeline orchestrates fetching, merging and saving the version file.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/modpublish/versiondb/merge"
	"github.com/modpublish/versiondb/model"
	"github.com/modpublish/versiondb/store"
)

// ManifestFetcher provides the primary version list
type ManifestFetcher interface {
	FetchManifest(ctx context.Context) (*model.Manifest, error)
}

// CatalogFetcher provides the secondary catalog
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context) ([]model.CatalogEntry, error)
}

// Report describes the outcome of a run
type Report struct {
	Records          []model.MergedRecord
	Stats            merge.Stats
	Latest           model.Latest
	CatalogAvailable bool
	IndexSize        int
	Output           string
}

// Pipeline wires the sources to the merge and the output file
type Pipeline struct {
	manifest ManifestFetcher
	catalog  CatalogFetcher
	logger   *zap.Logger
}

// New creates a new Pipeline
func New(manifest ManifestFetcher, catalog CatalogFetcher, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{manifest: manifest, catalog: catalog, logger: logger}
}

// Sync fetches both sources, merges them and replaces out. A manifest failure
// aborts before out is touched; a catalog failure is logged and every record
// is written unmatched.
func (p *Pipeline) Sync(ctx context.Context, out string) (*Report, error) {
	manifest, err := p.fetchManifest(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{Latest: manifest.Latest, Output: out}

	p.logger.Info("Fetching version data from catalog")
	entries, err := p.catalog.FetchCatalog(ctx)
	if err != nil {
		p.logger.Warn("Catalog unavailable, continuing with an empty index", zap.Error(err))
		entries = nil
	} else {
		report.CatalogAvailable = true
		p.logger.Info("Fetched catalog", zap.Int("entries", len(entries)))
	}

	p.mergeInto(report, manifest.Versions, entries)

	if err := store.Save(out, report.Records); err != nil {
		return nil, fmt.Errorf("failed to save versions: %w", err)
	}
	p.logger.Info("Saved versions", zap.String("file", out), zap.Int("count", len(report.Records)))

	return report, nil
}

// Fetch writes the manifest alone, without catalog ids
func (p *Pipeline) Fetch(ctx context.Context, out string) (*Report, error) {
	manifest, err := p.fetchManifest(ctx)
	if err != nil {
		return nil, err
	}

	if err := store.Save(out, store.BaseRecords(manifest.Versions)); err != nil {
		return nil, fmt.Errorf("failed to save versions: %w", err)
	}
	p.logger.Info("Saved versions", zap.String("file", out), zap.Int("count", len(manifest.Versions)))

	records := merge.Merge(manifest.Versions, nil, nil)
	return &Report{
		Records: records,
		Stats:   merge.ComputeStats(records),
		Latest:  manifest.Latest,
		Output:  out,
	}, nil
}

// Enrich re-resolves catalog ids for an existing version file in place. The
// file is both the merge base and the output; it is replaced atomically and
// left untouched when any step fails.
func (p *Pipeline) Enrich(ctx context.Context, path string) (*Report, error) {
	existing, err := store.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load merge base: %w", err)
	}
	if len(existing) == 0 {
		return nil, fmt.Errorf("%w: %s holds no versions", model.ErrParse, path)
	}
	base := merge.Rebase(existing)
	p.logger.Info("Loaded merge base", zap.String("file", path), zap.Int("versions", len(base)))

	p.logger.Info("Fetching version data from catalog")
	entries, err := p.catalog.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}
	// an empty catalog would reset every stored id to -1
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: catalog returned no versions", model.ErrParse)
	}
	p.logger.Info("Fetched catalog", zap.Int("entries", len(entries)))

	report := &Report{CatalogAvailable: true, Output: path}
	p.mergeInto(report, base, entries)

	if err := store.Save(path, report.Records); err != nil {
		return nil, fmt.Errorf("failed to save versions: %w", err)
	}
	p.logger.Info("Saved versions", zap.String("file", path), zap.Int("count", len(report.Records)))

	return report, nil
}

func (p *Pipeline) fetchManifest(ctx context.Context) (*model.Manifest, error) {
	p.logger.Info("Fetching version manifest")
	manifest, err := p.manifest.FetchManifest(ctx)
	if err != nil {
		return nil, err
	}

	for _, v := range manifest.Versions {
		if !v.Kind.Known() {
			p.logger.Warn("Unknown version type, keeping as is",
				zap.String("version", v.ID), zap.String("type", v.Kind.String()))
		}
	}

	p.logger.Info("Fetched version manifest",
		zap.Int("versions", len(manifest.Versions)),
		zap.String("latest_release", manifest.Latest.Release),
		zap.String("latest_snapshot", manifest.Latest.Snapshot),
	)
	return manifest, nil
}

func (p *Pipeline) mergeInto(report *Report, base []model.VersionRecord, entries []model.CatalogEntry) {
	index := merge.BuildCatalogIndex(entries)
	report.IndexSize = len(index)
	p.logger.Info("Created version mapping table", zap.Int("mappings", len(index)))

	report.Records = merge.Merge(base, index, &logObserver{logger: p.logger})
	report.Stats = merge.ComputeStats(report.Records)
}

// logObserver reports merge progress through zap
type logObserver struct {
	logger *zap.Logger
}

func (o *logObserver) OnMatch(r model.MergedRecord) {
	o.logger.Debug("Matched version", zap.String("version", r.ID), zap.Int("id", r.CatalogID))
}

func (o *logObserver) OnComplete(matched, total int) {
	o.logger.Info("Version update completed", zap.Int("matched", matched), zap.Int("total", total))
}
