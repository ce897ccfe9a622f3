package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modpublish/versiondb/model"
)

const (
	// DefaultManifestURL is the canonical version manifest
	DefaultManifestURL = "https://launchermeta.mojang.com/mc/game/version_manifest_v2.json"
	// DefaultManifestTimeout bounds a single manifest request
	DefaultManifestTimeout = 10 * time.Second
)

// ManifestSource fetches the primary version list
type ManifestSource struct {
	client  *Client
	url     string
	timeout time.Duration
}

// NewManifestSource creates a ManifestSource; empty url and zero timeout fall back to the defaults
func NewManifestSource(client *Client, url string, timeout time.Duration) *ManifestSource {
	if url == "" {
		url = DefaultManifestURL
	}
	if timeout <= 0 {
		timeout = DefaultManifestTimeout
	}
	return &ManifestSource{client: client, url: url, timeout: timeout}
}

// FetchManifest retrieves the manifest and normalizes release timestamps
func (s *ManifestSource) FetchManifest(ctx context.Context) (*model.Manifest, error) {
	var resp model.ManifestResponse
	if err := s.client.getJSON(ctx, s.url, s.timeout, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch version manifest: %w", err)
	}

	if resp.Versions == nil {
		return nil, fmt.Errorf("failed to parse version manifest: %w: missing field versions", model.ErrParse)
	}

	manifest := &model.Manifest{
		Versions: make([]model.VersionRecord, 0, len(resp.Versions)),
	}
	if resp.Latest != nil {
		manifest.Latest = *resp.Latest
	}

	for i, v := range resp.Versions {
		switch {
		case v.ID == nil:
			return nil, fmt.Errorf("failed to parse version manifest: %w: versions[%d] missing field id", model.ErrParse, i)
		case v.Type == nil:
			return nil, fmt.Errorf("failed to parse version manifest: %w: versions[%d] missing field type", model.ErrParse, i)
		case v.ReleaseTime == nil:
			return nil, fmt.Errorf("failed to parse version manifest: %w: versions[%d] missing field releaseTime", model.ErrParse, i)
		}

		manifest.Versions = append(manifest.Versions, model.VersionRecord{
			ID:         *v.ID,
			Kind:       model.Kind(*v.Type),
			ReleasedAt: NormalizeTimestamp(*v.ReleaseTime),
		})
	}

	return manifest, nil
}

// NormalizeTimestamp rewrites a trailing "+00:00" offset to "Z". Any other
// offset is returned unchanged; no timezone arithmetic is done.
func NormalizeTimestamp(raw string) string {
	if strings.HasSuffix(raw, "+00:00") {
		return strings.TrimSuffix(raw, "+00:00") + "Z"
	}
	return raw
}
