package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/modpublish/versiondb/model"
)

const (
	// DefaultCatalogURL is the secondary catalog of game version ids
	DefaultCatalogURL = "https://api.curseforge.com/v1/minecraft/version"
	// DefaultCatalogTimeout bounds a single catalog request
	DefaultCatalogTimeout = 30 * time.Second
)

// CatalogSource fetches the secondary version catalog
type CatalogSource struct {
	client  *Client
	url     string
	timeout time.Duration
	apiKey  string
}

// NewCatalogSource creates a CatalogSource. apiKey is sent as x-api-key when set.
func NewCatalogSource(client *Client, url string, timeout time.Duration, apiKey string) *CatalogSource {
	if url == "" {
		url = DefaultCatalogURL
	}
	if timeout <= 0 {
		timeout = DefaultCatalogTimeout
	}
	return &CatalogSource{client: client, url: url, timeout: timeout, apiKey: apiKey}
}

// FetchCatalog retrieves the catalog entries. A payload without "data" yields
// an empty list; an item without gameVersionId maps to model.UnmatchedID.
func (s *CatalogSource) FetchCatalog(ctx context.Context) ([]model.CatalogEntry, error) {
	var header http.Header
	if s.apiKey != "" {
		header = http.Header{}
		header.Set("x-api-key", s.apiKey)
	}

	var resp model.CatalogResponse
	if err := s.client.getJSON(ctx, s.url, s.timeout, header, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch version catalog: %w", err)
	}

	entries := make([]model.CatalogEntry, len(resp.Data))
	for i, item := range resp.Data {
		id := model.UnmatchedID
		if item.GameVersionID != nil {
			id = *item.GameVersionID
		}
		entries[i] = model.CatalogEntry{
			VersionString: item.VersionString,
			GameVersionID: id,
		}
	}

	return entries, nil
}
