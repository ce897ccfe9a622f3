package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modpublish/versiondb/model"
	"github.com/modpublish/versiondb/store"
)

const manifestBody = `{
	"latest": {"release": "1.20.1", "snapshot": "23w31a"},
	"versions": [
		{"id": "23w31a", "type": "snapshot", "releaseTime": "2023-08-01T10:00:00+00:00"},
		{"id": "1.20.1", "type": "release", "releaseTime": "2023-06-12T13:25:51+00:00"}
	]
}`

const catalogBody = `{"data": [{"versionString": "1.20.1", "gameVersionId": 9990}]}`

func serve(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSyncCommand(t *testing.T) {
	output := filepath.Join(t.TempDir(), store.DefaultFile)

	stdout, err := run(t, "sync",
		"--manifest-url", serve(t, http.StatusOK, manifestBody),
		"--catalog-url", serve(t, http.StatusOK, catalogBody),
		"-o", output)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Saved 2 versions")
	assert.Contains(t, stdout, "Latest release:  1.20.1")

	records, err := store.Load(output)
	require.NoError(t, err)
	assert.Equal(t, []model.MergedRecord{
		{ID: "23w31a", Kind: model.KindSnapshot, CatalogID: model.UnmatchedID, ReleasedAt: "2023-08-01T10:00:00Z"},
		{ID: "1.20.1", Kind: model.KindRelease, CatalogID: 9990, ReleasedAt: "2023-06-12T13:25:51Z"},
	}, records)
}

func TestSyncCommand_CatalogDown(t *testing.T) {
	output := filepath.Join(t.TempDir(), store.DefaultFile)

	_, err := run(t, "sync",
		"--manifest-url", serve(t, http.StatusOK, manifestBody),
		"--catalog-url", serve(t, http.StatusBadGateway, "oops"),
		"-o", output)
	require.NoError(t, err)

	records, err := store.Load(output)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, model.UnmatchedID, r.CatalogID)
	}
}

func TestSyncCommand_ManifestDownKeepsFile(t *testing.T) {
	output := filepath.Join(t.TempDir(), store.DefaultFile)
	require.NoError(t, os.WriteFile(output, []byte("[]\n"), 0o644))

	_, err := run(t, "sync",
		"--manifest-url", serve(t, http.StatusInternalServerError, ""),
		"--catalog-url", serve(t, http.StatusOK, catalogBody),
		"-o", output)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNetwork)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestPreviewCommand(t *testing.T) {
	output := filepath.Join(t.TempDir(), store.DefaultFile)
	require.NoError(t, store.Save(output, []model.MergedRecord{
		{ID: "1.20.1", Kind: model.KindRelease, CatalogID: 9990, ReleasedAt: "2023-06-12T13:25:51Z"},
		{ID: "1.20", Kind: model.KindRelease, CatalogID: model.UnmatchedID, ReleasedAt: "2023-06-07T09:35:59Z"},
		{ID: "1.19.4", Kind: model.KindRelease, CatalogID: 9776, ReleasedAt: "2023-03-14T12:56:18Z"},
	}))

	stdout, err := run(t, "preview", "-o", output, "--count", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1.20.1")
	assert.Contains(t, stdout, "✓ matched")
	assert.Contains(t, stdout, "✗ unmatched")
	assert.NotContains(t, stdout, "1.19.4")
	assert.Contains(t, stdout, "... 1 more versions")
	assert.Contains(t, stdout, "Matched 2 of 3 versions (66.7%), 1 unmatched")
}

func TestPreviewCommand_MissingFile(t *testing.T) {
	_, err := run(t, "preview", "-o", filepath.Join(t.TempDir(), "absent.json"), "--count", "5")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrIO)
}

func TestFetchThenEnrichCommands(t *testing.T) {
	output := filepath.Join(t.TempDir(), store.DefaultFile)

	stdout, err := run(t, "fetch",
		"--manifest-url", serve(t, http.StatusOK, manifestBody),
		"--retries", "0",
		"-o", output)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Saved 2 versions")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"i"`)

	_, err = run(t, "enrich",
		"--catalog-url", serve(t, http.StatusOK, catalogBody),
		"--retries", "0",
		"-o", output)
	require.NoError(t, err)

	records, err := store.Load(output)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, model.UnmatchedID, records[0].CatalogID)
	assert.Equal(t, 9990, records[1].CatalogID)
}

func TestEnrichCommand_MissingFile(t *testing.T) {
	_, err := run(t, "enrich",
		"--catalog-url", serve(t, http.StatusOK, catalogBody),
		"-o", filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrIO)
}

func TestFetchCommand_RetriesFlag(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(manifestBody))
	}))
	t.Cleanup(srv.Close)

	output := filepath.Join(t.TempDir(), store.DefaultFile)
	_, err := run(t, "fetch", "--manifest-url", srv.URL, "--retries", "1", "-o", output)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, uint64(1), cfg.Retries)
}
