// Package store reads and atomically writes the merged version file.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modpublish/versiondb/model"
)

// DefaultFile is the file name consumed by the publishing tool
const DefaultFile = "minecraft.version.json"

// BaseRecord is the manifest-only file format written before catalog ids are known
type BaseRecord struct {
	ID         string     `json:"v"`
	Kind       model.Kind `json:"t"`
	ReleasedAt string     `json:"d"`
}

// BaseRecords converts manifest versions to the manifest-only file format
func BaseRecords(versions []model.VersionRecord) []BaseRecord {
	out := make([]BaseRecord, len(versions))
	for i, v := range versions {
		out[i] = BaseRecord{ID: v.ID, Kind: v.Kind, ReleasedAt: v.ReleasedAt}
	}
	return out
}

// storedRecord accepts both file formats; a missing "i" reads as unmatched
type storedRecord struct {
	ID         string     `json:"v"`
	Kind       model.Kind `json:"t"`
	CatalogID  *int       `json:"i"`
	ReleasedAt string     `json:"d"`
}

// Encode renders v as two-space indented JSON without HTML or ASCII escaping
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes v to path. The data goes to a temporary file in the same
// directory which is then renamed over path, so a failed save leaves any
// previous file intact.
func Save(path string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return fmt.Errorf("%w: failed to encode %s: %v", model.ErrIO, path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file in %s: %v", model.ErrIO, dir, err)
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", model.ErrIO, tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: failed to sync %s: %v", model.ErrIO, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close %s: %v", model.ErrIO, tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("%w: failed to chmod %s: %v", model.ErrIO, tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: failed to replace %s: %v", model.ErrIO, path, err)
	}

	committed = true
	return nil
}

// Load reads a merged version file
func Load(path string) ([]model.MergedRecord, error) {
	stored, err := read(path)
	if err != nil {
		return nil, err
	}

	records := make([]model.MergedRecord, len(stored))
	for i, s := range stored {
		id := model.UnmatchedID
		if s.CatalogID != nil {
			id = *s.CatalogID
		}
		records[i] = model.MergedRecord{ID: s.ID, Kind: s.Kind, CatalogID: id, ReleasedAt: s.ReleasedAt}
	}
	return records, nil
}

func read(path string) ([]storedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", model.ErrIO, path, err)
	}

	var stored []storedRecord
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: %s is not a version list: %v", model.ErrParse, path, err)
	}
	return stored, nil
}
