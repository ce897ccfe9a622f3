package store

import "github.com/modpublish/versiondb/model"

// FileRepository serves records from a version file, re-reading it on every
// call so a concurrent sync is picked up without a restart
type FileRepository struct {
	Path string
}

// NewFileRepository creates a FileRepository for path
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{Path: path}
}

// Versions returns all records in file order
func (r *FileRepository) Versions() ([]model.MergedRecord, error) {
	return Load(r.Path)
}
