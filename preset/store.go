package preset

import (
	"os"
	"path/filepath"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/gruntwork-io/go-commons/files"
	"github.com/robmorgan/tempo/logger"
)

// Store persists a Library.
type Store interface {
	Load() (*Library, error)
	Save(l *Library) error
}

// FileStore keeps the library in a single JSON file.
type FileStore struct {
	Path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the library. A missing file yields an empty library.
func (s *FileStore) Load() (*Library, error) {
	if !files.FileExists(s.Path) {
		return NewLibrary(), nil
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	lib, err := Decode(data)
	if err != nil {
		return nil, err
	}

	logger.GetProjectLogger().Debugf("Loaded %d preset folders from %s", len(lib.Folders), s.Path)
	return lib, nil
}

// Save writes the library to a temporary file and renames it over the old one,
// so a failed write never leaves a truncated library behind.
func (s *FileStore) Save(l *Library) error {
	data, err := Encode(l)
	if err != nil {
		return errors.WithStackTrace(err)
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WithStackTrace(err)
	}
	tmp, err := os.CreateTemp(dir, ".presets-*.json")
	if err != nil {
		return errors.WithStackTrace(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.WithStackTrace(err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WithStackTrace(err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return errors.WithStackTrace(err)
	}
	return nil
}
