package editor

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/kirsle/configdir"
	"github.com/pkg/errors"

	"github.com/reforgerctl/reforgerctl/types"
)

// FileStore persists snapshots as a single JSON file.
type FileStore struct {
	Path string
}

// NewFileStore returns a store rooted in the user's config directory.
func NewFileStore() (*FileStore, error) {
	dir := configdir.LocalConfig("reforgerctl")
	if err := configdir.MakePath(dir); err != nil {
		return nil, errors.Wrap(err, "failed to create config directory")
	}
	return &FileStore{Path: filepath.Join(dir, "state.json")}, nil
}

// Load reads the snapshot, returning nil when none has been written yet.
func (s *FileStore) Load() (*types.Snapshot, error) {
	contents, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read state file")
	}

	var snap types.Snapshot
	if err = json.Unmarshal(contents, &snap); err != nil {
		return nil, errors.Wrap(err, "failed to decode state file")
	}
	return &snap, nil
}

// Save writes the snapshot, replacing any previous one.
func (s *FileStore) Save(snap types.Snapshot) error {
	contents, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode state")
	}
	if err = os.WriteFile(s.Path, contents, 0644); err != nil {
		return errors.Wrap(err, "failed to write state file")
	}
	return nil
}
