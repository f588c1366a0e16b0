package store

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// Fault-resolution sessions are cached per equipment under a derived key
// next to the document, one blob per equipment ID. Sessions have no expiry:
// a stale blob lingers until the next analysis run overwrites it.

func (s *Store) sessionPath(equipmentID string) string {
	return filepath.Join(filepath.Dir(s.path), "sessions", equipmentID+".json")
}

// LoadSession returns the cached session blob for the equipment, with
// ok=false when none exists.
func (s *Store) LoadSession(equipmentID string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := afero.ReadFile(s.fs, s.sessionPath(equipmentID))
	if err != nil {
		return nil, false, nil
	}
	return data, true, nil
}

// SaveSession overwrites the cached session blob for the equipment.
func (s *Store) SaveSession(equipmentID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.sessionPath(equipmentID)
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(s.fs, path, data, 0o644)
}
