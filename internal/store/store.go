package store

import (
	"encoding/json"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/gridops/substation-monitor/internal/domain"
)

// Document is the single persisted unit. Every repository operation reads
// the whole document, mutates an in-memory copy and writes the whole
// document back. Last writer wins; there are no partial writes.
type Document struct {
	Substations map[string]domain.Substation `json:"substations"`
	Equipment   map[string]domain.Equipment  `json:"equipment"`
	Alerts      []domain.Alert               `json:"alerts"`
	Maintenance []domain.Maintenance         `json:"maintenance"`
}

// Store persists the document at a fixed path on an afero filesystem.
type Store struct {
	fs   afero.Fs
	path string
	log  zerolog.Logger
	mu   sync.Mutex
}

func New(fs afero.Fs, path string, log zerolog.Logger) *Store {
	return &Store{fs: fs, path: path, log: log}
}

// Load reads the persisted document. An absent or unparseable file triggers
// reseeding with the fixed seed document, which is persisted before being
// returned. Reseeding over a corrupted file discards prior data, so it is
// logged as a warning rather than happening silently.
func (s *Store) Load() (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		s.log.Info().Str("path", s.path).Msg("no stored document, seeding")
		return s.reseed()
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).
			Msg("stored document unreadable, reseeding; prior data is lost")
		return s.reseed()
	}
	return &doc, nil
}

// Save writes the whole document back. No transactions: concurrent writers
// race and the last save wins.
func (s *Store) Save(doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(doc)
}

func (s *Store) write(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return afero.WriteFile(s.fs, s.path, data, 0o644)
}

func (s *Store) reseed() (*Document, error) {
	doc := Seed()
	if err := s.write(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
